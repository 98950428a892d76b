// Package scene builds widget trees from declarative YAML descriptions.
//
// A scene file lists nested nodes, each naming an interpreter widget kind
// plus its configuration; building a scene instantiates the tree under a
// live parent node. A scene may declare the minimum binding-layer version
// it requires.
package scene

import (
	"fmt"
	"os"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-tkbind/tkbind/pkg/errors"
	"github.com/go-tkbind/tkbind/pkg/widget"
)

// Version is the binding-layer version scenes are gated against.
const Version = "v0.1.0"

// Node describes one widget in a scene.
type Node struct {
	// Kind is the interpreter widget kind, e.g. "button" or "ttk::frame".
	Kind string `yaml:"kind"`
	// Name optionally overrides the derived instance name.
	Name string `yaml:"name,omitempty"`
	// Config holds the widget's configuration values. Color-keyed values
	// are normalized to #rrggbb before construction.
	Config map[string]any `yaml:"config,omitempty"`
	// Children are built under this node, depth-first.
	Children []Node `yaml:"children,omitempty"`
}

// Scene is a declarative widget tree.
type Scene struct {
	// Requires is the minimum binding-layer version, e.g. "v0.1.0".
	Requires string `yaml:"requires,omitempty"`
	// Root lists the top-level nodes.
	Root []Node `yaml:"root"`
}

// Load parses a scene document and checks its version requirement.
func Load(data []byte) (*Scene, error) {
	const op = "scene.Load"

	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}

	if s.Requires != "" {
		if !semver.IsValid(s.Requires) {
			return nil, errors.Errorf(op, errors.KindValue,
				"invalid requires version %q", s.Requires)
		}
		if semver.Compare(Version, s.Requires) < 0 {
			return nil, errors.Errorf(op, errors.KindValue,
				"scene requires %s, binding layer is %s", s.Requires, Version)
		}
	}

	if err := validateNodes(s.Root); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadFile reads and parses a scene file.
func LoadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene %s: %w", path, err)
	}
	return Load(data)
}

func validateNodes(nodes []Node) error {
	for _, node := range nodes {
		if node.Kind == "" {
			return errors.Errorf("scene.Load", errors.KindValue,
				"scene node missing kind")
		}
		if err := validateNodes(node.Children); err != nil {
			return err
		}
	}
	return nil
}

// Build instantiates the scene's widgets under parent, depth-first, and
// returns the top-level widgets. Construction stops at the first failure,
// leaving already-built widgets in place.
func (s *Scene) Build(parent widget.Parent) ([]*widget.Widget, error) {
	var roots []*widget.Widget
	for _, node := range s.Root {
		w, err := buildNode(node, parent)
		if err != nil {
			return roots, err
		}
		roots = append(roots, w)
	}
	return roots, nil
}

func buildNode(node Node, parent widget.Parent) (*widget.Widget, error) {
	config := make(widget.Config, len(node.Config)+1)
	for key, value := range node.Config {
		config[key] = value
	}
	if node.Name != "" {
		config["name"] = node.Name
	}
	config = widget.NormalizeColors(config)

	w, err := widget.New(node.Kind, parent, config)
	if err != nil {
		return nil, err
	}
	for _, child := range node.Children {
		if _, err := buildNode(child, w); err != nil {
			return nil, err
		}
	}
	return w, nil
}
