package command

import (
	"sort"
	"strings"

	uuid "github.com/satori/go.uuid"

	"github.com/go-tkbind/tkbind/pkg/errors"
	"github.com/go-tkbind/tkbind/pkg/interp"
)

// Registry owns the interpreter commands and configuration flags of one
// tree node. Its mappings are initialized exactly once; a second Init is a
// re-instantiation error. Every registered command must be unregistered
// (one delete instruction each) before the owning node's own destroy
// instruction is sent: the interpreter rejects destroying an object that
// still has live callback bindings.
type Registry struct {
	in interp.Interp

	commands map[string]*Chain
	aliases  map[string]string
	flags    map[string][]string

	// order preserves registration order for teardown and flag flattening.
	commandOrder []string
	flagOrder    []string
}

// NewRegistry creates a registry bound to one interpreter connection and
// initializes its mappings.
func NewRegistry(in interp.Interp) (*Registry, error) {
	r := &Registry{}
	if err := r.Init(in); err != nil {
		return nil, err
	}
	return r, nil
}

// Init binds the registry and allocates its mappings. Calling Init on an
// already-initialized registry fails and leaves the existing state intact.
func (r *Registry) Init(in interp.Interp) error {
	const op = "command.Registry.Init"
	if r.commands != nil {
		return errors.Reinstantiated(op, "commands")
	}
	if r.flags != nil {
		return errors.Reinstantiated(op, "flags")
	}
	if in == nil {
		return errors.Errorf(op, errors.KindStructure, "registry requires an interpreter handle")
	}
	r.in = in
	r.commands = make(map[string]*Chain)
	r.aliases = make(map[string]string)
	r.flags = make(map[string][]string)
	return nil
}

// AddCallback registers a chain as an interpreter command under a generated
// collision-resistant name and returns the name.
func (r *Registry) AddCallback(chain *Chain) (string, error) {
	const op = "command.Registry.AddCallback"
	if chain == nil || chain.Len() == 0 {
		return "", errors.Errorf(op, errors.KindUnsupported, "empty callback group")
	}

	name := commandName(chain)
	err := r.in.CreateCommand(name, func(args ...string) (any, error) {
		boxed := make([]any, len(args))
		for i, arg := range args {
			boxed[i] = arg
		}
		return chain.Invoke(boxed...)
	})
	if err != nil {
		return "", errors.E(op, errors.KindInterp, err)
	}

	r.commands[name] = chain
	r.commandOrder = append(r.commandOrder, name)
	return name, nil
}

// Alias lets external code refer to a registered command by a friendlier
// key. Aliasing a name that was never registered is a lookup error.
func (r *Registry) Alias(alias, generated string) error {
	if _, ok := r.commands[generated]; !ok {
		return errors.Errorf("command.Registry.Alias", errors.KindLookup,
			"no registered command %q", generated)
	}
	r.aliases[alias] = generated
	return nil
}

// Resolve returns the generated command name behind an alias, or the name
// itself if it is a registered command.
func (r *Registry) Resolve(key string) (string, error) {
	if _, ok := r.commands[key]; ok {
		return key, nil
	}
	if name, ok := r.aliases[key]; ok {
		return name, nil
	}
	return "", errors.Errorf("command.Registry.Resolve", errors.KindLookup,
		"no command or alias %q", key)
}

// Invoke runs a registered command (by generated name or alias) directly.
func (r *Registry) Invoke(key string, args ...any) (any, error) {
	name, err := r.Resolve(key)
	if err != nil {
		return nil, err
	}
	return r.commands[name].Invoke(args...)
}

// AddFlag stores ("-"+key,)+tokens under key and returns key.
func (r *Registry) AddFlag(key string, tokens ...string) string {
	if _, exists := r.flags[key]; !exists {
		r.flagOrder = append(r.flagOrder, key)
	}
	r.flags[key] = append([]string{"-" + key}, tokens...)
	return key
}

// FlagTokens returns the flattened flag tuples of every non-callable
// configuration entry, in registration order, ready for a creation
// instruction.
func (r *Registry) FlagTokens() []string {
	var out []string
	for _, key := range r.flagOrder {
		out = append(out, r.flags[key]...)
	}
	return out
}

// Flag returns the stored token tuple for key.
func (r *Registry) Flag(key string) ([]string, bool) {
	tokens, ok := r.flags[key]
	return tokens, ok
}

// Commands returns the generated names of live commands, in registration
// order.
func (r *Registry) Commands() []string {
	out := make([]string, len(r.commandOrder))
	copy(out, r.commandOrder)
	return out
}

// Configure classifies every configuration entry by callable shape: every
// callable, or slice whose members are all callable, is registered as a
// command and aliased under its key; every other value is registered as a
// flag under its key. Keys are processed in sorted order so creation
// instructions are deterministic. The returned slice holds the keys that
// landed as flags, in that order.
func (r *Registry) Configure(config map[string]any) ([]string, error) {
	keys := make([]string, 0, len(config))
	for key := range config {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var flagKeys []string
	for _, key := range keys {
		classified, err := Classify(config[key])
		if err != nil {
			return nil, err
		}
		switch value := classified.(type) {
		case Callback:
			name, err := r.AddCallback(value.Chain)
			if err != nil {
				return nil, err
			}
			if err := r.Alias(key, name); err != nil {
				return nil, err
			}
		case Flag:
			r.AddFlag(key, value.Tokens...)
			flagKeys = append(flagKeys, key)
		}
	}
	return flagKeys, nil
}

// UnregisterAll deletes every live command from the interpreter, one delete
// instruction each, in registration order. It must run before the owning
// node's destroy instruction.
func (r *Registry) UnregisterAll() error {
	const op = "command.Registry.UnregisterAll"
	for _, name := range r.commandOrder {
		if _, live := r.commands[name]; !live {
			continue
		}
		delete(r.commands, name)
		if err := r.in.DeleteCommand(name); err != nil {
			return errors.E(op, errors.KindInterp, err)
		}
	}
	r.commandOrder = nil
	r.aliases = make(map[string]string)
	return nil
}

// commandName builds a collision-resistant command name from a fresh UUID
// and, when declared, the chain's name.
func commandName(chain *Chain) string {
	u, _ := uuid.NewV4()
	name := "tkb_" + strings.ReplaceAll(u.String(), "-", "")
	if chain.Name() != "" {
		name += "_" + chain.Name()
	}
	return name
}
