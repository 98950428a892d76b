package widget

import (
	"fmt"
	"strings"

	"golang.org/x/image/colornames"
)

// NormalizeColor resolves a color configuration value to the #rrggbb hex
// form the interpreter accepts everywhere. SVG 1.1 color names resolve
// through the colornames table; #-prefixed values pass through unchanged.
// The second return reports whether the value looked like a color at all.
func NormalizeColor(value string) (string, bool) {
	if strings.HasPrefix(value, "#") {
		return value, true
	}
	c, ok := colornames.Map[strings.ToLower(value)]
	if !ok {
		return value, false
	}
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B), true
}

// colorKeys are the configuration keys whose values name colors.
var colorKeys = map[string]bool{
	"background":          true,
	"foreground":          true,
	"activebackground":    true,
	"activeforeground":    true,
	"disabledforeground":  true,
	"highlightbackground": true,
	"highlightcolor":      true,
	"insertbackground":    true,
	"selectbackground":    true,
	"selectforeground":    true,
	"troughcolor":         true,
}

// IsColorKey reports whether a configuration key's value names a color.
func IsColorKey(key string) bool {
	return colorKeys[key]
}

// NormalizeColors rewrites the color-keyed string values of config to
// #rrggbb form, leaving everything else untouched.
func NormalizeColors(config Config) Config {
	out := make(Config, len(config))
	for key, value := range config {
		if s, ok := value.(string); ok && IsColorKey(key) {
			if hex, ok := NormalizeColor(s); ok {
				out[key] = hex
				continue
			}
		}
		out[key] = value
	}
	return out
}
