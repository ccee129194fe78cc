// Package config reads default flag values from ~/.config/habitual/config.yaml.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// YAML is a kong.ConfigurationLoader. Keys are flag names, with dashes or underscores:
//
//	config: ~/habits.json
//	debug: true
//	habit:
//	  log:
//	    days: 14
//
// Nested sections address flags of a subcommand by its command path.
func YAML(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid config file: %w", err)
	}

	var f kong.ResolverFunc = func(context *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		if parent != nil && parent.Command != nil {
			if v, ok := lookup(values, commandPath(parent.Command), flag.Name); ok {
				return v, nil
			}
		}
		v, _ := lookup(values, nil, flag.Name)
		return v, nil
	}
	return f, nil
}

// commandPath lists command names from the root down to node.
func commandPath(node *kong.Node) []string {
	var path []string
	for n := node; n != nil && n.Type == kong.CommandNode; n = n.Parent {
		path = append([]string{n.Name}, path...)
	}
	return path
}

func lookup(values map[string]any, sections []string, name string) (any, bool) {
	current := values
	for _, section := range sections {
		next, ok := current[section].(map[string]any)
		if !ok {
			return nil, false
		}
		current = next
	}

	for _, key := range []string{name, strings.ReplaceAll(name, "-", "_")} {
		if v, ok := current[key]; ok {
			if _, isSection := v.(map[string]any); isSection {
				continue
			}
			return v, true
		}
	}
	return nil, false
}
