package optim

import (
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

// Config maps a YAML document of optimizer settings onto hyperparameter
// chains: a shared defaults node, and one child node per named method whose
// overrides shadow the defaults.
//
// Example document:
//
//	defaults:
//	  lr: 0.01
//	methods:
//	  sgd:
//	    lr: 0.1
//	  momentum:
//	    momentum: 0.9
type Config struct {
	defaults *Hyperparameter
	methods  map[string]*Hyperparameter
}

type configFile struct {
	Defaults map[string]any            `yaml:"defaults"`
	Methods  map[string]map[string]any `yaml:"methods"`
}

// ParseConfig parses a YAML optimizer configuration.
func ParseConfig(data []byte) (*Config, error) {
	var file configFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("optim: parse config: %w", err)
	}

	defaults := NewHyperparameter(nil)
	for _, k := range sortedKeys(file.Defaults) {
		defaults.Set(k, file.Defaults[k])
	}

	methods := make(map[string]*Hyperparameter, len(file.Methods))
	for name, overrides := range file.Methods {
		node := NewHyperparameter(defaults)
		for _, k := range sortedKeys(overrides) {
			node.Set(k, overrides[k])
		}
		methods[name] = node
	}

	return &Config{defaults: defaults, methods: methods}, nil
}

// LoadConfig reads and parses a YAML optimizer configuration.
func LoadConfig(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("optim: read config: %w", err)
	}
	return ParseConfig(data)
}

// Defaults returns the shared defaults node.
func (c *Config) Defaults() *Hyperparameter {
	return c.defaults
}

// Methods returns the configured method names, sorted.
func (c *Config) Methods() []string {
	names := make([]string, 0, len(c.methods))
	for name := range c.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Hyperparameter returns the node for a named method, chained to the
// defaults. Unknown names fail.
func (c *Config) Hyperparameter(method string) (*Hyperparameter, error) {
	node, ok := c.methods[method]
	if !ok {
		return nil, fmt.Errorf("optim: no method %q in config", method)
	}
	return node, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
