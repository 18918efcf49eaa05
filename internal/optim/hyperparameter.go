package optim

import (
	"fmt"
	"strings"
)

// ErrNoHyperparameter is returned when a name resolves nowhere in the chain.
var ErrNoHyperparameter = fmt.Errorf("optim: hyperparameter not found")

// Hyperparameter is a chained key/value store of scalar optimizer settings.
// A node holds its own overrides and an optional parent; lookup checks the
// node first, then walks the parent chain. Parents are shared, never owned:
// setting a value on a child does not touch the parent.
type Hyperparameter struct {
	parent *Hyperparameter
	keys   []string
	values map[string]any
}

// NewHyperparameter creates a node chained to parent (nil for a root node).
func NewHyperparameter(parent *Hyperparameter) *Hyperparameter {
	return &Hyperparameter{parent: parent, values: map[string]any{}}
}

// Parent returns the parent node, or nil.
func (h *Hyperparameter) Parent() *Hyperparameter {
	return h.parent
}

// Set stores an override on this node only.
func (h *Hyperparameter) Set(name string, value any) {
	if _, ok := h.values[name]; !ok {
		h.keys = append(h.keys, name)
	}
	h.values[name] = value
}

// Has reports whether the name resolves anywhere in the chain.
func (h *Hyperparameter) Has(name string) bool {
	_, err := h.Get(name)
	return err == nil
}

// Get returns the node's own override when present, else delegates to the
// parent chain. An unset-everywhere name returns ErrNoHyperparameter.
func (h *Hyperparameter) Get(name string) (any, error) {
	if v, ok := h.values[name]; ok {
		return v, nil
	}
	if h.parent != nil {
		return h.parent.Get(name)
	}
	return nil, fmt.Errorf("%w: %q", ErrNoHyperparameter, name)
}

// GetFloat resolves a name and converts the value to float64.
func (h *Hyperparameter) GetFloat(name string) (float64, error) {
	v, err := h.Get(name)
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("optim: hyperparameter %q is %T, not numeric", name, v)
	}
}

// GetDict returns the fully resolved mapping: the parent's dict merged with
// this node's overrides, the node winning on conflicts. A root node returns
// only its own overrides.
func (h *Hyperparameter) GetDict() map[string]any {
	var dict map[string]any
	if h.parent != nil {
		dict = h.parent.GetDict()
	} else {
		dict = map[string]any{}
	}
	for k, v := range h.values {
		dict[k] = v
	}
	return dict
}

// Keys returns all resolvable names in definition order: the parent chain's
// keys first, then keys defined only on this node.
func (h *Hyperparameter) Keys() []string {
	return h.resolvedKeys()
}

func (h *Hyperparameter) resolvedKeys() []string {
	var keys []string
	seen := map[string]bool{}
	if h.parent != nil {
		for _, k := range h.parent.resolvedKeys() {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	for _, k := range h.keys {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	return keys
}

// String lists resolved key=value pairs in definition order, as
// "Hyperparameter(k1=v1, k2=v2)".
func (h *Hyperparameter) String() string {
	dict := h.GetDict()
	var sb strings.Builder
	sb.WriteString("Hyperparameter(")
	for i, k := range h.resolvedKeys() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s=%v", k, dict[k])
	}
	sb.WriteString(")")
	return sb.String()
}

// DeepCopy copies this node and its whole parent chain.
func (h *Hyperparameter) DeepCopy() *Hyperparameter {
	return h.deepCopy(map[*Hyperparameter]*Hyperparameter{})
}

// DeepCopyAll copies several nodes together, preserving shared-ancestor
// identity: when a parent and child are copied in one call, the copied child
// points at the copied parent, not the original.
func DeepCopyAll(nodes ...*Hyperparameter) []*Hyperparameter {
	memo := map[*Hyperparameter]*Hyperparameter{}
	out := make([]*Hyperparameter, len(nodes))
	for i, n := range nodes {
		out[i] = n.deepCopy(memo)
	}
	return out
}

func (h *Hyperparameter) deepCopy(memo map[*Hyperparameter]*Hyperparameter) *Hyperparameter {
	if h == nil {
		return nil
	}
	if c, ok := memo[h]; ok {
		return c
	}
	c := &Hyperparameter{
		parent: h.parent.deepCopy(memo),
		keys:   append([]string(nil), h.keys...),
		values: make(map[string]any, len(h.values)),
	}
	for k, v := range h.values {
		c.values[k] = v
	}
	memo[h] = c
	return c
}
