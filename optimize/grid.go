// Package optimize enumerates a parameter grid, runs one simulation
// per combination, and selects the combination maximizing the chosen
// performance metric.
package optimize

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Params is one parameter combination.
type Params map[string]any

// Grid maps parameter names to ordered candidate values. Key insertion
// order is preserved: deterministic iteration order is a correctness
// requirement for reproducible results and tie-breaking.
type Grid struct {
	keys   []string
	values map[string][]any
}

func NewGrid() *Grid {
	return &Grid{values: make(map[string][]any)}
}

// Add appends a parameter and its candidate values. Re-adding a name
// replaces its values but keeps its original position.
func (g *Grid) Add(name string, values ...any) *Grid {
	if _, ok := g.values[name]; !ok {
		g.keys = append(g.keys, name)
	}
	g.values[name] = values
	return g
}

func (g *Grid) Keys() []string { return g.keys }

// Size is the number of combinations in the Cartesian product.
func (g *Grid) Size() int {
	n := 1
	for _, k := range g.keys {
		n *= len(g.values[k])
	}
	return n
}

// Combinations enumerates the Cartesian product in key-insertion
// order, with the last-added key varying fastest:
// {a:[1,2], b:[10,20]} yields (1,10), (1,20), (2,10), (2,20).
func (g *Grid) Combinations() []Params {
	if len(g.keys) == 0 {
		return []Params{{}}
	}
	for _, k := range g.keys {
		if len(g.values[k]) == 0 {
			return nil
		}
	}

	var out []Params
	idx := make([]int, len(g.keys))
	for {
		p := make(Params, len(g.keys))
		for i, k := range g.keys {
			p[k] = g.values[k][idx[i]]
		}
		out = append(out, p)

		// Advance the rightmost counter.
		i := len(idx) - 1
		for i >= 0 {
			idx[i]++
			if idx[i] < len(g.values[g.keys[i]]) {
				break
			}
			idx[i] = 0
			i--
		}
		if i < 0 {
			return out
		}
	}
}

// ParseGridYAML reads a grid file of the form
//
//	start_time: ["07:00", "08:00"]
//	risk: [0.01, 0.02]
//
// preserving document key order (plain map decoding would not).
func ParseGridYAML(data []byte) (*Grid, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("optimize: empty grid document")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("optimize: grid must be a mapping of name -> list")
	}

	g := NewGrid()
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		seq := root.Content[i+1]
		if seq.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("optimize: values for %q must be a list", name)
		}
		var vals []any
		for _, n := range seq.Content {
			var v any
			if err := n.Decode(&v); err != nil {
				return nil, fmt.Errorf("optimize: bad value for %q: %w", name, err)
			}
			vals = append(vals, v)
		}
		g.Add(name, vals...)
	}
	return g, nil
}

// AsFloat coerces a grid value to float64.
func AsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// AsInt coerces a grid value to int.
func AsInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int64:
		return int(x), true
	case float64:
		return int(x), x == float64(int(x))
	default:
		return 0, false
	}
}

// AsString coerces a grid value to string.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}
