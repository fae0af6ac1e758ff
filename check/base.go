package check

import (
	"fmt"

	"github.com/elliotchance/orderedmap/v2"
)

// base carries the identity common to all check implementations.
type base struct {
	name     string
	category Category
}

// Name ...
func (b base) Name() string {
	return b.name
}

// Category ...
func (b base) Category() Category {
	return b.category
}

// details builds an ordered detail map from alternating key/value pairs,
// formatting float values with three decimals.
func details(pairs ...any) *orderedmap.OrderedMap[string, any] {
	m := orderedmap.NewOrderedMap[string, any]()
	for i := 0; i+1 < len(pairs); i += 2 {
		key, _ := pairs[i].(string)
		switch v := pairs[i+1].(type) {
		case float64:
			m.Set(key, fmt.Sprintf("%.3f", v))
		case float32:
			m.Set(key, fmt.Sprintf("%.3f", v))
		default:
			m.Set(key, v)
		}
	}
	return m
}

// FormatDetails renders a detail map as space separated key=value pairs, in
// insertion order.
func FormatDetails(m *orderedmap.OrderedMap[string, any]) string {
	if m == nil {
		return ""
	}
	out := ""
	count := m.Len()
	for _, key := range m.Keys() {
		v, _ := m.Get(key)
		out += fmt.Sprintf("%s=%v", key, v)
		count--
		if count > 0 {
			out += " "
		}
	}
	return out
}
