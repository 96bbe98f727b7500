package jobmatrix

import (
	"strings"

	json "github.com/goccy/go-json"

	"github.com/katalvlaran/cimatrix/axis"
	"github.com/katalvlaran/cimatrix/value"
)

// NameField is the JSON key carrying a row's name.
const NameField = "name"

// layout is the axis order shared by all rows of one build.
type layout struct {
	names []string
	index map[string]int
}

func newLayout(axes []*axis.Axis) *layout {
	l := &layout{names: make([]string, len(axes)), index: make(map[string]int, len(axes))}
	for i, a := range axes {
		l.names[i] = a.Name()
		l.index[a.Name()] = i
	}

	return l
}

// Row is one complete combination: a value per registered axis plus the
// derived name. Rows are immutable values.
type Row struct {
	layout  *layout
	values  []value.Value
	entries []value.Value
	name    string
	key     string
}

// Name returns the display name built from the name pattern.
func (r Row) Name() string { return r.name }

// Get returns the raw value chosen for the named axis.
func (r Row) Get(axisName string) (value.Value, bool) {
	if r.layout == nil {
		return value.Value{}, false
	}
	i, ok := r.layout.index[axisName]
	if !ok {
		return value.Value{}, false
	}

	return r.values[i], true
}

// Entry returns the structured declaration {value, title?, weight?} of the
// named axis's value. ok is false for bare payloads.
func (r Row) Entry(axisName string) (value.Value, bool) {
	if r.layout == nil {
		return value.Value{}, false
	}
	i, ok := r.layout.index[axisName]
	if !ok || !r.entries[i].IsValid() {
		return value.Value{}, false
	}

	return r.entries[i], true
}

// Axes returns the axis names in registration order.
func (r Row) Axes() []string {
	if r.layout == nil {
		return nil
	}
	out := make([]string, len(r.layout.names))
	copy(out, r.layout.names)

	return out
}

// Values returns a copy of the axis → value mapping.
func (r Row) Values() map[string]value.Value {
	out := make(map[string]value.Value, len(r.values))
	for i, v := range r.values {
		out[r.layout.names[i]] = v
	}

	return out
}

// Key identifies the full value tuple; rows with equal keys are duplicates
// regardless of their names.
func (r Row) Key() string { return r.key }

// Equal reports whether r and o carry the same value tuple.
func (r Row) Equal(o Row) bool { return r.key == o.key }

// Fields returns the row as plain data: every axis value plus NameField.
// An axis literally called "name" is shadowed by the row name.
func (r Row) Fields() map[string]any {
	out := make(map[string]any, len(r.values)+1)
	for i, v := range r.values {
		out[r.layout.names[i]] = v.Interface()
	}
	out[NameField] = r.name

	return out
}

// MarshalJSON encodes Fields.
func (r Row) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Fields())
}

// String returns the row name.
func (r Row) String() string { return r.name }

// composer builds rows from per-axis value indices.
type composer struct {
	layout  *layout
	axes    []*axis.Axis
	pattern []int
	sep     string
}

func newComposer(axes []*axis.Axis, pattern []int, sep string) *composer {
	return &composer{layout: newLayout(axes), axes: axes, pattern: pattern, sep: sep}
}

// compose returns the row for choice, where choice[i] indexes the values of
// axes[i]. It does not check exclusions.
// Complexity: O(len(axes)).
func (c *composer) compose(choice []int) Row {
	values := make([]value.Value, len(c.axes))
	entries := make([]value.Value, len(c.axes))
	keys := make([]string, len(c.axes))
	for i, a := range c.axes {
		v := a.At(choice[i])
		values[i], entries[i] = v.Raw, v.Entry
		keys[i] = v.Raw.Key()
	}

	return Row{
		layout:  c.layout,
		values:  values,
		entries: entries,
		name:    c.name(choice),
		key:     strings.Join(keys, ";"),
	}
}

// name joins the non-empty titles of the pattern axes.
func (c *composer) name(choice []int) string {
	parts := make([]string, 0, len(c.pattern))
	for _, ai := range c.pattern {
		if t := c.axes[ai].At(choice[ai]).Title; t != "" {
			parts = append(parts, t)
		}
	}

	return strings.Join(parts, c.sep)
}

// rowSet keeps accepted rows in acceptance order, without duplicates.
type rowSet struct {
	rows []Row
	seen map[string]struct{}
}

func newRowSet() *rowSet {
	return &rowSet{seen: make(map[string]struct{})}
}

// add appends r unless its tuple is already present.
func (s *rowSet) add(r Row) bool {
	if _, dup := s.seen[r.key]; dup {
		return false
	}
	s.seen[r.key] = struct{}{}
	s.rows = append(s.rows, r)

	return true
}

func (s *rowSet) len() int { return len(s.rows) }
