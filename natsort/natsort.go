// Package natsort orders job names the way a human reads them: locale-aware
// collation with embedded digit runs compared as numbers, so "os 8" sorts
// before "os 11" and "Java 8" before "Java 17".
//
// A Comparator wraps a golang.org/x/text collator and, like it, is not safe
// for concurrent use; create one per goroutine.
package natsort

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/katalvlaran/cimatrix/jobmatrix"
)

// Comparator compares strings with numeric-aware collation.
type Comparator struct {
	col *collate.Collator
}

// New returns a Comparator for tag. language.Und gives the root collation.
func New(tag language.Tag) *Comparator {
	return &Comparator{col: collate.New(tag, collate.Numeric)}
}

// Compare returns a negative number, zero or a positive number.
func (c *Comparator) Compare(a, b string) int {
	return c.col.CompareString(a, b)
}

// Less reports whether a sorts before b.
func (c *Comparator) Less(a, b string) bool {
	return c.Compare(a, b) < 0
}

// Compare is a one-shot comparison under the root collation.
func Compare(a, b string) int {
	return New(language.Und).Compare(a, b)
}

// Strings sorts ss in place.
func Strings(ss []string) {
	c := New(language.Und)
	sort.SliceStable(ss, func(i, j int) bool { return c.Less(ss[i], ss[j]) })
}

// SortRows sorts rows in place by name. Rows with equal names keep their
// generation order.
func SortRows(rows []jobmatrix.Row) {
	c := New(language.Und)
	sort.SliceStable(rows, func(i, j int) bool { return c.Less(rows[i].Name(), rows[j].Name()) })
}
