// Package relations holds small, independent query and write operations that
// show one-to-one, one-to-many and many-to-many loading with GORM. Every
// operation opens its own context-scoped session and prints what it found.
package relations

import (
	"fmt"
	"io"
	"os"

	"gorm.io/gorm"
)

// Queries runs the relation operations against db and prints to out.
type Queries struct {
	db  *gorm.DB
	out io.Writer
}

// New returns Queries writing to out, or to stdout when out is nil.
func New(db *gorm.DB, out io.Writer) *Queries {
	if out == nil {
		out = os.Stdout
	}
	return &Queries{db: db, out: out}
}

func (q *Queries) println(a ...any) {
	_, _ = fmt.Fprintln(q.out, a...)
}

// StrPtr is a convenience for the optional text columns.
func StrPtr(s string) *string {
	return &s
}

func deref(s *string) string {
	if s == nil {
		return "None"
	}
	return *s
}
