// Package workfile provides the record model for plain-text workfiles and
// their date-filtered views.
//
// A workfile is an ordered list of sections separated by blank lines. A
// section is an ordered list of entries: either a dated entry (date, hours,
// hourly rate, optional trailing comment) or a comment line. Comment lines at
// the head of a section form its title.
package workfile

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUnsortable is returned when sorting a section that contains comment
// entries after its title block.
var ErrUnsortable = errors.New("workfile: cannot sort a section with comments in its body")

// Entry is either a *DatedEntry or a *CommentEntry.
type Entry interface {
	fmt.Stringer
	entry()
}

// DatedEntry records work done on a date: the number of hours and the hourly
// rate in euro. The trailing comment and its leading spacing are
// presentation-only and take no part in equality or ordering.
type DatedEntry struct {
	Date  time.Time
	Hours decimal.Decimal
	Rate  decimal.Decimal

	Comment    string
	HasComment bool
	Prespaces  int
}

// NewDatedEntry creates an entry without a trailing comment.
func NewDatedEntry(date time.Time, hours, rate decimal.Decimal) *DatedEntry {
	return &DatedEntry{Date: date, Hours: hours, Rate: rate, Prespaces: 1}
}

func (e *DatedEntry) entry() {}

// Key returns the identity of the entry for matching purposes. Two entries
// with the same date and the same hours and rate values share a key, whatever
// their comments or decimal scale.
func (e *DatedEntry) Key() string {
	return e.Date.Format("2006-01-02") + "|" + canonDecimal(e.Hours) + "|" + canonDecimal(e.Rate)
}

// EqualKey reports value equality over (date, hours, rate).
func (e *DatedEntry) EqualKey(other *DatedEntry) bool {
	return e.Date.Equal(other.Date) && e.Hours.Equal(other.Hours) && e.Rate.Equal(other.Rate)
}

// Compare orders entries by (date, hours, rate).
func (e *DatedEntry) Compare(other *DatedEntry) int {
	if c := e.Date.Compare(other.Date); c != 0 {
		return c
	}
	if c := e.Hours.Cmp(other.Hours); c != 0 {
		return c
	}
	return e.Rate.Cmp(other.Rate)
}

func (e *DatedEntry) String() string {
	s := fmt.Sprintf("%s %s %s", e.Date.Format("2006-01-02"), e.Hours, e.Rate)
	if e.HasComment {
		n := e.Prespaces
		if n < 1 {
			n = 1
		}
		s += strings.Repeat(" ", n) + "#" + e.Comment
	}
	return s
}

// CommentEntry is a pure text line. Comment entries at the head of a section
// form its title; elsewhere they are free-standing notes.
type CommentEntry struct {
	Text string
}

func (e *CommentEntry) entry() {}

func (e *CommentEntry) String() string {
	return "#" + strings.Join(strings.Split(e.Text, "\n"), "\n#")
}

// canonDecimal renders a decimal without trailing fraction zeros so that
// value-equal decimals share a representation.
func canonDecimal(d decimal.Decimal) string {
	s := d.String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

// Date builds a UTC midnight time from a calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
