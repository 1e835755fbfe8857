package catalog

import (
	"fmt"
	"sort"

	"github.com/samcharles93/dltext/pkg/dltext"
)

// Rejection records a catalog row whose text an entry refused.
type Rejection struct {
	Index int
	ID    uint32
	Rune  rune
	Pos   int
}

func (r Rejection) String() string {
	return fmt.Sprintf("entry %d (id %d): %q at position %d is not allowed", r.Index, r.ID, r.Rune, r.Pos)
}

// Report summarises an Apply call.
type Report struct {
	Updated    int
	Unchanged  int
	Appended   int
	Rejected   []Rejection
	Mismatched []int // rows whose ID differs from the entry at their index
}

// Apply writes catalog text into tf. Rows are matched by Index and must carry
// the same ID as the entry there; rows past the end of tf are appended in
// index order, and must be contiguous. Rejected text leaves the entry as it
// was and is listed in the report.
func Apply(tf *dltext.File, c Catalog) (Report, error) {
	var rep Report

	rows := append([]Entry(nil), c.Entries...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Index < rows[j].Index })

	for _, row := range rows {
		switch {
		case row.Index < 0:
			return rep, fmt.Errorf("catalog: negative index %d", row.Index)
		case row.Index < len(tf.Entries):
			e := tf.Entries[row.Index]
			if e.ID != row.ID {
				rep.Mismatched = append(rep.Mismatched, row.Index)
				continue
			}
			if e.Text() == row.Text && e.Valid() {
				rep.Unchanged++
				continue
			}
			if a := e.SetText(row.Text); !a.Accepted {
				rep.Rejected = append(rep.Rejected, Rejection{Index: row.Index, ID: row.ID, Rune: a.Rune, Pos: a.Pos})
				continue
			}
			rep.Updated++
		case row.Index == len(tf.Entries):
			e := dltext.NewEntry(row.ID, row.Text)
			if !e.Valid() {
				a := e.SetText(row.Text)
				rep.Rejected = append(rep.Rejected, Rejection{Index: row.Index, ID: row.ID, Rune: a.Rune, Pos: a.Pos})
			}
			tf.Entries = append(tf.Entries, e)
			rep.Appended++
		default:
			return rep, fmt.Errorf("catalog: index %d leaves a gap after %d entries", row.Index, len(tf.Entries))
		}
	}
	return rep, nil
}
