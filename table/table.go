package table

import (
	"ivydb/pager"

	"github.com/pkg/errors"
)

// InsertResult reports the outcome of an insert without the caller having
// to inspect an error chain for the one expected failure mode.
type InsertResult int

const (
	InsertSuccess InsertResult = iota
	InsertDuplicateKey
)

// Table is the single on-disk B+ tree this store ever holds, keyed by the
// row's id column.
type Table struct {
	Pager       *pager.Pager
	RootPageNum uint32
}

// OpenTable opens (or creates) the paged file at filename and ensures page
// 0 holds a root node, initializing it as an empty leaf on a brand-new
// file.
func OpenTable(filename string) (*Table, error) {
	p, err := pager.Open(filename)
	if err != nil {
		return nil, err
	}
	t := &Table{Pager: p, RootPageNum: 0}

	if p.NumPages == 0 {
		root, err := p.GetPage(0)
		if err != nil {
			return nil, err
		}
		InitializeLeaf(root)
		SetIsRoot(root, true)
	}
	return t, nil
}

// Close flushes every resident page and closes the underlying file.
func (t *Table) Close() error {
	return t.Pager.Close()
}

// Insert adds row under key row.ID, splitting nodes as needed. A row with
// a key that already exists leaves the tree untouched and returns
// InsertDuplicateKey.
func (t *Table) Insert(row Row) (InsertResult, error) {
	c, err := TableFind(t, row.ID)
	if err != nil {
		return InsertSuccess, err
	}
	if err := LeafInsert(c, row.ID, row); err != nil {
		if errors.Is(err, ErrDuplicateKey) {
			return InsertDuplicateKey, nil
		}
		return InsertSuccess, err
	}
	return InsertSuccess, nil
}

// Select visits every row in ascending key order, left to right across
// leaves via next_leaf, stopping at the first error fn returns.
func (t *Table) Select(fn func(Row) error) error {
	c, err := TableStart(t)
	if err != nil {
		return err
	}
	for !c.EndOfTable() {
		buf, err := c.Value()
		if err != nil {
			return err
		}
		row, err := DeserializeRow(buf)
		if err != nil {
			return err
		}
		if err := fn(row); err != nil {
			return err
		}
		if err := c.Advance(); err != nil {
			return err
		}
	}
	return nil
}
