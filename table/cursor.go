package table

// Cursor names a position in the tree as (pageNum, cellNum, endOfTable)
// only — no node or row is cached here. Every dereference re-borrows the
// page from the pager, so a cursor never aliases a buffer another
// operation might mutate in between calls.
type Cursor struct {
	table      *Table
	pageNum    uint32
	cellNum    uint32
	endOfTable bool
}

// TableStart returns a cursor at the leftmost leaf's first cell.
func TableStart(t *Table) (*Cursor, error) {
	c, err := TableFind(t, 0)
	if err != nil {
		return nil, err
	}
	page, err := t.Pager.GetPage(c.pageNum)
	if err != nil {
		return nil, err
	}
	c.endOfTable = NumCells(page) == 0
	return c, nil
}

// Value returns the serialized row at the cursor's current position. The
// returned slice aliases the page buffer and must not be retained past the
// current operation.
func (c *Cursor) Value() ([]byte, error) {
	page, err := c.table.Pager.GetPage(c.pageNum)
	if err != nil {
		return nil, err
	}
	return LeafCellValue(page, c.cellNum), nil
}

// Advance moves the cursor to the next cell, following next_leaf when it
// runs off the end of the current leaf.
func (c *Cursor) Advance() error {
	page, err := c.table.Pager.GetPage(c.pageNum)
	if err != nil {
		return err
	}
	c.cellNum++
	if c.cellNum < NumCells(page) {
		return nil
	}
	next := NextLeaf(page)
	if next == 0 {
		c.endOfTable = true
		return nil
	}
	c.pageNum = next
	c.cellNum = 0
	nextPage, err := c.table.Pager.GetPage(next)
	if err != nil {
		return err
	}
	c.endOfTable = NumCells(nextPage) == 0
	return nil
}

// EndOfTable reports whether the cursor has advanced past the last row.
func (c *Cursor) EndOfTable() bool {
	return c.endOfTable
}
