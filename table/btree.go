package table

import (
	"ivydb/pager"

	"github.com/pkg/errors"
)

// ErrDuplicateKey is returned by LeafInsert when the key already exists.
var ErrDuplicateKey = errors.New("duplicate key")

// TableFind descends from the root to the leaf that holds key, or where it
// would be inserted. At an internal node it binary-searches the num_keys
// separators for the first key >= target and descends into the matching
// child (or right_child, if none qualify); at a leaf it binary-searches
// cells the same way.
func TableFind(t *Table, key uint32) (*Cursor, error) {
	pageNum := t.RootPageNum
	for {
		page, err := t.Pager.GetPage(pageNum)
		if err != nil {
			return nil, err
		}
		if GetNodeType(page) == NodeLeaf {
			return &Cursor{table: t, pageNum: pageNum, cellNum: leafFindCell(page, key)}, nil
		}
		pageNum = internalFindChild(page, key)
	}
}

// leafFindCell returns the index of the cell holding key, or the index it
// would be inserted at if absent.
func leafFindCell(page *pager.Page, key uint32) uint32 {
	min, max := uint32(0), NumCells(page)
	for min != max {
		mid := (min + max) / 2
		k := LeafCellKey(page, mid)
		if key == k {
			return mid
		}
		if key < k {
			max = mid
		} else {
			min = mid + 1
		}
	}
	return min
}

// internalChildIndex returns the first separator index i with
// key(i) >= target, or num_keys if none qualify.
func internalChildIndex(page *pager.Page, key uint32) uint32 {
	min, max := uint32(0), NumKeys(page)
	for min != max {
		mid := (min + max) / 2
		if InternalKey(page, mid) >= key {
			max = mid
		} else {
			min = mid + 1
		}
	}
	return min
}

func internalFindChild(page *pager.Page, key uint32) uint32 {
	return InternalChildAt(page, internalChildIndex(page, key))
}

// LeafInsert inserts (key, row) at the leaf the cursor names. A cell
// already holding key fails with ErrDuplicateKey and writes nothing.
func LeafInsert(c *Cursor, key uint32, row Row) error {
	t := c.table
	page, err := t.Pager.GetPage(c.pageNum)
	if err != nil {
		return err
	}
	numCells := NumCells(page)

	if c.cellNum < numCells && LeafCellKey(page, c.cellNum) == key {
		return ErrDuplicateKey
	}

	if numCells >= LeafNodeMaxCells {
		return leafSplitAndInsert(c, key, row)
	}

	for i := numCells; i > c.cellNum; i-- {
		copyLeafCell(page, i, i-1)
	}
	SetLeafCellKey(page, c.cellNum, key)
	if err := SerializeRow(row, LeafCellValue(page, c.cellNum)); err != nil {
		return err
	}
	SetNumCells(page, numCells+1)
	return nil
}

// leafSplitAndInsert implements the 13 existing cells plus the incoming
// one as 14 ordered slots, 7 staying in the old (left) leaf and 7 moving
// to a freshly allocated (right) leaf, walked backward so no cell is
// overwritten before it's read.
func leafSplitAndInsert(c *Cursor, key uint32, row Row) error {
	t := c.table
	oldPageNum := c.pageNum
	oldPage, err := t.Pager.GetPage(oldPageNum)
	if err != nil {
		return err
	}
	oldParent := Parent(oldPage)
	wasRoot := IsRoot(oldPage)

	var rowBuf [RowSize]byte
	if err := SerializeRow(row, rowBuf[:]); err != nil {
		return err
	}

	const totalSlots = LeafNodeMaxCells + 1
	const leftCount = (totalSlots + 1) / 2 // ceil(14/2) = 7
	const rightCount = totalSlots - leftCount

	newPageNum := t.Pager.GetUnusedPageNum()
	newPage, err := t.Pager.GetPage(newPageNum)
	if err != nil {
		return err
	}
	InitializeLeaf(newPage)
	SetParent(newPage, oldParent)

	for i := totalSlots - 1; i >= 0; i-- {
		dest, destIdx := oldPage, uint32(i)
		if uint32(i) >= leftCount {
			dest, destIdx = newPage, uint32(i)-leftCount
		}

		switch {
		case uint32(i) == c.cellNum:
			SetLeafCellKey(dest, destIdx, key)
			copy(LeafCellValue(dest, destIdx), rowBuf[:])
		case uint32(i) > c.cellNum:
			SetLeafCellKey(dest, destIdx, LeafCellKey(oldPage, uint32(i)-1))
			copy(LeafCellValue(dest, destIdx), LeafCellValue(oldPage, uint32(i)-1))
		default:
			SetLeafCellKey(dest, destIdx, LeafCellKey(oldPage, uint32(i)))
			copy(LeafCellValue(dest, destIdx), LeafCellValue(oldPage, uint32(i)))
		}
	}

	SetNumCells(oldPage, leftCount)
	SetNumCells(newPage, rightCount)
	SetNextLeaf(newPage, NextLeaf(oldPage))
	SetNextLeaf(oldPage, newPageNum)

	if wasRoot {
		return createNewRoot(t, oldPageNum, newPageNum)
	}

	newOldMax, err := MaxKey(t.Pager, oldPage)
	if err != nil {
		return err
	}
	if err := updateInternalNodeKeyForChild(t, oldParent, oldPageNum, newOldMax); err != nil {
		return err
	}
	return internalNodeInsert(t, oldParent, newPageNum)
}

// createNewRoot demotes the current root (a full leaf, now split into
// oldPageNum and newRightPageNum) into a freshly allocated left-child
// page, then rewrites page 0 — whose identity as the root never moves —
// as the new internal root over the two children.
func createNewRoot(t *Table, oldPageNum, newRightPageNum uint32) error {
	root, err := t.Pager.GetPage(t.RootPageNum)
	if err != nil {
		return err
	}
	leftPageNum := t.Pager.GetUnusedPageNum()
	leftPage, err := t.Pager.GetPage(leftPageNum)
	if err != nil {
		return err
	}
	leftPage.Data = root.Data
	SetIsRoot(leftPage, false)
	SetParent(leftPage, t.RootPageNum)

	rightPage, err := t.Pager.GetPage(newRightPageNum)
	if err != nil {
		return err
	}
	SetParent(rightPage, t.RootPageNum)

	leftMax, err := MaxKey(t.Pager, leftPage)
	if err != nil {
		return err
	}

	InitializeInternal(root)
	SetIsRoot(root, true)
	SetNumKeys(root, 1)
	SetInternalChild(root, 0, leftPageNum)
	SetInternalKey(root, 0, leftMax)
	SetRightChild(root, newRightPageNum)
	return nil
}

// updateInternalNodeKeyForChild fixes the separator key parent stores for
// childPageNum after that child's max key changed. The right child has no
// stored separator, so it is a no-op in that case.
func updateInternalNodeKeyForChild(t *Table, parentPageNum, childPageNum, newMaxKey uint32) error {
	parent, err := t.Pager.GetPage(parentPageNum)
	if err != nil {
		return err
	}
	if RightChild(parent) == childPageNum {
		return nil
	}
	numKeys := NumKeys(parent)
	for i := uint32(0); i < numKeys; i++ {
		if InternalChild(parent, i) == childPageNum {
			SetInternalKey(parent, i, newMaxKey)
			return nil
		}
	}
	return errors.Errorf("table: child page %d not found under parent %d", childPageNum, parentPageNum)
}

// internalNodeInsert adds childPageNum as a new child of the node at
// parentPageNum, splitting and recursing upward if the parent is itself
// full — the completion of the recursive split-propagation sketch.
func internalNodeInsert(t *Table, parentPageNum, childPageNum uint32) error {
	parent, err := t.Pager.GetPage(parentPageNum)
	if err != nil {
		return err
	}

	numKeys := NumKeys(parent)
	if numKeys >= InternalNodeMaxCells {
		return internalNodeSplitAndInsert(t, parentPageNum, childPageNum)
	}

	child, err := t.Pager.GetPage(childPageNum)
	if err != nil {
		return err
	}
	childMaxKey, err := MaxKey(t.Pager, child)
	if err != nil {
		return err
	}
	SetParent(child, parentPageNum)

	rightChildPageNum := RightChild(parent)
	rightChildPage, err := t.Pager.GetPage(rightChildPageNum)
	if err != nil {
		return err
	}
	rightMax, err := MaxKey(t.Pager, rightChildPage)
	if err != nil {
		return err
	}

	if childMaxKey > rightMax {
		SetInternalChild(parent, numKeys, rightChildPageNum)
		SetInternalKey(parent, numKeys, rightMax)
		SetRightChild(parent, childPageNum)
		SetNumKeys(parent, numKeys+1)
		return nil
	}

	index := internalChildIndex(parent, childMaxKey)
	for i := numKeys; i > index; i-- {
		copyInternalCell(parent, i, i-1)
	}
	SetInternalChild(parent, index, childPageNum)
	SetInternalKey(parent, index, childMaxKey)
	SetNumKeys(parent, numKeys+1)
	return nil
}

type internalEntry struct {
	child  uint32
	maxKey uint32
}

// gatherInternalEntries returns every existing child of page plus
// newChildPageNum, ordered by subtree max key.
func gatherInternalEntries(t *Table, page *pager.Page, newChildPageNum uint32) ([]internalEntry, error) {
	numKeys := NumKeys(page)
	entries := make([]internalEntry, 0, numKeys+2)
	for i := uint32(0); i < numKeys; i++ {
		entries = append(entries, internalEntry{InternalChild(page, i), InternalKey(page, i)})
	}
	rightChildPageNum := RightChild(page)
	rightChildPage, err := t.Pager.GetPage(rightChildPageNum)
	if err != nil {
		return nil, err
	}
	rightMax, err := MaxKey(t.Pager, rightChildPage)
	if err != nil {
		return nil, err
	}
	entries = append(entries, internalEntry{rightChildPageNum, rightMax})

	newChildPage, err := t.Pager.GetPage(newChildPageNum)
	if err != nil {
		return nil, err
	}
	newMax, err := MaxKey(t.Pager, newChildPage)
	if err != nil {
		return nil, err
	}

	insertAt := len(entries)
	for i, e := range entries {
		if newMax < e.maxKey {
			insertAt = i
			break
		}
	}
	entries = append(entries, internalEntry{})
	copy(entries[insertAt+1:], entries[insertAt:len(entries)-1])
	entries[insertAt] = internalEntry{newChildPageNum, newMax}
	return entries, nil
}

// writeInternalEntries rewrites page's cells from ents: every entry but
// the last becomes a normal (child, key) cell; the last becomes
// right_child, with no separately stored key.
func writeInternalEntries(page *pager.Page, ents []internalEntry) {
	n := uint32(len(ents) - 1)
	SetNumKeys(page, n)
	for i := uint32(0); i < n; i++ {
		SetInternalChild(page, i, ents[i].child)
		SetInternalKey(page, i, ents[i].maxKey)
	}
	SetRightChild(page, ents[len(ents)-1].child)
}

// internalNodeSplitAndInsert splits a full interior node the same way
// leaves split: the node's existing children plus the new one are
// gathered in key order, the lower half stays (or, if the node was root,
// moves to a freshly allocated page so page 0 keeps its root identity),
// the upper half goes to a new page, and the split point's key is
// promoted to the grandparent.
func internalNodeSplitAndInsert(t *Table, oldPageNum, newChildPageNum uint32) error {
	oldPage, err := t.Pager.GetPage(oldPageNum)
	if err != nil {
		return err
	}
	oldParent := Parent(oldPage)
	wasRoot := IsRoot(oldPage)

	entries, err := gatherInternalEntries(t, oldPage, newChildPageNum)
	if err != nil {
		return err
	}
	total := len(entries)
	leftCount := (total + 1) / 2

	rightPageNum := t.Pager.GetUnusedPageNum()
	rightPage, err := t.Pager.GetPage(rightPageNum)
	if err != nil {
		return err
	}
	InitializeInternal(rightPage)

	leftPageNum := oldPageNum
	leftPage := oldPage
	if wasRoot {
		leftPageNum = t.Pager.GetUnusedPageNum()
		leftPage, err = t.Pager.GetPage(leftPageNum)
		if err != nil {
			return err
		}
		InitializeInternal(leftPage)
	}

	writeInternalEntries(leftPage, entries[:leftCount])
	promotedKey := entries[leftCount-1].maxKey
	writeInternalEntries(rightPage, entries[leftCount:])

	for i := 0; i < leftCount; i++ {
		if err := reparentChild(t, entries[i].child, leftPageNum); err != nil {
			return err
		}
	}
	for i := leftCount; i < total; i++ {
		if err := reparentChild(t, entries[i].child, rightPageNum); err != nil {
			return err
		}
	}

	if wasRoot {
		SetParent(leftPage, oldPageNum)
		SetParent(rightPage, oldPageNum)
		InitializeInternal(oldPage)
		SetIsRoot(oldPage, true)
		SetNumKeys(oldPage, 1)
		SetInternalChild(oldPage, 0, leftPageNum)
		SetInternalKey(oldPage, 0, promotedKey)
		SetRightChild(oldPage, rightPageNum)
		return nil
	}

	SetParent(rightPage, oldParent)
	if err := updateInternalNodeKeyForChild(t, oldParent, leftPageNum, promotedKey); err != nil {
		return err
	}
	return internalNodeInsert(t, oldParent, rightPageNum)
}

func reparentChild(t *Table, childPageNum, parentPageNum uint32) error {
	childPage, err := t.Pager.GetPage(childPageNum)
	if err != nil {
		return err
	}
	SetParent(childPage, parentPageNum)
	return nil
}
