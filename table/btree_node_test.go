package table

import (
	"os"
	"testing"

	"ivydb/pager"
)

func newTestPage(t *testing.T) (*pager.Pager, *pager.Page) {
	t.Helper()
	f, err := os.CreateTemp("", "node-*.db")
	if err != nil {
		t.Fatal(err)
	}
	path := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(path) })

	p, err := pager.Open(path)
	if err != nil {
		t.Fatalf("pager.Open: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	page, err := p.GetPage(0)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	return p, page
}

func TestLeafAccessorsRoundTrip(t *testing.T) {
	_, page := newTestPage(t)
	InitializeLeaf(page)

	if GetNodeType(page) != NodeLeaf {
		t.Fatalf("expected NodeLeaf after InitializeLeaf")
	}
	if IsRoot(page) {
		t.Fatalf("InitializeLeaf should not mark is_root")
	}
	if NumCells(page) != 0 || NextLeaf(page) != 0 {
		t.Fatalf("expected zeroed header after InitializeLeaf")
	}

	SetIsRoot(page, true)
	SetParent(page, 7)
	SetNumCells(page, 2)
	SetLeafCellKey(page, 0, 10)
	SetLeafCellKey(page, 1, 20)
	row := Row{ID: 20, Username: "bob", Email: "bob@example.com"}
	if err := SerializeRow(row, LeafCellValue(page, 1)); err != nil {
		t.Fatalf("SerializeRow: %v", err)
	}

	if !IsRoot(page) {
		t.Errorf("expected is_root true")
	}
	if Parent(page) != 7 {
		t.Errorf("Parent = %d, want 7", Parent(page))
	}
	if LeafCellKey(page, 0) != 10 || LeafCellKey(page, 1) != 20 {
		t.Errorf("leaf cell keys not preserved")
	}
	got, err := DeserializeRow(LeafCellValue(page, 1))
	if err != nil {
		t.Fatalf("DeserializeRow: %v", err)
	}
	if got != row {
		t.Errorf("row = %+v, want %+v", got, row)
	}
}

func TestInternalAccessorsRoundTrip(t *testing.T) {
	_, page := newTestPage(t)
	InitializeInternal(page)

	if GetNodeType(page) != NodeInternal {
		t.Fatalf("expected NodeInternal after InitializeInternal")
	}

	SetNumKeys(page, 2)
	SetInternalChild(page, 0, 5)
	SetInternalKey(page, 0, 100)
	SetInternalChild(page, 1, 6)
	SetInternalKey(page, 1, 200)
	SetRightChild(page, 7)

	if InternalChild(page, 0) != 5 || InternalKey(page, 0) != 100 {
		t.Errorf("cell 0 mismatch")
	}
	if InternalChild(page, 1) != 6 || InternalKey(page, 1) != 200 {
		t.Errorf("cell 1 mismatch")
	}
	if RightChild(page) != 7 {
		t.Errorf("RightChild = %d, want 7", RightChild(page))
	}
	if InternalChildAt(page, 0) != 5 || InternalChildAt(page, 1) != 6 || InternalChildAt(page, 2) != 7 {
		t.Errorf("InternalChildAt did not resolve cells/right_child correctly")
	}
}

func TestMaxKeyLeaf(t *testing.T) {
	p, page := newTestPage(t)
	InitializeLeaf(page)
	SetNumCells(page, 3)
	SetLeafCellKey(page, 0, 1)
	SetLeafCellKey(page, 1, 5)
	SetLeafCellKey(page, 2, 9)

	max, err := MaxKey(p, page)
	if err != nil {
		t.Fatalf("MaxKey: %v", err)
	}
	if max != 9 {
		t.Errorf("MaxKey = %d, want 9", max)
	}
}

// TestLeafSplitAndInsertProducesTwoEvenLeaves drives a root leaf past
// LeafNodeMaxCells and checks the resulting 7/7 split shape (S6 in spirit).
func TestLeafSplitAndInsertProducesTwoEvenLeaves(t *testing.T) {
	tbl := openTestTable(t)

	for i := uint32(1); i <= LeafNodeMaxCells+1; i++ {
		if _, err := tbl.Insert(rowFor(i)); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	root, err := tbl.Pager.GetPage(0)
	if err != nil {
		t.Fatalf("GetPage(0): %v", err)
	}
	if GetNodeType(root) != NodeInternal {
		t.Fatalf("expected root to become internal after the first split")
	}
	if NumKeys(root) != 1 {
		t.Fatalf("expected a freshly split root to have 1 key, got %d", NumKeys(root))
	}

	leftPage, err := tbl.Pager.GetPage(InternalChild(root, 0))
	if err != nil {
		t.Fatalf("GetPage(left): %v", err)
	}
	rightPage, err := tbl.Pager.GetPage(RightChild(root))
	if err != nil {
		t.Fatalf("GetPage(right): %v", err)
	}
	if NumCells(leftPage) != 7 || NumCells(rightPage) != 7 {
		t.Fatalf("expected a 7/7 split, got left=%d right=%d", NumCells(leftPage), NumCells(rightPage))
	}
	if InternalKey(root, 0) != LeafCellKey(leftPage, NumCells(leftPage)-1) {
		t.Fatalf("root separator key doesn't match left leaf's max key")
	}
}

// TestThirtyInsertsProduceFourLeaves mirrors scenario S7: inserting keys
// 1..30 in order should leave the root with 3 keys over 4 leaves.
func TestThirtyInsertsProduceFourLeaves(t *testing.T) {
	tbl := openTestTable(t)
	for i := uint32(1); i <= 30; i++ {
		if _, err := tbl.Insert(rowFor(i)); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	root, err := tbl.Pager.GetPage(0)
	if err != nil {
		t.Fatalf("GetPage(0): %v", err)
	}
	if GetNodeType(root) != NodeInternal {
		t.Fatalf("expected internal root after 30 inserts")
	}
	if NumKeys(root) != 3 {
		t.Fatalf("expected root num_keys=3 after 30 inserts, got %d", NumKeys(root))
	}

	var got []uint32
	if err := tbl.Select(func(r Row) error {
		got = append(got, r.ID)
		return nil
	}); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(got) != 30 {
		t.Fatalf("expected 30 rows, got %d", len(got))
	}
	for i, id := range got {
		if id != uint32(i+1) {
			t.Fatalf("row %d has id %d, want %d", i, id, i+1)
		}
	}
}
