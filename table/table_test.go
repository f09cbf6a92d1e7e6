package table

import (
	"os"
	"testing"

	"ivydb/column"
)

func TestSerializeDeserializeRow(t *testing.T) {
	orig := Row{ID: 0xdeadbeef, Username: "hello", Email: "hello@example.com"}
	buf := make([]byte, RowSize)
	if err := SerializeRow(orig, buf); err != nil {
		t.Fatalf("SerializeRow: %v", err)
	}

	got, err := DeserializeRow(buf)
	if err != nil {
		t.Fatalf("DeserializeRow: %v", err)
	}
	if got != orig {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", got, orig)
	}
}

func TestSerializeRowRejectsOverlongFields(t *testing.T) {
	buf := make([]byte, RowSize)
	longUsername := make([]byte, column.UsernameMaxLen+1)
	for i := range longUsername {
		longUsername[i] = 'a'
	}
	row := Row{ID: 1, Username: string(longUsername), Email: "x@example.com"}
	if err := SerializeRow(row, buf); err == nil {
		t.Fatalf("expected SerializeRow to reject an over-length username")
	}
}

func TestInsertAndSelect(t *testing.T) {
	tbl := openTestTable(t)

	rows := []Row{
		{ID: 1, Username: "alice", Email: "alice@example.com"},
		{ID: 2, Username: "bob", Email: "bob@example.com"},
		{ID: 3, Username: "carol", Email: "carol@example.com"},
	}
	for _, r := range rows {
		result, err := tbl.Insert(r)
		if err != nil {
			t.Fatalf("Insert(%+v): %v", r, err)
		}
		if result != InsertSuccess {
			t.Fatalf("Insert(%+v) = %v, want InsertSuccess", r, result)
		}
	}

	var got []Row
	if err := tbl.Select(func(r Row) error {
		got = append(got, r)
		return nil
	}); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("Select returned %d rows, want %d", len(got), len(rows))
	}
	for i, r := range got {
		if r != rows[i] {
			t.Errorf("row %d = %+v, want %+v", i, r, rows[i])
		}
	}
}

func TestInsertDuplicateKeyIsRejected(t *testing.T) {
	tbl := openTestTable(t)

	if _, err := tbl.Insert(Row{ID: 5, Username: "a", Email: "a@example.com"}); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	result, err := tbl.Insert(Row{ID: 5, Username: "b", Email: "b@example.com"})
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if result != InsertDuplicateKey {
		t.Fatalf("expected InsertDuplicateKey, got %v", result)
	}

	// The duplicate attempt must not have overwritten the original row.
	var got []Row
	tbl.Select(func(r Row) error { got = append(got, r); return nil })
	if len(got) != 1 || got[0].Username != "a" {
		t.Fatalf("duplicate insert mutated existing row: %+v", got)
	}
}

func TestDataPersistsAcrossClose(t *testing.T) {
	f, err := os.CreateTemp("", "persist-*.db")
	if err != nil {
		t.Fatal(err)
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	tbl, err := OpenTable(path)
	if err != nil {
		t.Fatalf("OpenTable: %v", err)
	}
	for i := uint32(1); i <= 25; i++ {
		if _, err := tbl.Insert(rowFor(i)); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}
	if err := tbl.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenTable(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	var got []uint32
	if err := reopened.Select(func(r Row) error {
		got = append(got, r.ID)
		return nil
	}); err != nil {
		t.Fatalf("Select after reopen: %v", err)
	}
	if len(got) != 25 {
		t.Fatalf("expected 25 rows after reopen, got %d", len(got))
	}
	for i, id := range got {
		if id != uint32(i+1) {
			t.Fatalf("row %d = %d, want %d", i, id, i+1)
		}
	}
}
