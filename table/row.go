package table

import (
	"bytes"
	"encoding/binary"

	"ivydb/column"

	"github.com/pkg/errors"
)

// Row is the one fixed tuple shape this store ever holds.
type Row struct {
	ID       uint32
	Username string
	Email    string
}

// SerializeRow writes row into dst, which must be exactly column.RowSize
// bytes. Text fields are copied left-aligned and zero-padded; the caller
// (statement preparation) is responsible for rejecting strings that don't
// fit before this is ever called.
func SerializeRow(row Row, dst []byte) error {
	if len(dst) != column.RowSize {
		return errors.Errorf("table: SerializeRow: dst length %d, want %d", len(dst), column.RowSize)
	}
	for i := range dst {
		dst[i] = 0
	}
	binary.LittleEndian.PutUint32(dst[column.IDOffset:column.IDOffset+column.IDSize], row.ID)
	if err := putZeroPadded(dst[column.UsernameOffset:column.UsernameOffset+column.UsernameSize], row.Username); err != nil {
		return errors.Wrap(err, "table: SerializeRow: username")
	}
	if err := putZeroPadded(dst[column.EmailOffset:column.EmailOffset+column.EmailSize], row.Email); err != nil {
		return errors.Wrap(err, "table: SerializeRow: email")
	}
	return nil
}

func putZeroPadded(dst []byte, s string) error {
	if len(s) >= len(dst) {
		return errors.Errorf("value %q too long for %d-byte field", s, len(dst))
	}
	copy(dst, s)
	return nil
}

// DeserializeRow is the inverse of SerializeRow.
func DeserializeRow(src []byte) (Row, error) {
	if len(src) != column.RowSize {
		return Row{}, errors.Errorf("table: DeserializeRow: src length %d, want %d", len(src), column.RowSize)
	}
	id := binary.LittleEndian.Uint32(src[column.IDOffset : column.IDOffset+column.IDSize])
	username := trimNul(src[column.UsernameOffset : column.UsernameOffset+column.UsernameSize])
	email := trimNul(src[column.EmailOffset : column.EmailOffset+column.EmailSize])
	return Row{ID: id, Username: username, Email: email}, nil
}

func trimNul(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
