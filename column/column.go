// Package column describes the one fixed table this store ever holds:
// (id, username, email). It is a narrowed, compile-time version of a
// general column/schema system — there is exactly one schema here, so it
// is a set of named constants rather than a runtime-built Schema value.
package column

const (
	// IDSize is the on-disk width of the id column.
	IDSize = 4
	// UsernameMaxLen is the longest username prepare_statement accepts.
	UsernameMaxLen = 32
	// UsernameSize is the on-disk field width: UsernameMaxLen bytes of
	// text plus a trailing NUL.
	UsernameSize = UsernameMaxLen + 1
	// EmailMaxLen is the longest email prepare_statement accepts.
	EmailMaxLen = 255
	// EmailSize is the on-disk field width: EmailMaxLen bytes of text
	// plus a trailing NUL.
	EmailSize = EmailMaxLen + 1

	// IDOffset, UsernameOffset and EmailOffset are byte offsets of each
	// field within a serialized row.
	IDOffset       = 0
	UsernameOffset = IDOffset + IDSize
	EmailOffset    = UsernameOffset + UsernameSize

	// RowSize is the total serialized size of one row.
	RowSize = EmailOffset + EmailSize
)
