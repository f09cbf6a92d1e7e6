package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"ivydb/column"
	"ivydb/table"
)

type StatementType int

const (
	StatementInsert StatementType = iota
	StatementSelect
)

type PrepareResult int

const (
	PrepareSuccess PrepareResult = iota
	PrepareUnrecognizedStatement
	PrepareSyntaxError
	PrepareNegativeID
	PrepareStringTooLong
)

type Statement struct {
	Type        StatementType
	RowToInsert table.Row
}

// prepareStatement parses one input line into a Statement, rejecting
// malformed or out-of-range insert arguments before anything ever reaches
// the tree.
func prepareStatement(input string, stmt *Statement) PrepareResult {
	if strings.HasPrefix(input, "insert") {
		return prepareInsert(input, stmt)
	}
	if input == "select" {
		stmt.Type = StatementSelect
		return PrepareSuccess
	}
	return PrepareUnrecognizedStatement
}

func prepareInsert(input string, stmt *Statement) PrepareResult {
	stmt.Type = StatementInsert

	fields := strings.Fields(input)
	if len(fields) != 4 {
		return PrepareSyntaxError
	}
	id, err := strconv.Atoi(fields[1])
	if err != nil {
		return PrepareSyntaxError
	}
	if id <= 0 {
		return PrepareNegativeID
	}
	if int64(id) > math.MaxUint32 {
		return PrepareSyntaxError
	}
	username, email := fields[2], fields[3]
	if len(username) > column.UsernameMaxLen || len(email) > column.EmailMaxLen {
		return PrepareStringTooLong
	}

	stmt.RowToInsert = table.Row{ID: uint32(id), Username: username, Email: email}
	return PrepareSuccess
}

func (r PrepareResult) String() string {
	switch r {
	case PrepareSuccess:
		return "success"
	case PrepareUnrecognizedStatement:
		return "unrecognized statement"
	case PrepareSyntaxError:
		return "Syntax error. Could not parse statement."
	case PrepareNegativeID:
		return "ID must be positive."
	case PrepareStringTooLong:
		return "String is too long."
	default:
		return fmt.Sprintf("PrepareResult(%d)", int(r))
	}
}
