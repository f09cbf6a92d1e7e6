package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"ivydb/pager"
	"ivydb/table"
)

type ExecuteResult int

const (
	ExecuteSuccess ExecuteResult = iota
	ExecuteDuplicateKey
)

func executeInsert(stmt *Statement, t *table.Table) (ExecuteResult, error) {
	result, err := t.Insert(stmt.RowToInsert)
	if err != nil {
		return ExecuteSuccess, err
	}
	if result == table.InsertDuplicateKey {
		return ExecuteDuplicateKey, nil
	}
	return ExecuteSuccess, nil
}

func executeSelect(t *table.Table) (ExecuteResult, error) {
	err := t.Select(func(row table.Row) error {
		fmt.Printf("(%d, %s, %s)\n", row.ID, row.Username, row.Email)
		return nil
	})
	if err != nil {
		return ExecuteSuccess, err
	}
	return ExecuteSuccess, nil
}

// fatalPagerError prints a Pager-layer error and terminates. Page-array
// exhaustion and other I/O failures are distinguished by exit status so a
// caller can tell "the table is full" apart from "the disk went away".
func fatalPagerError(err error) {
	fmt.Println(err)
	if errors.Is(err, pager.ErrPageOutOfBounds) {
		os.Exit(2)
	}
	os.Exit(1)
}

func executeStatement(stmt *Statement, t *table.Table) (ExecuteResult, error) {
	switch stmt.Type {
	case StatementInsert:
		return executeInsert(stmt, t)
	case StatementSelect:
		return executeSelect(t)
	default:
		return ExecuteSuccess, fmt.Errorf("main: unknown statement type %d", stmt.Type)
	}
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Must supply a database filename.")
		os.Exit(1)
	}

	t, err := table.OpenTable(os.Args[1])
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		printPrompt()
		line, err := readInput(reader)
		if err != nil {
			t.Close()
			os.Exit(0)
		}

		if len(line) > 0 && line[0] == '.' {
			switch handleMetaCommand(line, t) {
			case MetaCommandSuccess:
				continue
			case MetaCommandUnrecognizedCommand:
				fmt.Printf("Unrecognized command '%s'.\n", line)
				continue
			}
		}

		var stmt Statement
		switch prepareResult := prepareStatement(line, &stmt); prepareResult {
		case PrepareSuccess:
			// fall through to execution below
		case PrepareUnrecognizedStatement:
			fmt.Printf("Unrecognized keyword at start of '%s'.\n", line)
			continue
		default:
			fmt.Println(prepareResult)
			continue
		}

		switch result, err := executeStatement(&stmt, t); {
		case err != nil:
			fatalPagerError(err)
		case result == ExecuteSuccess:
			fmt.Println("Executed.")
		case result == ExecuteDuplicateKey:
			fmt.Println("Error: Duplicate key.")
		}
	}
}
