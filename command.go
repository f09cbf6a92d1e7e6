package main

import (
	"os"
	"strings"

	"ivydb/table"
)

type MetaCommandResult int

const (
	MetaCommandSuccess MetaCommandResult = iota
	MetaCommandUnrecognizedCommand
)

// handleMetaCommand handles every input line starting with '.'. `.exit`
// closes t and terminates the process; `.btree` and `.constants` print
// the tree's structure and its layout constants.
func handleMetaCommand(line string, t *table.Table) MetaCommandResult {
	switch strings.TrimSpace(line) {
	case ".exit":
		t.Close()
		os.Exit(0)
		return MetaCommandSuccess
	case ".btree":
		if err := table.PrintBTree(os.Stdout, t); err != nil {
			fatalPagerError(err)
		}
		return MetaCommandSuccess
	case ".constants":
		table.PrintConstants(os.Stdout)
		return MetaCommandSuccess
	default:
		return MetaCommandUnrecognizedCommand
	}
}
