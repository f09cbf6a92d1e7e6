package table

import (
	"fmt"
	"io"
	"strings"
)

// PrintConstants prints the fixed layout sizes the on-disk format is built
// from, for the `.constants` meta-command.
func PrintConstants(w io.Writer) {
	fmt.Fprintf(w, "ROW_SIZE: %d\n", RowSize)
	fmt.Fprintf(w, "COMMON_NODE_HEADER_SIZE: %d\n", CommonNodeHeaderSize)
	fmt.Fprintf(w, "LEAF_NODE_HEADER_SIZE: %d\n", LeafNodeHeaderSize)
	fmt.Fprintf(w, "LEAF_NODE_CELL_SIZE: %d\n", LeafNodeCellSize)
	fmt.Fprintf(w, "LEAF_NODE_SPACE_FOR_CELLS: %d\n", LeafNodeSpaceForCells)
	fmt.Fprintf(w, "LEAF_NODE_MAX_CELLS: %d\n", LeafNodeMaxCells)
}

// PrintBTree pretty-prints the tree rooted at page 0 by pre-order
// recursion, for the `.btree` meta-command.
func PrintBTree(w io.Writer, t *Table) error {
	return printNode(w, t, t.RootPageNum, 0)
}

func indent(w io.Writer, level uint32) {
	fmt.Fprint(w, strings.Repeat("  ", int(level)))
}

func printNode(w io.Writer, t *Table, pageNum uint32, level uint32) error {
	page, err := t.Pager.GetPage(pageNum)
	if err != nil {
		return err
	}

	switch GetNodeType(page) {
	case NodeLeaf:
		numCells := NumCells(page)
		indent(w, level)
		fmt.Fprintf(w, "- leaf (size %d)\n", numCells)
		for i := uint32(0); i < numCells; i++ {
			indent(w, level+1)
			fmt.Fprintf(w, "- %d\n", LeafCellKey(page, i))
		}
		return nil

	case NodeInternal:
		numKeys := NumKeys(page)
		indent(w, level)
		fmt.Fprintf(w, "- internal (size %d)\n", numKeys)
		for i := uint32(0); i < numKeys; i++ {
			if err := printNode(w, t, InternalChild(page, i), level+1); err != nil {
				return err
			}
			indent(w, level+1)
			fmt.Fprintf(w, "- key %d\n", InternalKey(page, i))
		}
		return printNode(w, t, RightChild(page), level+1)

	default:
		return fmt.Errorf("table: PrintBTree: unknown node type %d at page %d", GetNodeType(page), pageNum)
	}
}
