package table

import (
	"ivydb/column"
	"ivydb/pager"
)

// Common node header: node type (1) + is-root flag (1) + parent pointer (4).
const (
	NodeTypeOffset      = 0
	NodeTypeSize        = 1
	IsRootOffset        = NodeTypeOffset + NodeTypeSize
	IsRootSize          = 1
	ParentPointerOffset = IsRootOffset + IsRootSize
	ParentPointerSize   = 4

	CommonNodeHeaderSize = ParentPointerOffset + ParentPointerSize // 6
)

// Leaf node header adds num_cells (4) + next_leaf (4) on top of the
// common header.
const (
	LeafNodeNumCellsOffset = CommonNodeHeaderSize
	LeafNodeNumCellsSize   = 4
	LeafNodeNextLeafOffset = LeafNodeNumCellsOffset + LeafNodeNumCellsSize
	LeafNodeNextLeafSize   = 4

	LeafNodeHeaderSize = LeafNodeNextLeafOffset + LeafNodeNextLeafSize // 14
)

// Leaf cell body: key (4) + serialized row (column.RowSize).
const (
	LeafNodeKeyOffset = 0
	LeafNodeKeySize   = 4
	LeafNodeValueOffset = LeafNodeKeyOffset + LeafNodeKeySize

	RowSize               = column.RowSize
	LeafNodeCellSize      = LeafNodeKeySize + RowSize
	LeafNodeSpaceForCells = pager.PageSize - LeafNodeHeaderSize
	LeafNodeMaxCells      = LeafNodeSpaceForCells / LeafNodeCellSize
)

// Internal node header adds num_keys (4) + right_child (4) on top of the
// common header.
const (
	InternalNodeNumKeysOffset    = CommonNodeHeaderSize
	InternalNodeNumKeysSize      = 4
	InternalNodeRightChildOffset = InternalNodeNumKeysOffset + InternalNodeNumKeysSize
	InternalNodeRightChildSize   = 4

	InternalNodeHeaderSize = InternalNodeRightChildOffset + InternalNodeRightChildSize // 14
)

// Internal cell: child pointer (4) + key (4).
const (
	InternalNodeChildOffset = 0
	InternalNodeChildSize   = 4
	InternalNodeKeyOffset   = InternalNodeChildOffset + InternalNodeChildSize
	InternalNodeKeySize     = 4

	InternalNodeCellSize = InternalNodeChildSize + InternalNodeKeySize

	// Kept deliberately small (the page could hold far more cells at this
	// fixed width) so interior-node splitting is exercised by realistic
	// test vectors instead of only by page-filling stress tests.
	InternalNodeMaxCells = 3
)
