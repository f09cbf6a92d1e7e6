package table

import (
	"encoding/binary"

	"ivydb/pager"

	"github.com/pkg/errors"
)

// NodeType identifies how the remainder of a page is laid out.
type NodeType uint8

const (
	NodeLeaf NodeType = iota
	NodeInternal
)

// getU32/setU32 read and write a little-endian uint32 at a fixed offset,
// the one primitive every other accessor in this file is built from.
func getU32(page *pager.Page, offset uint32) uint32 {
	return binary.LittleEndian.Uint32(page.Data[offset : offset+4])
}

func setU32(page *pager.Page, offset, value uint32) {
	binary.LittleEndian.PutUint32(page.Data[offset:offset+4], value)
}

// Common header, present on every node regardless of type.

func GetNodeType(page *pager.Page) NodeType {
	return NodeType(page.Data[NodeTypeOffset])
}

func SetNodeType(page *pager.Page, t NodeType) {
	page.Data[NodeTypeOffset] = byte(t)
}

func IsRoot(page *pager.Page) bool {
	return page.Data[IsRootOffset] != 0
}

func SetIsRoot(page *pager.Page, isRoot bool) {
	if isRoot {
		page.Data[IsRootOffset] = 1
	} else {
		page.Data[IsRootOffset] = 0
	}
}

func Parent(page *pager.Page) uint32 {
	return getU32(page, ParentPointerOffset)
}

func SetParent(page *pager.Page, parentPageNum uint32) {
	setU32(page, ParentPointerOffset, parentPageNum)
}

// InitializeLeaf zeroes a freshly allocated page into an empty, non-root
// leaf node. Called exactly once per page, at allocation time.
func InitializeLeaf(page *pager.Page) {
	SetNodeType(page, NodeLeaf)
	SetIsRoot(page, false)
	SetParent(page, 0)
	SetNumCells(page, 0)
	SetNextLeaf(page, 0)
}

// InitializeInternal zeroes a freshly allocated page into an empty,
// non-root internal node.
func InitializeInternal(page *pager.Page) {
	SetNodeType(page, NodeInternal)
	SetIsRoot(page, false)
	SetParent(page, 0)
	SetNumKeys(page, 0)
}

// Leaf node accessors.

func NumCells(page *pager.Page) uint32 {
	return getU32(page, LeafNodeNumCellsOffset)
}

func SetNumCells(page *pager.Page, n uint32) {
	setU32(page, LeafNodeNumCellsOffset, n)
}

func NextLeaf(page *pager.Page) uint32 {
	return getU32(page, LeafNodeNextLeafOffset)
}

func SetNextLeaf(page *pager.Page, pageNum uint32) {
	setU32(page, LeafNodeNextLeafOffset, pageNum)
}

func leafCellOffset(cellNum uint32) uint32 {
	return LeafNodeHeaderSize + cellNum*LeafNodeCellSize
}

func LeafCellKey(page *pager.Page, cellNum uint32) uint32 {
	return getU32(page, leafCellOffset(cellNum)+LeafNodeKeyOffset)
}

func SetLeafCellKey(page *pager.Page, cellNum, key uint32) {
	setU32(page, leafCellOffset(cellNum)+LeafNodeKeyOffset, key)
}

// LeafCellValue returns a slice of the page buffer holding the serialized
// row at cellNum. The slice aliases the page; callers must not retain it
// past the current operation.
func LeafCellValue(page *pager.Page, cellNum uint32) []byte {
	start := leafCellOffset(cellNum) + LeafNodeValueOffset
	return page.Data[start : start+RowSize]
}

// copyLeafCell copies the key+value cell at src within page into dst.
func copyLeafCell(page *pager.Page, dst, src uint32) {
	copy(page.Data[leafCellOffset(dst):leafCellOffset(dst)+LeafNodeCellSize],
		page.Data[leafCellOffset(src):leafCellOffset(src)+LeafNodeCellSize])
}

// Internal node accessors.

func NumKeys(page *pager.Page) uint32 {
	return getU32(page, InternalNodeNumKeysOffset)
}

func SetNumKeys(page *pager.Page, n uint32) {
	setU32(page, InternalNodeNumKeysOffset, n)
}

func RightChild(page *pager.Page) uint32 {
	return getU32(page, InternalNodeRightChildOffset)
}

func SetRightChild(page *pager.Page, pageNum uint32) {
	setU32(page, InternalNodeRightChildOffset, pageNum)
}

func internalCellOffset(cellNum uint32) uint32 {
	return InternalNodeHeaderSize + cellNum*InternalNodeCellSize
}

func InternalChild(page *pager.Page, cellNum uint32) uint32 {
	return getU32(page, internalCellOffset(cellNum)+InternalNodeChildOffset)
}

func SetInternalChild(page *pager.Page, cellNum, pageNum uint32) {
	setU32(page, internalCellOffset(cellNum)+InternalNodeChildOffset, pageNum)
}

func InternalKey(page *pager.Page, cellNum uint32) uint32 {
	return getU32(page, internalCellOffset(cellNum)+InternalNodeKeyOffset)
}

func SetInternalKey(page *pager.Page, cellNum, key uint32) {
	setU32(page, internalCellOffset(cellNum)+InternalNodeKeyOffset, key)
}

func copyInternalCell(page *pager.Page, dst, src uint32) {
	copy(page.Data[internalCellOffset(dst):internalCellOffset(dst)+InternalNodeCellSize],
		page.Data[internalCellOffset(src):internalCellOffset(src)+InternalNodeCellSize])
}

// InternalChildAt resolves cell i the way an internal node's fan-out is
// defined: for i < num_keys, the i'th child; for i == num_keys, the
// right child.
func InternalChildAt(page *pager.Page, i uint32) uint32 {
	if i == NumKeys(page) {
		return RightChild(page)
	}
	return InternalChild(page, i)
}

// MaxKey returns the greatest key reachable in the subtree rooted at
// page. For a leaf it is the last cell's key; for an internal node it is
// the max key of its right child, found by descending — this is a
// navigation-path-only operation, never called during a full scan.
func MaxKey(p *pager.Pager, page *pager.Page) (uint32, error) {
	for {
		switch GetNodeType(page) {
		case NodeLeaf:
			n := NumCells(page)
			if n == 0 {
				return 0, errors.New("table: MaxKey of an empty leaf")
			}
			return LeafCellKey(page, n-1), nil
		case NodeInternal:
			rc := RightChild(page)
			next, err := p.GetPage(rc)
			if err != nil {
				return 0, err
			}
			page = next
		default:
			return 0, errors.Errorf("table: unknown node type %d", GetNodeType(page))
		}
	}
}
