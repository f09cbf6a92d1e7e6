// Package pager maps page numbers to fixed-size in-memory page buffers
// backed by a single on-disk file. It owns all file I/O and page caching;
// nothing above it is allowed to touch the file descriptor directly.
package pager

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
)

const (
	// PageSize is the fixed size, in bytes, of every page on disk and in
	// memory.
	PageSize = 4096

	// MaxPages bounds how many pages a single table may ever occupy. A
	// production build would raise or remove this; it is kept as a named
	// constant, deliberately low, so the boundary stays test-observable.
	MaxPages = 100
)

// ErrPageOutOfBounds is the sentinel the REPL layer matches against with
// errors.Is to tell page-array exhaustion apart from other fatal errors.
// GetPage never returns it directly — it returns a pageOutOfBoundsError
// carrying the reserved diagnostic text, whose Is method matches this
// sentinel.
var ErrPageOutOfBounds = errors.New("page number out of bounds")

// pageOutOfBoundsError formats to the exact reserved diagnostic text
// ("Tried to fetch page number out of bounds. <n> > <max>") while still
// satisfying errors.Is(err, ErrPageOutOfBounds).
type pageOutOfBoundsError struct {
	pageNum, max uint32
}

func (e *pageOutOfBoundsError) Error() string {
	return fmt.Sprintf("Tried to fetch page number out of bounds. %d > %d", e.pageNum, e.max)
}

func (e *pageOutOfBoundsError) Is(target error) bool {
	return target == ErrPageOutOfBounds
}

// ErrCorruptFile is returned when the database file's length is not a
// whole multiple of PageSize.
var ErrCorruptFile = errors.New("db file is not a whole number of pages")

// Page is one resident 4096-byte buffer. Pages are owned exclusively by
// the Pager that handed them out; nothing else keeps one alive across
// structural operations. There is no dirty tracking — every resident page
// is flushed at Close, matching the "writes happen only at close" model.
type Page struct {
	Data    [PageSize]byte
	PageNum uint32
}

// Pager is a handle to the open database file, its cached page count, and
// the resident page-buffer slots. At most one Page exists per page number.
type Pager struct {
	file     *os.File
	pages    [MaxPages]*Page
	NumPages uint32
}

// Open opens path read/write, creating it if it doesn't exist, and
// computes NumPages from the file's current length. It fails if that
// length isn't a whole multiple of PageSize.
func Open(path string) (*Pager, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "pager: open")
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.Wrap(err, "pager: stat")
	}
	length := fi.Size()
	if length%PageSize != 0 {
		f.Close()
		return nil, ErrCorruptFile
	}
	return &Pager{
		file:     f,
		NumPages: uint32(length / PageSize),
	}, nil
}

// GetPage returns the resident buffer for pageNum, loading it from disk or
// allocating a fresh zeroed buffer as needed, and growing NumPages when
// pageNum names the next never-seen page. Growth is strictly sequential:
// there is no free list, so the only page number that ever grows the
// table is the current NumPages (see GetUnusedPageNum).
func (p *Pager) GetPage(pageNum uint32) (*Page, error) {
	if pageNum >= MaxPages {
		return nil, &pageOutOfBoundsError{pageNum: pageNum, max: MaxPages}
	}

	if p.pages[pageNum] == nil {
		page := &Page{PageNum: pageNum}
		if pageNum < p.NumPages {
			if err := p.readPage(pageNum, page); err != nil {
				return nil, err
			}
		}
		p.pages[pageNum] = page
		if pageNum >= p.NumPages {
			p.NumPages = pageNum + 1
		}
	}
	return p.pages[pageNum], nil
}

func (p *Pager) readPage(pageNum uint32, page *Page) error {
	off := int64(pageNum) * PageSize
	if _, err := p.file.Seek(off, io.SeekStart); err != nil {
		return errors.Wrapf(err, "pager: seek page %d", pageNum)
	}
	// A trailing partial page (shouldn't happen given the Open-time
	// length check) is read as far as it goes: the EOF errors are
	// tolerated and the rest of the fresh buffer stays zero.
	if _, err := io.ReadFull(p.file, page.Data[:]); err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return errors.Wrapf(err, "pager: read page %d", pageNum)
	}
	return nil
}

// GetUnusedPageNum returns the page number that the next GetPage call
// would allocate fresh. It has no side effect; the allocation itself
// happens lazily the next time that number is passed to GetPage.
func (p *Pager) GetUnusedPageNum() uint32 {
	return p.NumPages
}

// Flush writes the resident buffer at pageNum back to its on-disk offset.
// It fails if the page is not resident.
func (p *Pager) Flush(pageNum uint32) error {
	page := p.pages[pageNum]
	if page == nil {
		return errors.Errorf("pager: flush: page %d not resident", pageNum)
	}
	off := int64(pageNum) * PageSize
	if _, err := p.file.Seek(off, io.SeekStart); err != nil {
		return errors.Wrapf(err, "pager: seek page %d", pageNum)
	}
	if _, err := p.file.Write(page.Data[:]); err != nil {
		return errors.Wrapf(err, "pager: write page %d", pageNum)
	}
	return nil
}

// Close flushes every resident page in ascending order, then closes the
// file. This is the only point at which the database durably hits disk.
func (p *Pager) Close() error {
	for i := uint32(0); i < p.NumPages; i++ {
		if p.pages[i] == nil {
			continue
		}
		if err := p.Flush(i); err != nil {
			return err
		}
	}
	return errors.Wrap(p.file.Close(), "pager: close")
}
