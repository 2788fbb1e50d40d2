package zim

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fwojciec/zimjson"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
)

// Ensure Archive implements zimjson.Archive at compile time.
var _ zimjson.Archive = (*Archive)(nil)

// Archive is a read-only OpenZIM archive. It is not safe for concurrent use.
type Archive struct {
	r      io.ReaderAt
	size   int64
	closer io.Closer

	hdr       header
	mimeTypes []string

	zstd *zstd.Decoder

	// Most recently decoded cluster. Entries are usually read in path order,
	// so consecutive lookups tend to hit the same cluster.
	cached      *cluster
	cachedIndex uint32
}

// Open opens the archive at path.
func Open(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat archive: %w", err)
	}

	a, err := NewArchive(f, fi.Size())
	if err != nil {
		f.Close()
		return nil, err
	}
	a.closer = f
	return a, nil
}

// NewArchive reads the archive structure from r, which holds size bytes.
func NewArchive(r io.ReaderAt, size int64) (*Archive, error) {
	if size < headerSize {
		return nil, zimjson.Errorf(zimjson.ECORRUPT, "archive too small: %d bytes", size)
	}

	buf := make([]byte, headerSize)
	if _, err := r.ReadAt(buf, 0); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	hdr, err := parseHeader(buf)
	if err != nil {
		return nil, err
	}

	a := &Archive{r: r, size: size, hdr: hdr}
	if err := a.checkLayout(); err != nil {
		return nil, err
	}

	a.mimeTypes, err = a.readMimeTypes()
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Close releases the underlying file, if any.
func (a *Archive) Close() error {
	if a.zstd != nil {
		a.zstd.Close()
		a.zstd = nil
	}
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

// EntryCount returns the number of directory entries in the archive.
func (a *Archive) EntryCount() int {
	return int(a.hdr.EntryCount)
}

// UUID returns the archive identifier.
func (a *Archive) UUID() string {
	return uuid.UUID(a.hdr.UUID).String()
}

// Version returns the major and minor format version.
func (a *Archive) Version() (major, minor uint16) {
	return a.hdr.MajorVersion, a.hdr.MinorVersion
}

// MimeTypes returns the archive's MIME type list.
func (a *Archive) MimeTypes() []string {
	return append([]string(nil), a.mimeTypes...)
}

// EntryByID returns the entry at position id of the path-ordered directory.
// Redirects are resolved to the item of their final target.
func (a *Archive) EntryByID(id int) (*zimjson.Entry, error) {
	if id < 0 || id >= a.EntryCount() {
		return nil, zimjson.Errorf(zimjson.ENOTFOUND, "entry %d out of range [0, %d)", id, a.EntryCount())
	}

	d, err := a.direntAt(uint32(id))
	if err != nil {
		return nil, err
	}

	entry := &zimjson.Entry{
		Path:       a.exposedPath(d),
		Title:      d.title(),
		IsRedirect: d.isRedirect(),
	}

	target := d
	for hops := 0; target.isRedirect(); hops++ {
		if hops == maxRedirectHops {
			return nil, zimjson.Errorf(zimjson.ECORRUPT, "redirect chain of entry %d exceeds %d hops", id, maxRedirectHops)
		}
		if target, err = a.direntAt(target.RedirectIndex); err != nil {
			return nil, err
		}
	}

	entry.Item, err = a.item(target)
	if err != nil {
		return nil, fmt.Errorf("entry %d (%s): %w", id, entry.Path, err)
	}
	return entry, nil
}

// MainPath returns the path of the main page, if the archive declares one.
func (a *Archive) MainPath() (string, bool, error) {
	if a.hdr.MainPage == noPage {
		return "", false, nil
	}
	d, err := a.direntAt(a.hdr.MainPage)
	if err != nil {
		return "", false, err
	}
	for hops := 0; d.isRedirect() && d.Namespace == NamespaceWellKnown; hops++ {
		if hops == maxRedirectHops {
			return "", false, zimjson.Errorf(zimjson.ECORRUPT, "main page redirect loop")
		}
		if d, err = a.direntAt(d.RedirectIndex); err != nil {
			return "", false, err
		}
	}
	return a.exposedPath(d), true, nil
}

// Metadata returns the value of the named metadata entry (e.g. "Title").
// Returns ENOTFOUND if the archive has no such entry.
func (a *Archive) Metadata(name string) (string, error) {
	idx, found, err := a.find(NamespaceMetadata, name)
	if err != nil {
		return "", err
	}
	if !found {
		return "", zimjson.Errorf(zimjson.ENOTFOUND, "metadata %q not found", name)
	}

	entry, err := a.EntryByID(int(idx))
	if err != nil {
		return "", err
	}
	return string(entry.Item.Content), nil
}

// find binary-searches the path-ordered directory.
func (a *Archive) find(ns byte, path string) (uint32, bool, error) {
	var searchErr error
	key := string(ns) + "/" + path

	n := int(a.hdr.EntryCount)
	i := sort.Search(n, func(i int) bool {
		if searchErr != nil {
			return true
		}
		d, err := a.direntAt(uint32(i))
		if err != nil {
			searchErr = err
			return true
		}
		return string(d.Namespace)+"/"+d.Path >= key
	})
	if searchErr != nil {
		return 0, false, searchErr
	}
	if i == n {
		return 0, false, nil
	}

	d, err := a.direntAt(uint32(i))
	if err != nil {
		return 0, false, err
	}
	return uint32(i), d.Namespace == ns && d.Path == path, nil
}

func (a *Archive) exposedPath(d *dirent) string {
	if a.hdr.newNamespaceScheme() {
		return d.Path
	}
	return string(d.Namespace) + "/" + d.Path
}

func (a *Archive) checkLayout() error {
	size := uint64(a.size)
	switch {
	case a.hdr.MimeListPos < headerSize || a.hdr.MimeListPos >= size:
		return zimjson.Errorf(zimjson.ECORRUPT, "MIME list position %d out of bounds", a.hdr.MimeListPos)
	case a.hdr.PathPtrPos+8*uint64(a.hdr.EntryCount) > size:
		return zimjson.Errorf(zimjson.ECORRUPT, "path pointer list exceeds archive size")
	case a.hdr.ClusterPtrPos+8*uint64(a.hdr.ClusterCount) > size:
		return zimjson.Errorf(zimjson.ECORRUPT, "cluster pointer list exceeds archive size")
	}
	return nil
}

func (a *Archive) readMimeTypes() ([]string, error) {
	br := bufio.NewReader(io.NewSectionReader(a.r, int64(a.hdr.MimeListPos), a.size-int64(a.hdr.MimeListPos)))

	var types []string
	for {
		s, err := br.ReadString(0)
		if err != nil {
			return nil, zimjson.Errorf(zimjson.ECORRUPT, "unterminated MIME list: %v", err)
		}
		s = strings.TrimSuffix(s, "\x00")
		if s == "" {
			return types, nil
		}
		if len(types) == linkTargetMimeType {
			return nil, zimjson.Errorf(zimjson.ECORRUPT, "MIME list too long")
		}
		types = append(types, s)
	}
}

func (a *Archive) readUint64(off uint64) (uint64, error) {
	var b [8]byte
	if _, err := a.r.ReadAt(b[:], int64(off)); err != nil {
		return 0, zimjson.Errorf(zimjson.ECORRUPT, "reading pointer at %d: %v", off, err)
	}
	return le.Uint64(b[:]), nil
}

func (a *Archive) direntAt(idx uint32) (*dirent, error) {
	if idx >= a.hdr.EntryCount {
		return nil, zimjson.Errorf(zimjson.ECORRUPT, "entry index %d out of range", idx)
	}
	off, err := a.readUint64(a.hdr.PathPtrPos + 8*uint64(idx))
	if err != nil {
		return nil, err
	}
	if off >= uint64(a.size) {
		return nil, zimjson.Errorf(zimjson.ECORRUPT, "entry %d points past end of archive", idx)
	}
	return readDirent(bufio.NewReaderSize(io.NewSectionReader(a.r, int64(off), a.size-int64(off)), 512))
}

func readDirent(br *bufio.Reader) (*dirent, error) {
	var fixed [8]byte
	if _, err := io.ReadFull(br, fixed[:]); err != nil {
		return nil, corruptDirent(err)
	}

	d := &dirent{
		MimeIndex: le.Uint16(fixed[0:2]),
		Namespace: fixed[3],
		Revision:  le.Uint32(fixed[4:8]),
	}
	paramLen := int(fixed[2])

	switch {
	case d.isRedirect():
		var b [4]byte
		if _, err := io.ReadFull(br, b[:]); err != nil {
			return nil, corruptDirent(err)
		}
		d.RedirectIndex = le.Uint32(b[:])
	case d.hasItem():
		var b [8]byte
		if _, err := io.ReadFull(br, b[:]); err != nil {
			return nil, corruptDirent(err)
		}
		d.Cluster = le.Uint32(b[0:4])
		d.Blob = le.Uint32(b[4:8])
	}

	path, err := br.ReadString(0)
	if err != nil {
		return nil, corruptDirent(err)
	}
	title, err := br.ReadString(0)
	if err != nil {
		return nil, corruptDirent(err)
	}
	d.Path = strings.TrimSuffix(path, "\x00")
	d.Title = strings.TrimSuffix(title, "\x00")

	if paramLen > 0 {
		d.Parameters = make([]byte, paramLen)
		if _, err := io.ReadFull(br, d.Parameters); err != nil {
			return nil, corruptDirent(err)
		}
	}
	return d, nil
}

func corruptDirent(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return zimjson.Errorf(zimjson.ECORRUPT, "truncated directory entry")
	}
	return zimjson.Errorf(zimjson.ECORRUPT, "reading directory entry: %v", err)
}

func (a *Archive) item(d *dirent) (*zimjson.Item, error) {
	if !d.hasItem() {
		return nil, zimjson.Errorf(zimjson.ENOTFOUND, "entry %c/%s has no item", d.Namespace, d.Path)
	}
	if int(d.MimeIndex) >= len(a.mimeTypes) {
		return nil, zimjson.Errorf(zimjson.ECORRUPT, "MIME index %d out of range", d.MimeIndex)
	}

	c, err := a.cluster(d.Cluster)
	if err != nil {
		return nil, err
	}
	blob, err := c.blob(d.Blob)
	if err != nil {
		return nil, err
	}

	return &zimjson.Item{
		MimeType: a.mimeTypes[d.MimeIndex],
		Content:  blob,
		Size:     int64(len(blob)),
	}, nil
}
