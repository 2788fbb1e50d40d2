package zim

import (
	"bytes"
	"cmp"
	"crypto/md5"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/fwojciec/zimjson"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// DefaultClusterSize is the uncompressed size at which a cluster is closed.
const DefaultClusterSize = 2 << 20

// Writer assembles an archive in memory and writes it out in one pass.
// User entries go to namespace C and metadata to namespace M. A counter
// of item mimetypes is added as M/Counter, as libzim does.
type Writer struct {
	// Compression applied to every cluster. Zero means CompressionZstd.
	Compression Compression

	// ClusterSize is the uncompressed size at which a new cluster is
	// started. Zero means DefaultClusterSize.
	ClusterSize int

	// UUID identifies the archive. Zero means a random UUID.
	UUID uuid.UUID

	mainPath string
	entries  map[string]*writerEntry
}

type writerEntry struct {
	namespace byte
	path      string
	title     string
	mimeType  string
	content   []byte
	target    string // namespace-qualified key of a redirect target
}

func (e *writerEntry) key() string {
	return entryKey(e.namespace, e.path)
}

func entryKey(ns byte, path string) string {
	return string(ns) + "/" + path
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{entries: make(map[string]*writerEntry)}
}

// AddItem adds a content entry.
func (w *Writer) AddItem(path, title, mimeType string, content []byte) error {
	if mimeType == "" {
		return zimjson.Errorf(zimjson.EINVALID, "item %q requires a mimetype", path)
	}
	return w.add(&writerEntry{
		namespace: NamespaceContent,
		path:      path,
		title:     title,
		mimeType:  mimeType,
		content:   content,
	})
}

// AddRedirect adds a container redirect from path to targetPath.
// The target must be added before WriteTo is called.
func (w *Writer) AddRedirect(path, title, targetPath string) error {
	return w.add(&writerEntry{
		namespace: NamespaceContent,
		path:      path,
		title:     title,
		target:    entryKey(NamespaceContent, targetPath),
	})
}

// AddMetadata adds a text/plain metadata entry such as "Title" or "Language".
func (w *Writer) AddMetadata(name, value string) error {
	return w.add(&writerEntry{
		namespace: NamespaceMetadata,
		path:      name,
		mimeType:  "text/plain",
		content:   []byte(value),
	})
}

// SetMainPath declares the archive's main page.
func (w *Writer) SetMainPath(path string) {
	w.mainPath = path
}

func (w *Writer) add(e *writerEntry) error {
	if e.path == "" {
		return zimjson.Errorf(zimjson.EINVALID, "entry path required")
	}
	if strings.ContainsRune(e.path, 0) || strings.ContainsRune(e.title, 0) {
		return zimjson.Errorf(zimjson.EINVALID, "entry %q contains a NUL byte", e.path)
	}
	if _, ok := w.entries[e.key()]; ok {
		return zimjson.Errorf(zimjson.EINVALID, "duplicate entry %q", e.path)
	}
	w.entries[e.key()] = e
	return nil
}

// WriteFile writes the archive to path.
func (w *Writer) WriteFile(path string) error {
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// WriteTo serializes the archive to out.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	entries, err := w.prepare()
	if err != nil {
		return 0, err
	}

	index := make(map[string]uint32, len(entries))
	for i, e := range entries {
		index[e.key()] = uint32(i)
	}

	mimeTypes := w.mimeTypes(entries)
	mimeIndex := make(map[string]uint16, len(mimeTypes))
	for i, m := range mimeTypes {
		mimeIndex[m] = uint16(i)
	}

	clusters, locations, err := w.buildClusters(entries)
	if err != nil {
		return 0, err
	}

	dirents := make([][]byte, len(entries))
	for i, e := range entries {
		d := &dirent{Namespace: e.namespace, Path: e.path, Title: e.title}
		if e.target != "" {
			d.MimeIndex = redirectMimeType
			d.RedirectIndex = index[e.target]
		} else {
			d.MimeIndex = mimeIndex[e.mimeType]
			d.Cluster, d.Blob = locations[i][0], locations[i][1]
		}
		dirents[i] = d.appendTo(nil)
	}

	var mimeList []byte
	for _, m := range mimeTypes {
		mimeList = append(append(mimeList, m...), 0)
	}
	mimeList = append(mimeList, 0)

	n := uint64(len(entries))
	hdr := header{
		MajorVersion: 6,
		MinorVersion: 1,
		UUID:         w.UUID,
		EntryCount:   uint32(n),
		ClusterCount: uint32(len(clusters)),
		MimeListPos:  headerSize,
		MainPage:     noPage,
		LayoutPage:   noPage,
	}
	if hdr.UUID == uuid.Nil {
		hdr.UUID = uuid.New()
	}
	if idx, ok := index[entryKey(NamespaceWellKnown, "mainPage")]; ok {
		hdr.MainPage = idx
	}
	hdr.PathPtrPos = hdr.MimeListPos + uint64(len(mimeList))
	hdr.TitlePtrPos = hdr.PathPtrPos + 8*n
	direntPos := hdr.TitlePtrPos + 4*n

	var pathPtrs []byte
	pos := direntPos
	for _, d := range dirents {
		pathPtrs = le.AppendUint64(pathPtrs, pos)
		pos += uint64(len(d))
	}
	hdr.ClusterPtrPos = pos

	var clusterPtrs []byte
	pos += 8 * uint64(len(clusters))
	for _, c := range clusters {
		clusterPtrs = le.AppendUint64(clusterPtrs, pos)
		pos += uint64(len(c))
	}
	hdr.ChecksumPos = pos

	var titlePtrs []byte
	for _, i := range titleOrder(entries) {
		titlePtrs = le.AppendUint32(titlePtrs, i)
	}

	file := hdr.appendTo(make([]byte, 0, pos+md5.Size))
	file = append(file, mimeList...)
	file = append(file, pathPtrs...)
	file = append(file, titlePtrs...)
	for _, d := range dirents {
		file = append(file, d...)
	}
	file = append(file, clusterPtrs...)
	for _, c := range clusters {
		file = append(file, c...)
	}
	sum := md5.Sum(file)
	file = append(file, sum[:]...)

	written, err := out.Write(file)
	return int64(written), err
}

// prepare adds generated entries, checks redirect targets and returns all
// entries in namespace and path order.
func (w *Writer) prepare() ([]*writerEntry, error) {
	all := maps.Clone(w.entries)

	counterKey := entryKey(NamespaceMetadata, "Counter")
	if _, ok := all[counterKey]; !ok {
		all[counterKey] = &writerEntry{
			namespace: NamespaceMetadata,
			path:      "Counter",
			mimeType:  "text/plain",
			content:   []byte(mimeCounter(w.entries)),
		}
	}

	if w.mainPath != "" {
		target := entryKey(NamespaceContent, w.mainPath)
		if _, ok := all[target]; !ok {
			return nil, zimjson.Errorf(zimjson.EINVALID, "main path %q not found", w.mainPath)
		}
		all[entryKey(NamespaceWellKnown, "mainPage")] = &writerEntry{
			namespace: NamespaceWellKnown,
			path:      "mainPage",
			target:    target,
		}
	}

	for _, e := range all {
		if e.target == "" {
			continue
		}
		if _, ok := all[e.target]; !ok {
			return nil, zimjson.Errorf(zimjson.EINVALID, "redirect %q targets missing entry %q", e.path, e.target)
		}
	}

	return slices.SortedFunc(maps.Values(all), func(a, b *writerEntry) int {
		return strings.Compare(a.key(), b.key())
	}), nil
}

// mimeCounter renders "mime=count" pairs of content items, sorted by
// mimetype and separated by semicolons.
func mimeCounter(entries map[string]*writerEntry) string {
	counts := make(map[string]int)
	for _, e := range entries {
		if e.namespace == NamespaceContent && e.target == "" {
			counts[e.mimeType]++
		}
	}

	pairs := make([]string, 0, len(counts))
	for _, m := range slices.Sorted(maps.Keys(counts)) {
		pairs = append(pairs, m+"="+strconv.Itoa(counts[m]))
	}
	return strings.Join(pairs, ";")
}

func (w *Writer) mimeTypes(entries []*writerEntry) []string {
	seen := make(map[string]struct{})
	for _, e := range entries {
		if e.target == "" {
			seen[e.mimeType] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(seen))
}

// buildClusters packs item contents into clusters in entry order and
// returns the encoded clusters along with the (cluster, blob) location of
// every entry.
func (w *Writer) buildClusters(entries []*writerEntry) ([][]byte, [][2]uint32, error) {
	limit := w.ClusterSize
	if limit <= 0 {
		limit = DefaultClusterSize
	}

	var (
		clusters  [][]byte
		locations = make([][2]uint32, len(entries))
		blobs     [][]byte
		size      int
	)

	flush := func() error {
		if len(blobs) == 0 {
			return nil
		}
		c, err := w.encodeCluster(blobs)
		if err != nil {
			return err
		}
		clusters = append(clusters, c)
		blobs, size = nil, 0
		return nil
	}

	for i, e := range entries {
		if e.target != "" {
			continue
		}
		locations[i] = [2]uint32{uint32(len(clusters)), uint32(len(blobs))}
		blobs = append(blobs, e.content)
		size += len(e.content)
		if size >= limit {
			if err := flush(); err != nil {
				return nil, nil, err
			}
		}
	}
	if err := flush(); err != nil {
		return nil, nil, err
	}
	return clusters, locations, nil
}

func (w *Writer) encodeCluster(blobs [][]byte) ([]byte, error) {
	total := 0
	for _, b := range blobs {
		total += len(b)
	}
	tableSize := 4 * (len(blobs) + 1)
	if uint64(tableSize+total) > 0xffffffff {
		return nil, zimjson.Errorf(zimjson.EINVALID, "cluster exceeds 4 GiB")
	}

	data := make([]byte, 0, tableSize+total)
	off := uint32(tableSize)
	data = le.AppendUint32(data, off)
	for _, b := range blobs {
		off += uint32(len(b))
		data = le.AppendUint32(data, off)
	}
	for _, b := range blobs {
		data = append(data, b...)
	}

	compression := cmp.Or(w.Compression, CompressionZstd)
	payload, err := compress(compression, data)
	if err != nil {
		return nil, err
	}
	return append([]byte{byte(compression)}, payload...), nil
}

func compress(c Compression, data []byte) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		defer enc.Close()
		return enc.EncodeAll(data, nil), nil
	case CompressionXZ:
		var buf bytes.Buffer
		xw, err := xz.NewWriter(&buf)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz writer: %w", err)
		}
		if _, err := xw.Write(data); err != nil {
			return nil, err
		}
		if err := xw.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, zimjson.Errorf(zimjson.EINVALID, "unsupported compression %d", c)
	}
}

// titleOrder returns entry indexes sorted by namespace and title.
func titleOrder(entries []*writerEntry) []uint32 {
	order := make([]uint32, len(entries))
	for i := range order {
		order[i] = uint32(i)
	}
	slices.SortStableFunc(order, func(a, b uint32) int {
		ea, eb := entries[a], entries[b]
		return cmp.Or(
			cmp.Compare(ea.namespace, eb.namespace),
			strings.Compare(cmp.Or(ea.title, ea.path), cmp.Or(eb.title, eb.path)),
		)
	})
	return order
}
