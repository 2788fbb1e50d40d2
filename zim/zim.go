// Package zim reads and writes OpenZIM archives.
//
// Archive implements zimjson.Archive over the on-disk format: an 80-byte
// header, a MIME type list, a path pointer list indexing directory entries
// sorted by namespace and path, and clusters of blobs that are stored raw
// or compressed with xz or zstd. Writer produces archives in the same
// format, using the namespace scheme of current libzim releases.
package zim

import (
	"encoding/binary"

	"github.com/fwojciec/zimjson"
)

const (
	magicNumber = 0x044D495A
	headerSize  = 80

	// noPage marks an absent main or layout page in the header.
	noPage = 0xffffffff

	redirectMimeType   = 0xffff
	linkTargetMimeType = 0xfffe
	deletedMimeType    = 0xfffd

	maxRedirectHops = 64
)

// Namespaces used by the current namespace scheme.
const (
	NamespaceContent    = 'C'
	NamespaceMetadata   = 'M'
	NamespaceWellKnown  = 'W'
	NamespaceSearchData = 'X'
)

// Compression identifies how a cluster is stored.
type Compression uint8

// Cluster compression types. Values match the low nibble of the cluster
// info byte.
const (
	CompressionDefault Compression = 0
	CompressionNone    Compression = 1
	CompressionZlib    Compression = 2
	CompressionBzip2   Compression = 3
	CompressionXZ      Compression = 4
	CompressionZstd    Compression = 5
)

const extendedClusterFlag = 0x10

var le = binary.LittleEndian

type header struct {
	MajorVersion  uint16
	MinorVersion  uint16
	UUID          [16]byte
	EntryCount    uint32
	ClusterCount  uint32
	PathPtrPos    uint64
	TitlePtrPos   uint64
	ClusterPtrPos uint64
	MimeListPos   uint64
	MainPage      uint32
	LayoutPage    uint32
	ChecksumPos   uint64
}

func parseHeader(b []byte) (header, error) {
	var h header
	if len(b) < headerSize {
		return h, zimjson.Errorf(zimjson.ECORRUPT, "header too short: %d bytes", len(b))
	}
	if magic := le.Uint32(b[0:4]); magic != magicNumber {
		return h, zimjson.Errorf(zimjson.ECORRUPT, "not a ZIM archive: bad magic number %#x", magic)
	}
	h.MajorVersion = le.Uint16(b[4:6])
	h.MinorVersion = le.Uint16(b[6:8])
	copy(h.UUID[:], b[8:24])
	h.EntryCount = le.Uint32(b[24:28])
	h.ClusterCount = le.Uint32(b[28:32])
	h.PathPtrPos = le.Uint64(b[32:40])
	h.TitlePtrPos = le.Uint64(b[40:48])
	h.ClusterPtrPos = le.Uint64(b[48:56])
	h.MimeListPos = le.Uint64(b[56:64])
	h.MainPage = le.Uint32(b[64:68])
	h.LayoutPage = le.Uint32(b[68:72])
	h.ChecksumPos = le.Uint64(b[72:80])
	return h, nil
}

func (h header) appendTo(b []byte) []byte {
	b = le.AppendUint32(b, magicNumber)
	b = le.AppendUint16(b, h.MajorVersion)
	b = le.AppendUint16(b, h.MinorVersion)
	b = append(b, h.UUID[:]...)
	b = le.AppendUint32(b, h.EntryCount)
	b = le.AppendUint32(b, h.ClusterCount)
	b = le.AppendUint64(b, h.PathPtrPos)
	b = le.AppendUint64(b, h.TitlePtrPos)
	b = le.AppendUint64(b, h.ClusterPtrPos)
	b = le.AppendUint64(b, h.MimeListPos)
	b = le.AppendUint32(b, h.MainPage)
	b = le.AppendUint32(b, h.LayoutPage)
	b = le.AppendUint64(b, h.ChecksumPos)
	return b
}

// newNamespaceScheme reports whether user content lives in namespace C
// and entry paths are exposed without their namespace.
func (h header) newNamespaceScheme() bool {
	return h.MajorVersion > 6 || (h.MajorVersion == 6 && h.MinorVersion >= 1)
}

// dirent is a directory entry.
type dirent struct {
	MimeIndex     uint16
	Namespace     byte
	Revision      uint32
	Cluster       uint32
	Blob          uint32
	RedirectIndex uint32
	Path          string
	Title         string
	Parameters    []byte
}

func (d *dirent) isRedirect() bool {
	return d.MimeIndex == redirectMimeType
}

func (d *dirent) hasItem() bool {
	return d.MimeIndex != redirectMimeType &&
		d.MimeIndex != linkTargetMimeType &&
		d.MimeIndex != deletedMimeType
}

func (d *dirent) title() string {
	if d.Title == "" {
		return d.Path
	}
	return d.Title
}

func (d *dirent) appendTo(b []byte) []byte {
	b = le.AppendUint16(b, d.MimeIndex)
	b = append(b, byte(len(d.Parameters)), d.Namespace)
	b = le.AppendUint32(b, d.Revision)
	switch {
	case d.isRedirect():
		b = le.AppendUint32(b, d.RedirectIndex)
	case d.hasItem():
		b = le.AppendUint32(b, d.Cluster)
		b = le.AppendUint32(b, d.Blob)
	}
	b = append(b, d.Path...)
	b = append(b, 0)
	b = append(b, d.Title...)
	b = append(b, 0)
	return append(b, d.Parameters...)
}
