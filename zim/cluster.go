package zim

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/fwojciec/zimjson"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// cluster is a decompressed cluster: a table of blob offsets followed by
// the blob data. Offsets are relative to the start of the table.
type cluster struct {
	data    []byte
	offsets []uint64
}

func (c *cluster) blobCount() int {
	return len(c.offsets) - 1
}

func (c *cluster) blob(n uint32) ([]byte, error) {
	if int(n) >= c.blobCount() {
		return nil, zimjson.Errorf(zimjson.ECORRUPT, "blob %d out of range (cluster has %d)", n, c.blobCount())
	}
	return bytes.Clone(c.data[c.offsets[n]:c.offsets[n+1]]), nil
}

// readCluster reads the offset table and the blobs it covers from r and
// stops at the end of the last blob. Bytes stored behind a cluster, such as
// directory entries written after the last one, are never read.
func readCluster(r io.Reader, extended bool) (*cluster, error) {
	offSize := uint64(4)
	if extended {
		offSize = 8
	}
	readOff := func(b []byte) uint64 {
		if extended {
			return le.Uint64(b)
		}
		return uint64(le.Uint32(b))
	}

	head, err := readClusterBytes(r, offSize)
	if err != nil {
		return nil, err
	}
	first := readOff(head)
	if first < offSize || first%offSize != 0 {
		return nil, zimjson.Errorf(zimjson.ECORRUPT, "invalid first blob offset %d", first)
	}

	rest, err := readClusterBytes(r, first-offSize)
	if err != nil {
		return nil, err
	}
	table := append(head, rest...)

	n := first / offSize
	offsets := make([]uint64, n)
	for i := range n {
		off := readOff(table[i*offSize:])
		if off < first || (i > 0 && off < offsets[i-1]) {
			return nil, zimjson.Errorf(zimjson.ECORRUPT, "invalid blob offset %d at index %d", off, i)
		}
		offsets[i] = off
	}

	blobs, err := readClusterBytes(r, offsets[n-1]-first)
	if err != nil {
		return nil, err
	}
	return &cluster{data: append(table, blobs...), offsets: offsets}, nil
}

// readClusterBytes reads exactly n bytes, growing the buffer as data arrives.
func readClusterBytes(r io.Reader, n uint64) ([]byte, error) {
	if n > math.MaxInt64 {
		return nil, zimjson.Errorf(zimjson.ECORRUPT, "cluster size %d out of range", n)
	}
	b, err := io.ReadAll(io.LimitReader(r, int64(n)))
	if err != nil {
		return nil, zimjson.Errorf(zimjson.ECORRUPT, "reading cluster data: %v", err)
	}
	if uint64(len(b)) < n {
		return nil, zimjson.Errorf(zimjson.ECORRUPT, "truncated cluster: want %d bytes, got %d", n, len(b))
	}
	return b, nil
}

func (a *Archive) cluster(n uint32) (*cluster, error) {
	if a.cached != nil && a.cachedIndex == n {
		return a.cached, nil
	}
	if n >= a.hdr.ClusterCount {
		return nil, zimjson.Errorf(zimjson.ECORRUPT, "cluster %d out of range", n)
	}

	start, err := a.readUint64(a.hdr.ClusterPtrPos + 8*uint64(n))
	if err != nil {
		return nil, err
	}
	end, err := a.clusterEnd(n)
	if err != nil {
		return nil, err
	}
	if start >= end || end > uint64(a.size) {
		return nil, zimjson.Errorf(zimjson.ECORRUPT, "cluster %d has invalid bounds [%d, %d)", n, start, end)
	}

	section := io.NewSectionReader(a.r, int64(start), int64(end-start))
	var info [1]byte
	if _, err := io.ReadFull(section, info[:]); err != nil {
		return nil, fmt.Errorf("failed to read cluster %d: %w", n, err)
	}

	r, err := a.decompressor(Compression(info[0]&0x0f), section)
	if err != nil {
		return nil, fmt.Errorf("cluster %d: %w", n, err)
	}

	c, err := readCluster(r, info[0]&extendedClusterFlag != 0)
	if err != nil {
		return nil, fmt.Errorf("cluster %d: %w", n, err)
	}

	a.cached, a.cachedIndex = c, n
	return c, nil
}

// clusterEnd returns an upper bound for the end of cluster n: the start of
// the next cluster, or the checksum position for the last one. Other
// sections may sit in between; readCluster stops at the last blob.
func (a *Archive) clusterEnd(n uint32) (uint64, error) {
	if n+1 < a.hdr.ClusterCount {
		return a.readUint64(a.hdr.ClusterPtrPos + 8*uint64(n+1))
	}
	if a.hdr.ChecksumPos > 0 && a.hdr.ChecksumPos <= uint64(a.size) {
		return a.hdr.ChecksumPos, nil
	}
	return uint64(a.size), nil
}

// decompressor returns a reader of the decompressed cluster stored in src.
func (a *Archive) decompressor(c Compression, src io.Reader) (io.Reader, error) {
	switch c {
	case CompressionDefault, CompressionNone:
		return src, nil
	case CompressionXZ:
		r, err := xz.NewReader(src)
		if err != nil {
			return nil, zimjson.Errorf(zimjson.ECORRUPT, "invalid xz stream: %v", err)
		}
		return r, nil
	case CompressionZstd:
		if a.zstd == nil {
			dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
			if err != nil {
				return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
			}
			a.zstd = dec
		}
		if err := a.zstd.Reset(src); err != nil {
			return nil, zimjson.Errorf(zimjson.ECORRUPT, "invalid zstd stream: %v", err)
		}
		return a.zstd, nil
	default:
		return nil, zimjson.Errorf(zimjson.ECORRUPT, "unsupported cluster compression %d", c)
	}
}
