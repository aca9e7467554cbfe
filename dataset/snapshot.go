package dataset

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/golang/snappy"
)

const (
	snapshotMagic   = "TSNP"
	snapshotVersion = 1
	// Upper bound accepted for a dataset length read back from a snapshot.
	maxSnapshotLength = 1 << 32
	// Elements decoded per read. Storage grows only as data arrives, so a
	// header promising more than the stream holds fails without a large
	// allocation.
	snapshotChunk = 8 * 1024
)

// WriteSnapshot writes b to w as a snappy framed stream:
//
//	magic "TSNP" | uvarint version | config | uvarint count |
//	count x (uvarint length | length x little-endian int64)
//
// The config carries every Config field, so ReadSnapshot returns a batch
// identical to the one regenerated from the same configuration.
func WriteSnapshot(w io.Writer, b *Batch) error {
	if b.Released() {
		return fmt.Errorf("%w: batch released", ErrPreconditionViolation)
	}
	sw := snappy.NewBufferedWriter(w)
	buf := make([]byte, 0, 64*1024)

	buf = append(buf, snapshotMagic...)
	buf = binary.AppendUvarint(buf, snapshotVersion)
	buf = binary.AppendUvarint(buf, uint64(b.cfg.Length))
	buf = binary.AppendVarint(buf, b.cfg.BaseTimeMillis)
	buf = binary.AppendVarint(buf, b.cfg.MaxGapMillis)
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(b.cfg.DisorderRatio))
	buf = binary.AppendUvarint(buf, uint64(b.cfg.DatasetCount))
	buf = binary.AppendUvarint(buf, b.cfg.Seed)
	buf = binary.AppendUvarint(buf, uint64(len(b.datasets)))

	for _, d := range b.datasets {
		buf = binary.AppendUvarint(buf, uint64(len(d)))
		for _, v := range d {
			if len(buf)+8 > cap(buf) {
				if _, err := sw.Write(buf); err != nil {
					return err
				}
				buf = buf[:0]
			}
			buf = binary.LittleEndian.AppendUint64(buf, uint64(v))
		}
	}
	if _, err := sw.Write(buf); err != nil {
		return err
	}
	return sw.Close()
}

// ReadSnapshot decodes a stream produced by WriteSnapshot.
func ReadSnapshot(r io.Reader) (*Batch, error) {
	br := bufio.NewReaderSize(snappy.NewReader(r), 64*1024)

	magic := make([]byte, len(snapshotMagic))
	if _, err := io.ReadFull(br, magic); err != nil {
		return nil, fmt.Errorf("%w: read magic: %v", ErrSnapshotCorrupt, err)
	}
	if string(magic) != snapshotMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrSnapshotCorrupt, magic)
	}
	version, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, fmt.Errorf("%w: read version: %v", ErrSnapshotCorrupt, err)
	}
	if version != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrSnapshotCorrupt, version)
	}

	var cfg Config
	length, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, fmt.Errorf("%w: read length: %v", ErrSnapshotCorrupt, err)
	}
	cfg.Length = int(length)
	if cfg.BaseTimeMillis, err = binary.ReadVarint(br); err != nil {
		return nil, fmt.Errorf("%w: read base time: %v", ErrSnapshotCorrupt, err)
	}
	if cfg.MaxGapMillis, err = binary.ReadVarint(br); err != nil {
		return nil, fmt.Errorf("%w: read max gap: %v", ErrSnapshotCorrupt, err)
	}
	var word [8]byte
	if _, err := io.ReadFull(br, word[:]); err != nil {
		return nil, fmt.Errorf("%w: read ratio: %v", ErrSnapshotCorrupt, err)
	}
	cfg.DisorderRatio = math.Float64frombits(binary.LittleEndian.Uint64(word[:]))
	count, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, fmt.Errorf("%w: read dataset count: %v", ErrSnapshotCorrupt, err)
	}
	cfg.DatasetCount = int(count)
	if cfg.Seed, err = binary.ReadUvarint(br); err != nil {
		return nil, fmt.Errorf("%w: read seed: %v", ErrSnapshotCorrupt, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotCorrupt, err)
	}

	n, err := binary.ReadUvarint(br)
	if err != nil {
		return nil, fmt.Errorf("%w: read batch size: %v", ErrSnapshotCorrupt, err)
	}
	if n != count {
		return nil, fmt.Errorf("%w: batch holds %d datasets, config says %d", ErrSnapshotCorrupt, n, count)
	}

	b := &Batch{cfg: cfg}
	chunk := make([]byte, 8*snapshotChunk)
	for i := uint64(0); i < n; i++ {
		size, err := binary.ReadUvarint(br)
		if err != nil {
			return nil, fmt.Errorf("%w: dataset %d: read length: %v", ErrSnapshotCorrupt, i, err)
		}
		if size > maxSnapshotLength || int(size) != cfg.Length {
			return nil, fmt.Errorf("%w: dataset %d: length %d, expected %d", ErrSnapshotCorrupt, i, size, cfg.Length)
		}
		d := make(Dataset, 0, min(size, snapshotChunk))
		for remaining := size; remaining > 0; {
			m := min(remaining, snapshotChunk)
			buf := chunk[:8*m]
			if _, err := io.ReadFull(br, buf); err != nil {
				return nil, fmt.Errorf("%w: dataset %d: element %d: %v", ErrSnapshotCorrupt, i, len(d), err)
			}
			for off := 0; off < len(buf); off += 8 {
				d = append(d, int64(binary.LittleEndian.Uint64(buf[off:])))
			}
			remaining -= m
		}
		b.datasets = append(b.datasets, d)
	}
	return b, nil
}
