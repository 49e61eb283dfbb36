package prc

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"
)

// File is an open PRC database. Data holds the whole file, either as
// a read-only mapping or an in-memory copy.
type File struct {
	Path    string
	Data    []byte
	Header  *Header
	Records []RecordEntry
	mmapped bool
}

// Open maps a PRC file read-only and decodes its header and record
// directory. If mmap is unavailable, it falls back to ReadAt-based
// loading. The returned file must be closed to release any mapping.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	size64 := stat.Size()
	if size64 < HeaderSize {
		return nil, fmt.Errorf("%w: file is %d bytes, need %d", ErrMalformedHeader, size64, HeaderSize)
	}
	if size64 > int64(int(^uint(0)>>1)) {
		// cannot index this file safely as []byte on this architecture.
		return nil, fmt.Errorf("%w: file too large to map", ErrMalformedHeader)
	}
	size := int(size64)

	// Prefer mmap where available for zero-copy record slices.
	data, err := unix.Mmap(
		int(f.Fd()),
		0,
		size,
		unix.PROT_READ,
		unix.MAP_SHARED,
	)
	if err == nil {
		pf, parseErr := parseFileData(data, true)
		if parseErr != nil {
			_ = unix.Munmap(data)
			return nil, parseErr
		}
		pf.Path = path
		return pf, nil
	}

	// Fallback path that does not require mmap support.
	data, err = readAllAt(f, size)
	if err != nil {
		return nil, err
	}
	pf, err := parseFileData(data, false)
	if err != nil {
		return nil, err
	}
	pf.Path = path
	return pf, nil
}

// OpenReaderAt loads and decodes a PRC database from a random-access
// reader without mmap.
func OpenReaderAt(r io.ReaderAt, size int64) (*File, error) {
	if size < 0 || size > int64(int(^uint(0)>>1)) {
		return nil, fmt.Errorf("%w: bad input size %d", ErrMalformedHeader, size)
	}
	data, err := readAllAt(r, int(size))
	if err != nil {
		return nil, err
	}
	return parseFileData(data, false)
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF && off == int64(size) {
			break
		}
		return nil, err
	}
	return out, nil
}

func parseFileData(data []byte, mmapped bool) (*File, error) {
	hdr, records, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return &File{
		Data:    data,
		Header:  hdr,
		Records: records,
		mmapped: mmapped,
	}, nil
}

// Decode parses the header and record directory out of raw file
// bytes. It is a pure transformation: no semantic validation beyond
// the structural length checks is applied.
func Decode(data []byte) (*Header, []RecordEntry, error) {
	if len(data) < HeaderSize {
		return nil, nil, fmt.Errorf("%w: have %d bytes, need %d", ErrMalformedHeader, len(data), HeaderSize)
	}
	hdr := decodeHeader(data[:HeaderSize])

	dirSize := int(hdr.NumRecords) * RecordEntrySize
	if len(data)-HeaderSize < dirSize {
		return nil, nil, fmt.Errorf("%w: %d records need %d bytes, have %d",
			ErrTruncatedDirectory, hdr.NumRecords, dirSize, len(data)-HeaderSize)
	}

	records := make([]RecordEntry, hdr.NumRecords)
	for i := range records {
		start := HeaderSize + i*RecordEntrySize
		records[i] = decodeRecordEntry(data[start : start+RecordEntrySize])
	}
	return &hdr, records, nil
}

func decodeHeader(b []byte) Header {
	var h Header
	copy(h.Name[:], b[0:32])
	h.Flags = binary.BigEndian.Uint16(b[32:34])
	h.Version = binary.BigEndian.Uint16(b[34:36])
	h.CreateTime = PilotTime(binary.BigEndian.Uint32(b[36:40]))
	h.ModTime = PilotTime(binary.BigEndian.Uint32(b[40:44]))
	h.BackupTime = PilotTime(binary.BigEndian.Uint32(b[44:48]))
	h.ModNum = binary.BigEndian.Uint32(b[48:52])
	h.AppInfoOffset = binary.BigEndian.Uint32(b[52:56])
	h.SortInfoOffset = binary.BigEndian.Uint32(b[56:60])
	copy(h.Type[:], b[60:64])
	copy(h.Creator[:], b[64:68])
	h.UniqueIDSeed = binary.BigEndian.Uint32(b[68:72])
	h.NextRecordList = binary.BigEndian.Uint32(b[72:76])
	h.NumRecords = binary.BigEndian.Uint16(b[76:78])
	return h
}

func decodeRecordEntry(b []byte) RecordEntry {
	var e RecordEntry
	copy(e.Tag[:], b[0:4])
	e.ID = binary.BigEndian.Uint16(b[4:6])
	e.Offset = binary.BigEndian.Uint32(b[6:10])
	return e
}

// Close releases file resources and any mmap backing.
func (f *File) Close() error {
	if f == nil {
		return nil
	}
	if f.Data != nil && f.mmapped {
		err := unix.Munmap(f.Data)
		f.Data = nil
		f.Header = nil
		f.Records = nil
		f.mmapped = false
		return err
	}
	f.Data = nil
	f.Header = nil
	f.Records = nil
	f.mmapped = false
	return nil
}

// HeaderBytes returns the raw 78-byte header region.
func (f *File) HeaderBytes() []byte {
	return f.Data[:HeaderSize]
}

// RecordLength computes the payload length of record i from the gap
// to the next directory entry, or to the end of the file for the last
// entry. Returns ErrInvalidOffset when the record starts at or past
// EOF and ErrRecordBounds when the gap is negative or overshoots EOF.
func (f *File) RecordLength(i int) (int64, error) {
	e := f.Records[i]
	off := int64(e.Offset)
	fileLen := int64(len(f.Data))
	if off >= fileLen {
		return 0, fmt.Errorf("%w: record %d at 0x%08x, file is %d bytes", ErrInvalidOffset, i, e.Offset, fileLen)
	}
	end := fileLen
	if i+1 < len(f.Records) {
		end = int64(f.Records[i+1].Offset)
	}
	if end < off || end > fileLen {
		return 0, fmt.Errorf("%w: record %d spans [0x%08x, 0x%08x)", ErrRecordBounds, i, off, end)
	}
	return end - off, nil
}

// RecordData returns a zero-copy slice covering record i's payload.
// The caller must not retain the slice after File.Close().
func (f *File) RecordData(i int) ([]byte, error) {
	n, err := f.RecordLength(i)
	if err != nil {
		return nil, err
	}
	off := int64(f.Records[i].Offset)
	return f.Data[off : off+n], nil
}
