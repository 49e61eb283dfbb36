// Package prc implements the PalmOS PRC resource database format.
//
// A PRC file is a fixed 78-byte header followed by a directory of
// 10-byte record entries and the concatenated record payloads. All
// multi-byte integers are big-endian. The package only reads the
// format; repacking is out of scope.
package prc

import "fmt"

const (
	// HeaderSize is the fixed size of the database header in bytes.
	HeaderSize = 78

	// RecordEntrySize is the size of one resource directory entry.
	RecordEntrySize = 10
)

// Attribute bits in Header.Flags.
const (
	// FlagResourceDB marks the database as a resource database
	// (set on every PRC application).
	FlagResourceDB uint16 = 0x0001

	// FlagCopyPrevention marks the database as non-beamable.
	FlagCopyPrevention uint16 = 0x0040
)

// Header is the 78-byte PRC database header.
type Header struct {
	Name           [32]byte
	Flags          uint16
	Version        uint16
	CreateTime     PilotTime
	ModTime        PilotTime
	BackupTime     PilotTime
	ModNum         uint32
	AppInfoOffset  uint32
	SortInfoOffset uint32
	Type           FourCC
	Creator        FourCC
	UniqueIDSeed   uint32
	NextRecordList uint32
	NumRecords     uint16
}

// DisplayName returns the database name up to the first zero byte.
func (h *Header) DisplayName() string {
	for i, b := range h.Name {
		if b == 0 {
			return printable(h.Name[:i])
		}
	}
	return printable(h.Name[:])
}

// Beamable reports whether the database may be sent over IR.
func (h *Header) Beamable() bool {
	return h.Flags&FlagCopyPrevention == 0
}

// IsResourceDB reports whether the resource database bit is set.
func (h *Header) IsResourceDB() bool {
	return h.Flags&FlagResourceDB != 0
}

// RecordEntry is one 10-byte resource directory entry. Entries appear
// immediately after the header in storage order; that order, not the
// ids, determines payload adjacency.
type RecordEntry struct {
	Tag    FourCC
	ID     uint16
	Offset uint32
}

// FileName returns the output name for the record payload: the
// printable form of the tag followed by the id in hex, e.g.
// "tSTR0001.bin".
func (e RecordEntry) FileName() string {
	return fmt.Sprintf("%s%04x.bin", e.Tag, e.ID)
}
