package api

import (
	"fmt"

	"github.com/samcharles93/prckit/pkg/prc"
)

// HeaderReport is the decoded header in presentable form, shared by
// the HTTP API and the inspect command.
type HeaderReport struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Creator    string   `json:"creator"`
	Flags      string   `json:"flags"`
	Beamable   bool     `json:"beamable"`
	Version    string   `json:"version"`
	Created    string   `json:"created,omitempty"`
	Modified   string   `json:"modified,omitempty"`
	LastBackup string   `json:"last_backup,omitempty"`
	NumRecords int      `json:"num_records"`
	Warnings   []string `json:"warnings,omitempty"`
}

// RecordReport describes one directory entry with its computed
// payload range. Invalid entries carry the reason instead of a length.
type RecordReport struct {
	Index  int    `json:"index"`
	Tag    string `json:"tag"`
	ID     uint16 `json:"id"`
	File   string `json:"file"`
	Offset uint32 `json:"offset"`
	Length int64  `json:"length"`
	Valid  bool   `json:"valid"`
	Error  string `json:"error,omitempty"`
}

func NewHeaderReport(h *prc.Header, strict bool) HeaderReport {
	r := HeaderReport{
		Name:       h.DisplayName(),
		Type:       h.Type.String(),
		Creator:    h.Creator.String(),
		Flags:      fmt.Sprintf("0x%04x", h.Flags),
		Beamable:   h.Beamable(),
		Version:    fmt.Sprintf("0x%04x", h.Version),
		NumRecords: int(h.NumRecords),
		Warnings:   h.Validate(strict),
	}
	if ts, ok := h.CreateTime.Time(); ok {
		r.Created = ts.Format("2006-01-02T15:04:05Z")
	}
	if ts, ok := h.ModTime.Time(); ok {
		r.Modified = ts.Format("2006-01-02T15:04:05Z")
	}
	if ts, ok := h.BackupTime.Time(); ok {
		r.LastBackup = ts.Format("2006-01-02T15:04:05Z")
	}
	return r
}

func NewRecordReports(f *prc.File) []RecordReport {
	out := make([]RecordReport, len(f.Records))
	for i, rec := range f.Records {
		r := RecordReport{
			Index:  i,
			Tag:    rec.Tag.String(),
			ID:     rec.ID,
			File:   rec.FileName(),
			Offset: rec.Offset,
		}
		n, err := f.RecordLength(i)
		if err != nil {
			r.Error = err.Error()
		} else {
			r.Length = n
			r.Valid = true
		}
		out[i] = r
	}
	return out
}
