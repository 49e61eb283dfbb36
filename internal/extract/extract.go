// Package extract splits an open PRC database into one file per
// resource record plus a verbatim copy of the header region.
package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samcharles93/prckit/internal/logger"
	"github.com/samcharles93/prckit/pkg/prc"
)

type Options struct {
	// ByType places each record in a subdirectory named after its
	// resource type instead of the output root.
	ByType bool
}

// Run writes every valid record of f into outDir and finishes with a
// copy of the raw 78-byte header named after the input file. Records
// with out-of-range offsets or inconsistent directory order are
// skipped with a warning; any I/O failure aborts the run.
//
// The returned count is the record count the header declares, not the
// number of files written: skipped records stay in the total.
func Run(ctx context.Context, f *prc.File, outDir string, opts Options) (int, error) {
	log := logger.FromContext(ctx)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, fmt.Errorf("create output directory: %w", err)
	}

	for i, rec := range f.Records {
		data, err := f.RecordData(i)
		if err != nil {
			if errors.Is(err, prc.ErrInvalidOffset) || errors.Is(err, prc.ErrRecordBounds) {
				log.Warn("skipping record",
					"index", i,
					"tag", rec.Tag.String(),
					"id", fmt.Sprintf("0x%04x", rec.ID),
					"reason", err.Error())
				continue
			}
			return 0, err
		}

		dir := outDir
		if opts.ByType {
			dir = filepath.Join(outDir, prc.CategoryDir(rec.Tag.String()))
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return 0, fmt.Errorf("create type directory: %w", err)
			}
		}

		outPath := filepath.Join(dir, rec.FileName())
		log.Info("writing record",
			"path", outPath,
			"offset", fmt.Sprintf("0x%08x", rec.Offset),
			"size", len(data))
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return 0, fmt.Errorf("write record %d: %w", i, err)
		}
	}

	// Header copy goes last, after all record payloads.
	hdrPath := filepath.Join(outDir, filepath.Base(f.Path)+".hdr")
	if err := os.WriteFile(hdrPath, f.HeaderBytes(), 0o644); err != nil {
		return 0, fmt.Errorf("write header copy: %w", err)
	}
	log.Info("wrote header copy", "path", hdrPath)

	return int(f.Header.NumRecords), nil
}
