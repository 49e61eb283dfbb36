package extract

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/samcharles93/prckit/pkg/prc"
)

type entry struct {
	tag    string
	id     uint16
	offset uint32
}

// writeArchive builds a PRC image on disk with the given directory and
// a deterministic payload pattern, then returns the path and raw bytes.
func writeArchive(t *testing.T, entries []entry, fileLen int) (string, []byte) {
	t.Helper()

	data := make([]byte, fileLen)
	copy(data[0:32], "Fixture")
	binary.BigEndian.PutUint16(data[32:34], 0x0001) // flags: resource db
	binary.BigEndian.PutUint16(data[34:36], 0x0001) // version
	copy(data[60:64], "appl")
	copy(data[64:68], "TEST")
	binary.BigEndian.PutUint16(data[76:78], uint16(len(entries)))

	for i, e := range entries {
		start := prc.HeaderSize + i*prc.RecordEntrySize
		copy(data[start:start+4], e.tag)
		binary.BigEndian.PutUint16(data[start+4:start+6], e.id)
		binary.BigEndian.PutUint32(data[start+6:start+10], e.offset)
	}
	for i := prc.HeaderSize + len(entries)*prc.RecordEntrySize; i < fileLen; i++ {
		data[i] = byte(i % 251)
	}

	path := filepath.Join(t.TempDir(), "fixture.prc")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path, data
}

func openArchive(t *testing.T, path string) *prc.File {
	t.Helper()
	f, err := prc.Open(path)
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestRunExtractsAllRecords(t *testing.T) {
	t.Parallel()

	entries := []entry{
		{"code", 0x0000, 110},
		{"tSTR", 0x0001, 160},
		{"data", 0x0000, 410},
	}
	path, data := writeArchive(t, entries, 500)
	f := openArchive(t, path)
	outDir := filepath.Join(t.TempDir(), "out")

	n, err := Run(context.Background(), f, outDir, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if n != 3 {
		t.Fatalf("count: got %d want 3", n)
	}

	wantFiles := []struct {
		name       string
		start, end int
	}{
		{"code0000.bin", 110, 160},
		{"tSTR0001.bin", 160, 410},
		{"data0000.bin", 410, 500},
	}
	for _, w := range wantFiles {
		got, err := os.ReadFile(filepath.Join(outDir, w.name))
		if err != nil {
			t.Fatalf("read %s: %v", w.name, err)
		}
		if !bytes.Equal(got, data[w.start:w.end]) {
			t.Fatalf("%s differs from source slice [%d,%d)", w.name, w.start, w.end)
		}
	}

	hdr, err := os.ReadFile(filepath.Join(outDir, "fixture.prc.hdr"))
	if err != nil {
		t.Fatalf("read header copy: %v", err)
	}
	if !bytes.Equal(hdr, data[:prc.HeaderSize]) {
		t.Fatalf("header copy is not byte-identical to the first %d bytes", prc.HeaderSize)
	}
}

func TestRunByTypeDirectories(t *testing.T) {
	t.Parallel()

	entries := []entry{
		{"NFNT", 0x0001, 100},
		{"QQzz", 0x0002, 150},
	}
	path, _ := writeArchive(t, entries, 200)
	f := openArchive(t, path)
	outDir := filepath.Join(t.TempDir(), "out")

	if _, err := Run(context.Background(), f, outDir, Options{ByType: true}); err != nil {
		t.Fatalf("run: %v", err)
	}

	// known tag maps to its category, unknown tag to its lowercase form
	if _, err := os.Stat(filepath.Join(outDir, "fonts", "NFNT0001.bin")); err != nil {
		t.Fatalf("fonts/NFNT0001.bin: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "qqzz", "QQzz0002.bin")); err != nil {
		t.Fatalf("qqzz/QQzz0002.bin: %v", err)
	}
}

func TestRunSkipsInvalidRecords(t *testing.T) {
	t.Parallel()

	entries := []entry{
		{"code", 0x0000, 110},
		{"tSTR", 0x0001, 900}, // beyond EOF
		{"data", 0x0000, 160},
	}
	path, data := writeArchive(t, entries, 300)
	f := openArchive(t, path)
	outDir := filepath.Join(t.TempDir(), "out")

	n, err := Run(context.Background(), f, outDir, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	// skipped entries stay in the reported total
	if n != 3 {
		t.Fatalf("count: got %d want 3", n)
	}

	if _, err := os.Stat(filepath.Join(outDir, "tSTR0001.bin")); !os.IsNotExist(err) {
		t.Fatalf("invalid record must not produce a file, stat err=%v", err)
	}
	// record 0 overshoots into the invalid neighbour's offset and is
	// skipped by the bounds guard; record 2 still extracts.
	got, err := os.ReadFile(filepath.Join(outDir, "data0000.bin"))
	if err != nil {
		t.Fatalf("read data0000.bin: %v", err)
	}
	if !bytes.Equal(got, data[160:300]) {
		t.Fatalf("data0000.bin differs from source slice")
	}
	if _, err := os.Stat(filepath.Join(outDir, "fixture.prc.hdr")); err != nil {
		t.Fatalf("header copy missing: %v", err)
	}
}

func TestRunDuplicateIDsLastWriteWins(t *testing.T) {
	t.Parallel()

	entries := []entry{
		{"tSTR", 0x0001, 100},
		{"tSTR", 0x0001, 150},
	}
	path, data := writeArchive(t, entries, 200)
	f := openArchive(t, path)
	outDir := filepath.Join(t.TempDir(), "out")

	if _, err := Run(context.Background(), f, outDir, Options{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(outDir, "tSTR0001.bin"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, data[150:200]) {
		t.Fatalf("expected the later record to win")
	}
}
