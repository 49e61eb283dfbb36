package api

import (
	"bytes"
	"encoding/binary"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/prckit/pkg/prc"
)

// fixtureArchive builds a small PRC image with three records, the
// last one starting exactly at EOF and therefore invalid.
func fixtureArchive() []byte {
	entries := []struct {
		tag    string
		id     uint16
		offset uint32
	}{
		{"tSTR", 0x0001, 110},
		{"code", 0x0000, 150},
		{"Tbmp", 0x0002, 300}, // == file length
	}

	data := make([]byte, 300)
	copy(data[0:32], "Browse Fixture")
	binary.BigEndian.PutUint16(data[32:34], 0x0001)
	binary.BigEndian.PutUint16(data[34:36], 0x0001)
	copy(data[60:64], "appl")
	copy(data[64:68], "TEST")
	binary.BigEndian.PutUint16(data[76:78], uint16(len(entries)))
	for i, e := range entries {
		start := prc.HeaderSize + i*prc.RecordEntrySize
		copy(data[start:start+4], e.tag)
		binary.BigEndian.PutUint16(data[start+4:start+6], e.id)
		binary.BigEndian.PutUint32(data[start+6:start+10], e.offset)
	}
	for i := prc.HeaderSize + len(entries)*prc.RecordEntrySize; i < len(data); i++ {
		data[i] = byte(i % 251)
	}
	return data
}

func newTestServer(t *testing.T) (*echo.Echo, string, string) {
	t.Helper()

	root := t.TempDir()
	out := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "app.prc"), fixtureArchive(), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	e := echo.New()
	NewServer(root, out).Register(e)
	return e, root, out
}

func doRequest(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestListArchives(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestServer(t)
	rec := doRequest(t, e, http.MethodGet, "/v1/archives", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Archives []ArchiveSummary `json:"archives"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Archives) != 1 || resp.Archives[0].Name != "app.prc" {
		t.Fatalf("unexpected listing: %+v", resp.Archives)
	}
	if resp.Archives[0].Size != 300 {
		t.Fatalf("size: got %d want 300", resp.Archives[0].Size)
	}
}

func TestArchiveInfo(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestServer(t)
	rec := doRequest(t, e, http.MethodGet, "/v1/archives/app.prc", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}

	var report HeaderReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Name != "Browse Fixture" || report.Type != "appl" || report.Creator != "TEST" {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.NumRecords != 3 {
		t.Fatalf("num_records: got %d", report.NumRecords)
	}
	if !report.Beamable {
		t.Fatalf("fixture should be beamable")
	}
}

func TestArchiveInfoErrors(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestServer(t)

	rec := doRequest(t, e, http.MethodGet, "/v1/archives/missing.prc", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing archive: got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, e, http.MethodGet, "/v1/archives/..", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("traversal name: got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestListRecords(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestServer(t)
	rec := doRequest(t, e, http.MethodGet, "/v1/archives/app.prc/records", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Records []RecordReport `json:"records"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Records) != 3 {
		t.Fatalf("records: got %d", len(resp.Records))
	}
	if !resp.Records[0].Valid || resp.Records[0].Length != 40 {
		t.Fatalf("record 0: %+v", resp.Records[0])
	}
	if !resp.Records[1].Valid || resp.Records[1].Length != 150 {
		t.Fatalf("record 1: %+v", resp.Records[1])
	}
	if resp.Records[2].Valid || resp.Records[2].Error == "" {
		t.Fatalf("record 2 should be invalid: %+v", resp.Records[2])
	}
	if resp.Records[0].File != "tSTR0001.bin" {
		t.Fatalf("record 0 file name: %q", resp.Records[0].File)
	}
}

func TestRecordData(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestServer(t)
	data := fixtureArchive()

	rec := doRequest(t, e, http.MethodGet, "/v1/archives/app.prc/records/0", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	if !bytes.Equal(rec.Body.Bytes(), data[110:150]) {
		t.Fatalf("payload differs from source slice")
	}

	rec = doRequest(t, e, http.MethodGet, "/v1/archives/app.prc/records/2", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid record: got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, e, http.MethodGet, "/v1/archives/app.prc/records/9", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("out of range index: got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestExtractJob(t *testing.T) {
	t.Parallel()

	e, _, out := newTestServer(t)
	rec := doRequest(t, e, http.MethodPost, "/v1/archives/app.prc/extract", `{"by_type":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}

	var resp ExtractResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.JobID == "" {
		t.Fatalf("expected a job id")
	}
	// declared count, including the skipped record
	if resp.Records != 3 {
		t.Fatalf("records: got %d want 3", resp.Records)
	}
	if !strings.HasPrefix(resp.OutputDir, out) {
		t.Fatalf("output dir %q not under %q", resp.OutputDir, out)
	}
	if _, err := os.Stat(filepath.Join(resp.OutputDir, "strings", "tSTR0001.bin")); err != nil {
		t.Fatalf("extracted record missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(resp.OutputDir, "app.prc.hdr")); err != nil {
		t.Fatalf("header copy missing: %v", err)
	}
}

func TestExtractJobEmptyBody(t *testing.T) {
	t.Parallel()

	e, _, _ := newTestServer(t)
	rec := doRequest(t, e, http.MethodPost, "/v1/archives/app.prc/extract", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	var resp ExtractResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := os.Stat(filepath.Join(resp.OutputDir, "tSTR0001.bin")); err != nil {
		t.Fatalf("extracted record missing: %v", err)
	}
}
