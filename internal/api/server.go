// Package api exposes a read-only browsing and extraction API over a
// directory of PRC archives.
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/prckit/internal/extract"
	"github.com/samcharles93/prckit/pkg/prc"
)

type Server struct {
	root string // directory holding .prc archives
	out  string // directory extraction jobs write under
}

func NewServer(root, out string) *Server {
	return &Server{root: root, out: out}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/v1/archives", s.handleListArchives)
	e.GET("/v1/archives/:name", s.handleArchiveInfo)
	e.GET("/v1/archives/:name/records", s.handleListRecords)
	e.GET("/v1/archives/:name/records/:index", s.handleRecordData)
	e.POST("/v1/archives/:name/extract", s.handleExtract)
}

type ArchiveSummary struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

type ExtractRequest struct {
	ByType bool `json:"by_type"`
}

type ExtractResponse struct {
	JobID     string `json:"job_id"`
	OutputDir string `json:"output_dir"`
	Records   int    `json:"records"`
}

func (s *Server) handleListArchives(c *echo.Context) error {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}
	archives := make([]ArchiveSummary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".prc") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		archives = append(archives, ArchiveSummary{Name: entry.Name(), Size: info.Size()})
	}
	return c.JSON(http.StatusOK, map[string]any{"archives": archives})
}

func (s *Server) handleArchiveInfo(c *echo.Context) error {
	f, done := s.openArchive(c)
	if f == nil {
		return done
	}
	defer func() { _ = f.Close() }()

	strict := c.QueryParam("strict") == "true"
	return c.JSON(http.StatusOK, NewHeaderReport(f.Header, strict))
}

func (s *Server) handleListRecords(c *echo.Context) error {
	f, done := s.openArchive(c)
	if f == nil {
		return done
	}
	defer func() { _ = f.Close() }()

	return c.JSON(http.StatusOK, map[string]any{"records": NewRecordReports(f)})
}

func (s *Server) handleRecordData(c *echo.Context) error {
	f, done := s.openArchive(c)
	if f == nil {
		return done
	}
	defer func() { _ = f.Close() }()

	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil || idx < 0 || idx >= len(f.Records) {
		return writeNotFound(c, fmt.Sprintf("no record %q", c.Param("index")))
	}
	data, err := f.RecordData(idx)
	if err != nil {
		if errors.Is(err, prc.ErrInvalidOffset) || errors.Is(err, prc.ErrRecordBounds) {
			return writeError(c, http.StatusUnprocessableEntity, "invalid_record_error", err.Error())
		}
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}
	return c.Blob(http.StatusOK, "application/octet-stream", data)
}

func (s *Server) handleExtract(c *echo.Context) error {
	f, done := s.openArchive(c)
	if f == nil {
		return done
	}
	defer func() { _ = f.Close() }()

	req, err := decodeJSON[ExtractRequest](c.Request().Body)
	if err != nil && !errors.Is(err, io.EOF) {
		return writeBadRequest(c, err.Error())
	}

	jobID := uuid.NewString()
	outDir := filepath.Join(s.out, "job-"+jobID)
	n, err := extract.Run(c.Request().Context(), f, outDir, extract.Options{ByType: req.ByType})
	if err != nil {
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}
	return c.JSON(http.StatusOK, ExtractResponse{
		JobID:     jobID,
		OutputDir: outDir,
		Records:   n,
	})
}

// openArchive resolves and opens the :name archive. On failure it
// writes the error response and returns a nil file together with the
// response error to bubble up.
func (s *Server) openArchive(c *echo.Context) (*prc.File, error) {
	name := c.Param("name")
	if !validArchiveName(name) {
		return nil, writeBadRequest(c, fmt.Sprintf("invalid archive name %q", name))
	}
	f, err := prc.Open(filepath.Join(s.root, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, writeNotFound(c, fmt.Sprintf("archive %q not found", name))
		}
		if errors.Is(err, prc.ErrMalformedHeader) || errors.Is(err, prc.ErrTruncatedDirectory) {
			return nil, writeError(c, http.StatusUnprocessableEntity, "invalid_archive_error", err.Error())
		}
		return nil, writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}
	return f, nil
}
