package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/labstack/echo/v5"

	"github.com/samcharles93/dltext/internal/logger"
	"github.com/samcharles93/dltext/internal/store"
	"github.com/samcharles93/dltext/pkg/dltext"
)

// HeaderTextOffset carries the text definition offset of a downloaded buffer.
const HeaderTextOffset = "X-Text-Definition-Offset"

// Config holds server limits and defaults.
type Config struct {
	// DefaultOffset is used when an upload has no offset query parameter.
	// Zero means the parameter is required.
	DefaultOffset  int
	StrictTrailing bool
	MaxUploadSize  int64
}

// Server exposes text files for an editor front end.
type Server struct {
	store *SessionStore
	cfg   Config
	log   logger.Logger
	clock func() time.Time
}

func NewServer(sessions *SessionStore, cfg Config, log logger.Logger) *Server {
	if sessions == nil {
		sessions = NewSessionStore(0)
	}
	if log == nil {
		log = logger.Discard()
	}
	if cfg.MaxUploadSize <= 0 {
		cfg.MaxUploadSize = 64 << 20
	}
	return &Server{store: sessions, cfg: cfg, log: log, clock: time.Now}
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/files", s.handleUpload)
	e.GET("/v1/files/:id", s.handleGetFile)
	e.DELETE("/v1/files/:id", s.handleDeleteFile)
	e.GET("/v1/files/:id/entries", s.handleListEntries)
	e.POST("/v1/files/:id/entries", s.handleAddEntry)
	e.PUT("/v1/files/:id/entries/:index", s.handleSetText)
	e.DELETE("/v1/files/:id/entries/:index", s.handleRemoveEntry)
	e.GET("/v1/files/:id/download", s.handleDownload)
}

func (s *Server) handleUpload(c *echo.Context) error {
	offset := s.cfg.DefaultOffset
	if raw := c.QueryParam("offset"); raw != "" {
		v, err := strconv.ParseInt(raw, 0, 64)
		if err != nil {
			return writeBadRequest(c, fmt.Sprintf("offset: %v", err))
		}
		offset = int(v)
	} else if offset == 0 {
		return writeBadRequest(c, "offset query parameter is required")
	}

	data, err := io.ReadAll(io.LimitReader(c.Request().Body, s.cfg.MaxUploadSize+1))
	if err != nil {
		return writeBadRequest(c, err.Error())
	}
	if int64(len(data)) > s.cfg.MaxUploadSize {
		return writeError(c, http.StatusRequestEntityTooLarge, "too_large", fmt.Sprintf("upload exceeds %d bytes", s.cfg.MaxUploadSize))
	}

	file, err := store.Decode(data, store.Options{TextOffset: offset, StrictTrailing: s.cfg.StrictTrailing})
	if err != nil {
		return writeDecodeError(c, err)
	}

	sess, err := s.store.create(c.QueryParam("name"), file, store.Digest(data), s.clock())
	if err != nil {
		return writeError(c, http.StatusServiceUnavailable, "capacity_error", err.Error())
	}
	s.log.Info("file uploaded", "session", sess.id, "name", sess.name, "bytes", len(data),
		"entries", len(file.Entries), "invalid", len(file.Invalid()), "dropped", file.Dropped)
	if file.Dropped > 0 {
		s.log.Warn("trailing bytes discarded", "session", sess.id, "bytes", file.Dropped)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return c.JSON(http.StatusCreated, sess.summary())
}

func (s *Server) handleGetFile(c *echo.Context) error {
	sess, err := s.store.get(c.Param("id"))
	if err != nil {
		return writeNotFound(c, err.Error())
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return c.JSON(http.StatusOK, sess.summary())
}

func (s *Server) handleDeleteFile(c *echo.Context) error {
	id := c.Param("id")
	if !s.store.delete(id) {
		return writeNotFound(c, ErrSessionNotFound.Error())
	}
	s.log.Info("session closed", "session", id)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListEntries(c *echo.Context) error {
	sess, err := s.store.get(c.Param("id"))
	if err != nil {
		return writeNotFound(c, err.Error())
	}
	onlyInvalid := c.QueryParam("invalid") == "true"

	sess.mu.Lock()
	defer sess.mu.Unlock()
	out := EntriesResponse{Entries: make([]EntryResponse, 0, len(sess.file.Entries))}
	for i, e := range sess.file.Entries {
		if onlyInvalid && e.Valid() {
			continue
		}
		out.Entries = append(out.Entries, entryResponse(i, e))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleSetText(c *echo.Context) error {
	sess, err := s.store.get(c.Param("id"))
	if err != nil {
		return writeNotFound(c, err.Error())
	}
	req, err := decodeJSON[SetTextRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	idx, err := entryIndex(c.Param("index"), len(sess.file.Entries))
	if err != nil {
		return writeNotFound(c, err.Error())
	}
	e := sess.file.Entries[idx]
	a := e.SetText(req.Text)
	if !a.Accepted {
		s.log.Debug("text rejected", "session", sess.id, "index", idx, "rune", string(a.Rune), "position", a.Pos)
	}
	return c.JSON(http.StatusOK, assignmentResponse(idx, e, a))
}

func (s *Server) handleAddEntry(c *echo.Context) error {
	sess, err := s.store.get(c.Param("id"))
	if err != nil {
		return writeNotFound(c, err.Error())
	}
	req, err := decodeJSON[AddEntryRequest](c.Request().Body)
	if err != nil {
		return writeBadRequest(c, err.Error())
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	idx := len(sess.file.Entries)
	if req.Index != nil {
		idx = *req.Index
	}
	e := &dltext.Entry{ID: req.ID}
	a := e.SetText(req.Text)
	if err := sess.file.Insert(idx, e); err != nil {
		return writeBadRequest(c, err.Error())
	}
	return c.JSON(http.StatusCreated, assignmentResponse(idx, e, a))
}

func (s *Server) handleRemoveEntry(c *echo.Context) error {
	sess, err := s.store.get(c.Param("id"))
	if err != nil {
		return writeNotFound(c, err.Error())
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	idx, err := entryIndex(c.Param("index"), len(sess.file.Entries))
	if err != nil {
		return writeNotFound(c, err.Error())
	}
	if err := sess.file.Remove(idx); err != nil {
		return writeNotFound(c, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleDownload(c *echo.Context) error {
	sess, err := s.store.get(c.Param("id"))
	if err != nil {
		return writeNotFound(c, err.Error())
	}

	sess.mu.Lock()
	data, err := sess.file.Encode()
	offset := sess.file.MetadataLength()
	sess.mu.Unlock()
	if err != nil {
		if errors.Is(err, dltext.ErrEncoding) {
			return writeError(c, http.StatusUnprocessableEntity, "encoding_error", err.Error())
		}
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}

	digest := store.Digest(data)
	if match := c.Request().Header.Get("If-None-Match"); match == `"`+digest+`"` {
		return c.NoContent(http.StatusNotModified)
	}

	h := c.Response().Header()
	h.Set("ETag", `"`+digest+`"`)
	h.Set(HeaderTextOffset, strconv.Itoa(offset))
	if sess.name != "" {
		h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sess.name))
	}
	s.log.Info("file encoded", "session", sess.id, "bytes", len(data), "text_offset", offset)
	return c.Blob(http.StatusOK, echo.MIMEOctetStream, data)
}

func entryIndex(raw string, n int) (int, error) {
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 0 || idx >= n {
		return 0, fmt.Errorf("entry %q not found", raw)
	}
	return idx, nil
}

func entryResponse(i int, e *dltext.Entry) EntryResponse {
	return EntryResponse{Index: i, ID: e.ID, Text: e.Text(), Valid: e.Valid()}
}

func assignmentResponse(i int, e *dltext.Entry, a dltext.Assignment) AssignmentResponse {
	resp := AssignmentResponse{Entry: entryResponse(i, e), Accepted: a.Accepted}
	if !a.Accepted {
		pos := a.Pos
		resp.Rune = string(a.Rune)
		resp.Position = &pos
	}
	return resp
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var v T
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("invalid JSON body: %w", err)
	}
	return v, nil
}

func writeDecodeError(c *echo.Context, err error) error {
	switch {
	case errors.Is(err, dltext.ErrConstruction):
		return writeBadRequest(c, err.Error())
	case errors.Is(err, dltext.ErrLengthMismatch),
		errors.Is(err, dltext.ErrTruncated),
		errors.Is(err, dltext.ErrUnterminated),
		errors.Is(err, dltext.ErrLength):
		return writeError(c, http.StatusUnprocessableEntity, "decode_error", err.Error())
	default:
		return writeError(c, http.StatusInternalServerError, "server_error", err.Error())
	}
}

func writeBadRequest(c *echo.Context, msg string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg)
}

func writeNotFound(c *echo.Context, msg string) error {
	return writeError(c, http.StatusNotFound, "not_found_error", msg)
}

func writeError(c *echo.Context, status int, errType, msg string) error {
	return c.JSON(status, ErrorResponse{Error: ErrorBody{Type: errType, Message: msg}})
}
