package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/dltext/pkg/dltext"
)

func helloWorld() []byte {
	buf := []byte{0x01, 0x02, 0x03, 0x04,
		0x01, 0x00, 0x00, 0x00, 0x14, 0x00, 0x00, 0x00,
		0x02, 0x00, 0x00, 0x00, 0x1a, 0x00, 0x00, 0x00,
	}
	return append(buf, "Hello\x00World\x00"...)
}

func newTestEcho(cfg Config, limit int) *echo.Echo {
	e := echo.New()
	NewServer(NewSessionStore(limit), cfg, nil).Register(e)
	return e
}

func do(t *testing.T, e *echo.Echo, method, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func upload(t *testing.T, e *echo.Echo, query string, body []byte) SessionResponse {
	t.Helper()
	rec := do(t, e, http.MethodPost, "/v1/files"+query, body, echo.MIMEOctetStream)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload status: got %d body=%s", rec.Code, rec.Body.String())
	}
	var sess SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &sess); err != nil {
		t.Fatalf("decode upload response: %v", err)
	}
	return sess
}

func TestUploadEditDownload(t *testing.T) {
	t.Parallel()

	e := newTestEcho(Config{}, 0)
	sess := upload(t, e, "?offset=0x14&name=menu.bin", helloWorld())
	if sess.ID == "" || sess.Entries != 2 || sess.Magic != "01020304" || sess.TextOffset != 0x14 {
		t.Fatalf("unexpected session %+v", sess)
	}

	rec := do(t, e, http.MethodPut, "/v1/files/"+sess.ID+"/entries/0", []byte(`{"text":"Salut"}`), echo.MIMEApplicationJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("set text status: got %d body=%s", rec.Code, rec.Body.String())
	}
	var a AssignmentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &a); err != nil {
		t.Fatalf("decode assignment: %v", err)
	}
	if !a.Accepted || a.Entry.Text != "Salut" {
		t.Fatalf("unexpected assignment %+v", a)
	}

	rec = do(t, e, http.MethodPost, "/v1/files/"+sess.ID+"/entries", []byte(`{"id":3,"text":"Fin"}`), echo.MIMEApplicationJSON)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add entry status: got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = do(t, e, http.MethodGet, "/v1/files/"+sess.ID+"/download", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("download status: got %d body=%s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get(HeaderTextOffset); got != "28" {
		t.Fatalf("offset header: got %q", got)
	}
	etag := rec.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "menu.bin") {
		t.Fatalf("content disposition: %q", rec.Header().Get("Content-Disposition"))
	}

	f, err := dltext.NewFile(28)
	if err != nil {
		t.Fatalf("new file: %v", err)
	}
	if err := f.Decode(rec.Body.Bytes()); err != nil {
		t.Fatalf("decode download: %v", err)
	}
	var texts []string
	for _, entry := range f.Entries {
		texts = append(texts, entry.Text())
	}
	if strings.Join(texts, "|") != "Salut|World|Fin" {
		t.Fatalf("downloaded texts: %v", texts)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/files/"+sess.ID+"/download", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotModified {
		t.Fatalf("conditional download: got %d", rec.Code)
	}
}

func TestRejectedTextKeepsEntry(t *testing.T) {
	t.Parallel()

	e := newTestEcho(Config{DefaultOffset: 0x14}, 0)
	sess := upload(t, e, "", helloWorld())

	rec := do(t, e, http.MethodPut, "/v1/files/"+sess.ID+"/entries/1", []byte(`{"text":"Wörld™"}`), echo.MIMEApplicationJSON)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d body=%s", rec.Code, rec.Body.String())
	}
	var a AssignmentResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &a); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if a.Accepted || a.Entry.Text != "World" || a.Entry.Valid || a.Rune != "™" || a.Position == nil || *a.Position != 5 {
		t.Fatalf("unexpected assignment %+v", a)
	}

	rec = do(t, e, http.MethodGet, "/v1/files/"+sess.ID+"/entries?invalid=true", nil, "")
	var list EntriesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode entries: %v", err)
	}
	if len(list.Entries) != 1 || list.Entries[0].Index != 1 {
		t.Fatalf("invalid entries: %+v", list.Entries)
	}

	rec = do(t, e, http.MethodGet, "/v1/files/"+sess.ID, nil, "")
	var summary SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Invalid != 1 {
		t.Fatalf("summary invalid count: %d", summary.Invalid)
	}
}

func TestUploadErrors(t *testing.T) {
	t.Parallel()

	e := newTestEcho(Config{MaxUploadSize: 64}, 0)
	tests := []struct {
		name  string
		query string
		body  []byte
		code  int
	}{
		{"missing offset", "", helloWorld(), http.StatusBadRequest},
		{"bad offset syntax", "?offset=abc", helloWorld(), http.StatusBadRequest},
		{"misaligned offset", "?offset=18", helloWorld(), http.StatusBadRequest},
		{"count mismatch", "?offset=0x14", helloWorld()[:26], http.StatusUnprocessableEntity},
		{"truncated", "?offset=0x14", helloWorld()[:8], http.StatusUnprocessableEntity},
		{"too large", "?offset=4", make([]byte, 65), http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, e, http.MethodPost, "/v1/files"+tt.query, tt.body, echo.MIMEOctetStream)
			if rec.Code != tt.code {
				t.Fatalf("status: got %d want %d body=%s", rec.Code, tt.code, rec.Body.String())
			}
		})
	}
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	e := newTestEcho(Config{}, 1)
	sess := upload(t, e, "?offset=20", helloWorld())

	rec := do(t, e, http.MethodPost, "/v1/files?offset=20", helloWorld(), echo.MIMEOctetStream)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("second session: got %d", rec.Code)
	}

	rec = do(t, e, http.MethodDelete, "/v1/files/"+sess.ID+"/entries/0", nil, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("remove entry: got %d", rec.Code)
	}
	rec = do(t, e, http.MethodDelete, "/v1/files/"+sess.ID+"/entries/7", nil, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("remove missing entry: got %d", rec.Code)
	}
	rec = do(t, e, http.MethodPost, "/v1/files/"+sess.ID+"/entries", []byte(`{"id":1,"text":"x","index":9}`), echo.MIMEApplicationJSON)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("insert out of range: got %d", rec.Code)
	}
	rec = do(t, e, http.MethodPut, "/v1/files/"+sess.ID+"/entries/0", []byte(`{"txt":"typo"}`), echo.MIMEApplicationJSON)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown field: got %d", rec.Code)
	}

	rec = do(t, e, http.MethodDelete, "/v1/files/"+sess.ID, nil, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete session: got %d", rec.Code)
	}
	for _, path := range []string{"/v1/files/" + sess.ID, "/v1/files/" + sess.ID + "/entries", "/v1/files/" + sess.ID + "/download"} {
		if rec := do(t, e, http.MethodGet, path, nil, ""); rec.Code != http.StatusNotFound {
			t.Fatalf("GET %s after delete: got %d", path, rec.Code)
		}
	}
	if rec := do(t, e, http.MethodDelete, "/v1/files/"+sess.ID, nil, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("double delete: got %d", rec.Code)
	}

	upload(t, e, "?offset=20", helloWorld())
}
