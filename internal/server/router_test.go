package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scanworks/passport-scanner/internal/batch"
	"github.com/scanworks/passport-scanner/internal/common"
	"github.com/scanworks/passport-scanner/internal/docai"
	"github.com/scanworks/passport-scanner/internal/export"
	"github.com/scanworks/passport-scanner/internal/normalize"
)

type scriptedScanner struct {
	fail map[string]bool
}

func (s *scriptedScanner) Scan(_ context.Context, content []byte, _ string) (docai.RawScanResult, error) {
	key := string(content)
	if s.fail[key] {
		return nil, errors.New("processor unavailable")
	}
	return docai.RawScanResult{
		docai.FieldDocumentID:  "DOC-" + key,
		docai.FieldNationality: "USA",
		docai.FieldSurname:     "DOE",
		docai.FieldGivenName:   "JOHN",
	}, nil
}

type staticRand struct{}

func (staticRand) Intn(int) int { return 1 }

func testSessionConfig() common.SessionConfig {
	return common.SessionConfig{
		Secret:   "test-secret",
		TTL:      5 * 24 * time.Hour,
		Username: "admin",
		Password: "hunter2",
	}
}

func newTestRouter(t *testing.T, scanner batch.Scanner) (*gin.Engine, *Batches) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	norm := normalize.New(normalize.WithRand(staticRand{}))
	batches := NewBatches(0, func() batch.Detector { return batch.NewSeenSet() })
	scheduler := batch.NewScheduler(scanner, norm, nil, batch.WithWorkers(3))
	exporter := export.NewService(norm, nil)

	router := NewRouter(Deps{
		Sessions:  NewSessions(testSessionConfig()),
		Batches:   batches,
		Scheduler: scheduler,
		Scanner:   scanner,
		Norm:      norm,
		Exporter:  exporter,
		Logger:    nil,
	})
	return router, batches
}

func loginCookie(t *testing.T, router *gin.Engine) *http.Cookie {
	t.Helper()
	body := `{"username": "admin", "password": "hunter2"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("login = %d: %s", resp.Code, resp.Body)
	}
	for _, c := range resp.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func multipartBody(t *testing.T, field string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := w.CreateFormFile(field, name)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func authedRequest(method, path string, body *bytes.Buffer, contentType string, cookie *http.Cookie) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func waitForIdle(t *testing.T, session *batch.Session) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		c := session.Counters()
		if !c.Processing && c.Pending == 0 && c.InFlight == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("batch never settled: %+v", session.Counters())
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router, _ := newTestRouter(t, &scriptedScanner{})
	body := `{"username": "admin", "password": "wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("bad login = %d", resp.Code)
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	router, _ := newTestRouter(t, &scriptedScanner{})
	req := httptest.NewRequest(http.MethodGet, "/api/batch/status", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/batch/status", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: "garbage"})
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("garbage cookie status = %d", resp.Code)
	}
}

func TestHealthIsPublic(t *testing.T) {
	router, _ := newTestRouter(t, &scriptedScanner{})
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("health = %d", resp.Code)
	}
}

func TestBatchLifecycle(t *testing.T) {
	scanner := &scriptedScanner{fail: map[string]bool{"file-1": true}}
	router, batches := newTestRouter(t, scanner)
	cookie := loginCookie(t, router)
	session := batches.Get(cookie.Value)

	files := map[string][]byte{}
	for i := 0; i < 4; i++ {
		files[fmt.Sprintf("passport-%d.jpg", i)] = []byte(fmt.Sprintf("file-%d", i))
	}
	body, contentType := multipartBody(t, "files", files)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/batch/files", body, contentType, cookie))
	if resp.Code != http.StatusCreated {
		t.Fatalf("add files = %d: %s", resp.Code, resp.Body)
	}

	// Export before any scan completes is a caller error.
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/batch/export", nil, "", cookie))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("premature export = %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/batch/process", nil, "", cookie))
	if resp.Code != http.StatusAccepted {
		t.Fatalf("process = %d: %s", resp.Code, resp.Body)
	}
	waitForIdle(t, session)

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/batch/status", nil, "", cookie))
	if resp.Code != http.StatusOK {
		t.Fatalf("status = %d", resp.Code)
	}
	var status struct {
		Counters batch.Counters `json:"counters"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Counters.Completed != 3 || status.Counters.Failed != 1 {
		t.Fatalf("counters = %+v, want 3 completed / 1 failed", status.Counters)
	}

	// Processing again with nothing pending is a caller error.
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/batch/process", nil, "", cookie))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("re-process = %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/batch/export?format=csv", nil, "", cookie))
	if resp.Code != http.StatusOK {
		t.Fatalf("export = %d: %s", resp.Code, resp.Body)
	}
	if cd := resp.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Fatalf("content disposition = %q", cd)
	}
	if !strings.Contains(resp.Body.String(), "DOE") {
		t.Fatal("export body missing record")
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/batch/reset", nil, "", cookie))
	if resp.Code != http.StatusOK {
		t.Fatalf("reset = %d", resp.Code)
	}
	if c := session.Counters(); c.Total != 0 {
		t.Fatalf("counters after reset = %+v", c)
	}
}

func TestLoginWhileAuthenticatedConflicts(t *testing.T) {
	router, _ := newTestRouter(t, &scriptedScanner{})
	cookie := loginCookie(t, router)

	body := `{"username": "admin", "password": "hunter2"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(cookie)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("authenticated login = %d, want 409", resp.Code)
	}

	// Logout must stay reachable with a valid cookie.
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/auth/logout", nil, "", cookie))
	if resp.Code != http.StatusOK {
		t.Fatalf("logout = %d", resp.Code)
	}
}

func TestBatchIsScopedToLoginSession(t *testing.T) {
	router, _ := newTestRouter(t, &scriptedScanner{})
	first := loginCookie(t, router)

	body, contentType := multipartBody(t, "files", map[string][]byte{"a.jpg": []byte("a")})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/batch/files", body, contentType, first))
	if resp.Code != http.StatusCreated {
		t.Fatalf("add files = %d: %s", resp.Code, resp.Body)
	}

	second := loginCookie(t, router)
	if second.Value == first.Value {
		t.Fatal("second login reused the first session token")
	}

	var status struct {
		Counters batch.Counters `json:"counters"`
	}
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/batch/status", nil, "", second))
	if err := json.Unmarshal(resp.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Counters.Total != 0 {
		t.Fatalf("fresh login sees %d files from another session", status.Counters.Total)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/batch/status", nil, "", first))
	if err := json.Unmarshal(resp.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Counters.Total != 1 {
		t.Fatalf("original session lost its batch: %+v", status.Counters)
	}
}

func TestExportEnhanceParam(t *testing.T) {
	router, batches := newTestRouter(t, &scriptedScanner{})
	cookie := loginCookie(t, router)
	session := batches.Get(cookie.Value)

	// No enhancer is configured, so explicitly requesting one is an error.
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/batch/export?format=csv&enhance=1", nil, "", cookie))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("enhance=1 without enhancer = %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/batch/export?format=csv&enhance=2", nil, "", cookie))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("enhance=2 = %d", resp.Code)
	}

	body, contentType := multipartBody(t, "files", map[string][]byte{"p.jpg": []byte("p")})
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/batch/files", body, contentType, cookie))
	if resp.Code != http.StatusCreated {
		t.Fatalf("add files = %d: %s", resp.Code, resp.Body)
	}
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/batch/process", nil, "", cookie))
	if resp.Code != http.StatusAccepted {
		t.Fatalf("process = %d: %s", resp.Code, resp.Body)
	}
	waitForIdle(t, session)

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/batch/export?format=csv&enhance=0", nil, "", cookie))
	if resp.Code != http.StatusOK {
		t.Fatalf("enhance=0 export = %d: %s", resp.Code, resp.Body)
	}
}

func TestUploadRejectsMismatchedContentType(t *testing.T) {
	router, batches := newTestRouter(t, &scriptedScanner{})
	cookie := loginCookie(t, router)
	session := batches.Get(cookie.Value)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="files"; filename="sneaky.jpg"`)
	hdr.Set("Content-Type", "text/html")
	part, err := w.CreatePart(hdr)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write([]byte("<html>")); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/batch/files", &buf, w.FormDataContentType(), cookie))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("mismatched content type = %d: %s", resp.Code, resp.Body)
	}
	if c := session.Counters(); c.Total != 0 {
		t.Fatalf("rejected upload still enqueued: %+v", c)
	}
}

func TestAddFilesRejectsUnsupportedType(t *testing.T) {
	router, batches := newTestRouter(t, &scriptedScanner{})
	cookie := loginCookie(t, router)
	session := batches.Get(cookie.Value)

	body, contentType := multipartBody(t, "files", map[string][]byte{"notes.txt": []byte("x")})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/batch/files", body, contentType, cookie))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unsupported type = %d", resp.Code)
	}
	if c := session.Counters(); c.Total != 0 {
		t.Fatalf("rejected upload still enqueued: %+v", c)
	}
}

func TestExportUnknownFormat(t *testing.T) {
	router, _ := newTestRouter(t, &scriptedScanner{})
	cookie := loginCookie(t, router)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/batch/export?format=docx", nil, "", cookie))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("unknown format = %d", resp.Code)
	}
}

func TestScanSingleFile(t *testing.T) {
	router, _ := newTestRouter(t, &scriptedScanner{})
	cookie := loginCookie(t, router)

	body, contentType := multipartBody(t, "file", map[string][]byte{"passport.jpg": []byte("solo")})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/scan", body, contentType, cookie))
	if resp.Code != http.StatusOK {
		t.Fatalf("scan = %d: %s", resp.Code, resp.Body)
	}

	var out struct {
		Record normalize.NormalizedRecord `json:"record"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Record.Surname != "DOE" {
		t.Fatalf("record = %+v", out.Record)
	}
}
