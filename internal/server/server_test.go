package server_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipcut/internal/audio"
	"clipcut/internal/catalog"
	"clipcut/internal/config"
	"clipcut/internal/server"
	"clipcut/internal/session"
	"clipcut/internal/store"
	"clipcut/internal/timestamp"
)

// fakeSession scripts one response per operation.
type fakeSession struct {
	cutRes  session.Result
	cutErr  error
	subRec  store.Record
	subErr  error
	loadRes session.Result
	loadErr error

	discards int
	lastCut  session.CutRequest
}

func (f *fakeSession) Cut(_ context.Context, req session.CutRequest) (session.Result, error) {
	f.lastCut = req
	return f.cutRes, f.cutErr
}

func (f *fakeSession) Submit(context.Context) (store.Record, error) { return f.subRec, f.subErr }

func (f *fakeSession) Discard() { f.discards++ }

func (f *fakeSession) Load(_ context.Context, _ int) (session.Result, error) {
	return f.loadRes, f.loadErr
}

// fakeRecords serves a fixed table.
type fakeRecords struct {
	rows []store.Record
}

func (f fakeRecords) Records() []store.Record { return f.rows }

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Parse([]byte(`
sources:
  "2012":
    title: Annual address 2012
    url: https://example.org/2012
`))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func newTestServer(t *testing.T, sess *fakeSession, rec fakeRecords) *httptest.Server {
	t.Helper()
	srv := server.New(sess, rec, testCatalog(t), config.Default().Server, t.TempDir(), t.TempDir())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func previewResult() session.Result {
	return session.Result{
		Display:  "01:30-01:34",
		Length:   "      4.00s",
		TempPath: "/tmp/x/preview_abc.mp3",
		Buffer:   &audio.Buffer{SampleRate: 1000, Channels: 1, Data: make([]byte, 8000)},
	}
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, &fakeSession{}, fakeRecords{})
	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestSources(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, &fakeSession{}, fakeRecords{})
	resp, err := http.Get(ts.URL + "/api/v1/sources")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	got := decodeBody[[]map[string]string](t, resp)
	if len(got) != 1 || got[0]["id"] != "2012" {
		t.Errorf("sources = %v", got)
	}
}

func TestRecords(t *testing.T) {
	t.Parallel()

	rec := store.Record{
		Index: 1, Title: "t1", Quote: "Example", SourceID: "2012",
		Length: "      4.00s", TimeRange: "01:30-01:34",
		SubmittedAt: "11/30/2025 12:24:51",
	}
	ts := newTestServer(t, &fakeSession{}, fakeRecords{rows: []store.Record{rec}})

	resp, err := http.Get(ts.URL + "/api/v1/records")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	got := decodeBody[[]map[string]any](t, resp)
	if len(got) != 1 {
		t.Fatalf("records = %v", got)
	}
	if got[0]["length"] != "4.00s" {
		t.Errorf("length = %v, want trimmed 4.00s", got[0]["length"])
	}
	if got[0]["download_url"] != "/exports/t1_2012.mp3" {
		t.Errorf("download_url = %v", got[0]["download_url"])
	}
}

func TestCut(t *testing.T) {
	t.Parallel()

	sess := &fakeSession{cutRes: previewResult()}
	ts := newTestServer(t, sess, fakeRecords{})

	resp := postJSON(t, ts.URL+"/api/v1/clips/cut", map[string]string{
		"source_id":  "2012",
		"timestamps": "01:30:000-01:34:000",
		"quote":      "Example",
		"title":      "t1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	got := decodeBody[map[string]any](t, resp)
	if got["display"] != "01:30-01:34" {
		t.Errorf("display = %v", got["display"])
	}
	if got["preview_url"] != "/previews/preview_abc.mp3" {
		t.Errorf("preview_url = %v", got["preview_url"])
	}
	if peaks, ok := got["peaks"].([]any); !ok || len(peaks) != 200 {
		t.Errorf("peaks missing or wrong length: %v", got["peaks"])
	}
	if sess.lastCut.SourceID != "2012" || sess.lastCut.Title != "t1" {
		t.Errorf("forwarded request = %+v", sess.lastCut)
	}
}

func TestCut_ErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		sourceID   string
		cutErr     error
		wantStatus int
	}{
		{name: "unknown source", sourceID: "1999", wantStatus: http.StatusBadRequest},
		{name: "bad timestamps", sourceID: "2012", cutErr: timestamp.ErrFormat, wantStatus: http.StatusBadRequest},
		{name: "extraction failure", sourceID: "2012", cutErr: audio.ErrExtraction, wantStatus: http.StatusInternalServerError},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ts := newTestServer(t, &fakeSession{cutErr: tc.cutErr}, fakeRecords{})
			resp := postJSON(t, ts.URL+"/api/v1/clips/cut", map[string]string{
				"source_id": tc.sourceID, "timestamps": "x", "quote": "q", "title": "t",
			})
			if resp.StatusCode != tc.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tc.wantStatus)
			}
			body := decodeBody[map[string]string](t, resp)
			if body["error"] == "" {
				t.Error("error body missing")
			}
		})
	}
}

func TestSubmit(t *testing.T) {
	t.Parallel()

	sess := &fakeSession{subRec: store.Record{Index: 1, Title: "t1", SourceID: "2012"}}
	ts := newTestServer(t, sess, fakeRecords{})

	resp := postJSON(t, ts.URL+"/api/v1/clips/submit", struct{}{})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	got := decodeBody[map[string]any](t, resp)
	if got["index"] != float64(1) {
		t.Errorf("index = %v", got["index"])
	}
}

func TestSubmit_NothingPending(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, &fakeSession{subErr: session.ErrNoPendingEntry}, fakeRecords{})
	resp := postJSON(t, ts.URL+"/api/v1/clips/submit", struct{}{})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	sess := &fakeSession{}
	ts := newTestServer(t, sess, fakeRecords{})
	resp := postJSON(t, ts.URL+"/api/v1/clips/discard", struct{}{})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if sess.discards != 1 {
		t.Errorf("discards = %d, want 1", sess.discards)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, &fakeSession{loadRes: previewResult()}, fakeRecords{})
	resp := postJSON(t, ts.URL+"/api/v1/clips/7/load", struct{}{})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestLoad_NotFound(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, &fakeSession{loadErr: store.ErrEntryNotFound}, fakeRecords{})
	resp := postJSON(t, ts.URL+"/api/v1/clips/99/load", struct{}{})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestRequestLogging(t *testing.T) {
	t.Parallel()

	var logged bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logged, nil))
	srv := server.New(&fakeSession{}, fakeRecords{}, testCatalog(t),
		config.Default().Server, t.TempDir(), t.TempDir(), server.WithLogger(log))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	out := logged.String()
	for _, want := range []string{"method=GET", "path=/health", "status=200"} {
		if !strings.Contains(out, want) {
			t.Errorf("request log missing %q:\n%s", want, out)
		}
	}
}

func TestStaticPreviews(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()
	srv := server.New(&fakeSession{}, fakeRecords{}, testCatalog(t), config.Default().Server, tempDir, t.TempDir())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	if err := os.WriteFile(filepath.Join(tempDir, "preview_x.mp3"), []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	resp, err := http.Get(ts.URL + "/previews/preview_x.mp3")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
