package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"clipcut/internal/catalog"
	"clipcut/internal/preview"
	"clipcut/internal/session"
	"clipcut/internal/store"
	"clipcut/internal/timestamp"
)

// peakBuckets is the waveform resolution sent to the UI.
const peakBuckets = 200

type sourcePayload struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

type recordPayload struct {
	Index       int    `json:"index"`
	Title       string `json:"title"`
	Quote       string `json:"quote"`
	SourceID    string `json:"source_id"`
	Length      string `json:"length"`
	Edits       int    `json:"edits"`
	TimeRange   string `json:"time_range"`
	SubmittedAt string `json:"submitted_at"`
	DownloadURL string `json:"download_url"`
}

type previewPayload struct {
	Display    string    `json:"display"`
	Length     string    `json:"length"`
	DurationMS int       `json:"duration_ms"`
	PreviewURL string    `json:"preview_url"`
	Peaks      []float64 `json:"peaks"`
}

type cutPayload struct {
	SourceID   string `json:"source_id"`
	Timestamps string `json:"timestamps"`
	Quote      string `json:"quote"`
	Title      string `json:"title"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSources(w http.ResponseWriter, _ *http.Request) {
	all := s.cat.All()
	out := make([]sourcePayload, 0, len(all))
	for _, src := range all {
		out = append(out, sourcePayload{ID: src.ID, Title: src.Title, URL: src.URL})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRecords(w http.ResponseWriter, _ *http.Request) {
	rows := s.st.Records()
	out := make([]recordPayload, 0, len(rows))
	for _, rec := range rows {
		out = append(out, s.toRecordPayload(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCut(w http.ResponseWriter, r *http.Request) {
	var body cutPayload
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, r, badRequest("invalid JSON body"))
		return
	}
	if _, err := s.cat.Lookup(body.SourceID); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.sess.Cut(r.Context(), session.CutRequest{
		SourceID:   body.SourceID,
		Timestamps: body.Timestamps,
		Quote:      body.Quote,
		Title:      body.Title,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toPreviewPayload(res))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	rec, err := s.sess.Submit(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.toRecordPayload(rec))
}

func (s *Server) handleDiscard(w http.ResponseWriter, _ *http.Request) {
	s.sess.Discard()
	writeJSON(w, http.StatusOK, map[string]string{"status": "discarded"})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		s.writeError(w, r, badRequest("index must be numeric"))
		return
	}

	res, err := s.sess.Load(r.Context(), index)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.toPreviewPayload(res))
}

func (s *Server) toPreviewPayload(res session.Result) previewPayload {
	var fig preview.Figure
	if res.Buffer != nil {
		fig = preview.Peaks(res.Buffer, peakBuckets)
	}
	return previewPayload{
		Display:    res.Display,
		Length:     strings.TrimSpace(res.Length),
		DurationMS: fig.DurationMS,
		PreviewURL: "/previews/" + filepath.Base(res.TempPath),
		Peaks:      fig.Peaks,
	}
}

func (s *Server) toRecordPayload(rec store.Record) recordPayload {
	return recordPayload{
		Index:       rec.Index,
		Title:       rec.Title,
		Quote:       rec.Quote,
		SourceID:    rec.SourceID,
		Length:      strings.TrimSpace(rec.Length),
		Edits:       rec.Edits,
		TimeRange:   rec.TimeRange,
		SubmittedAt: rec.SubmittedAt,
		DownloadURL: "/exports/" + rec.Title + "_" + rec.SourceID + ".mp3",
	}
}

// badRequestErr carries a caller mistake that maps to 400 without belonging
// to any domain error kind.
type badRequestErr string

func (e badRequestErr) Error() string { return string(e) }

func badRequest(msg string) error { return badRequestErr(msg) }

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var br badRequestErr

	switch {
	case errors.As(err, &br),
		errors.Is(err, timestamp.ErrFormat),
		errors.Is(err, catalog.ErrUnknownSource):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrEntryNotFound):
		status = http.StatusNotFound
	case errors.Is(err, session.ErrNoPendingEntry):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
