// Package session orchestrates the extract → preview → commit-or-discard
// lifecycle, binding a single pending extraction to a durable record when
// confirmed and cleaning up temp artifacts.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"

	"clipcut/internal/audio"
	"clipcut/internal/store"
	"clipcut/internal/timestamp"
)

// tempPrefix namespaces preview artifacts inside the temp directory so
// leftovers from a crashed process can be purged on startup.
const tempPrefix = "preview_"

// State of the session lifecycle. Committed and Discarded are transient:
// both return to Idle immediately.
type State int

const (
	StateIdle State = iota
	StatePreviewing
)

// String returns a human-readable state name for logging.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePreviewing:
		return "previewing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// extractor produces the concatenated audio for a timestamp range.
type extractor interface {
	Extract(ctx context.Context, sourceID string, r timestamp.Range) (*audio.Buffer, error)
}

// exporter writes a buffer to an MP3 file.
type exporter interface {
	Export(ctx context.Context, buf *audio.Buffer, outPath string) error
}

// decoder re-decodes a committed clip for re-previewing.
type decoder interface {
	Decode(ctx context.Context, path string) (*audio.Buffer, error)
}

// recordStore is the durable catalog the session commits into.
type recordStore interface {
	Append(draft store.Draft) (store.Record, error)
	FindByIndex(index int) (store.Record, error)
	FindBySource(title, sourceID string) []store.Record
}

// pending is the at-most-one ephemeral extraction held between cut/load
// and submit/discard. Never persisted across restarts.
type pending struct {
	buffer   *audio.Buffer
	draft    store.Draft
	tempPath string
}

// CutRequest carries the validated primitive inputs from the caller.
type CutRequest struct {
	SourceID   string
	Timestamps string
	Quote      string
	Title      string
}

// Result describes a staged preview.
type Result struct {
	Display  string // canonical MM:SS-MM:SS range
	Length   string // formatted decimal seconds
	TempPath string // scratch MP3 for the preview player
	Buffer   *audio.Buffer
}

// Manager owns one editing session. Methods are safe for concurrent use,
// but the design is one active editor per Manager; concurrent editors get
// independent Managers with their own temp namespace.
type Manager struct {
	ext        extractor
	exp        exporter
	dec        decoder
	st         recordStore
	tempDir    string
	exportsDir string
	log        *slog.Logger

	mu      sync.Mutex
	state   State
	staging *pending
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// New creates a Manager and purges any preview leftovers a crashed prior
// process may have abandoned in tempDir.
func New(ext extractor, exp exporter, dec decoder, st recordStore, tempDir, exportsDir string, opts ...Option) (*Manager, error) {
	if ext == nil || exp == nil || dec == nil || st == nil {
		return nil, fmt.Errorf("session manager requires extractor, exporter, decoder and store")
	}
	for _, dir := range []string{tempDir, exportsDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	m := &Manager{
		ext:        ext,
		exp:        exp,
		dec:        dec,
		st:         st,
		tempDir:    tempDir,
		exportsDir: exportsDir,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.purgeTempArtifacts()
	return m, nil
}

// purgeTempArtifacts removes everything under the temp namespace prefix.
// Best-effort: failures are logged, not fatal.
func (m *Manager) purgeTempArtifacts() {
	matches, err := filepath.Glob(filepath.Join(m.tempDir, tempPrefix+"*"))
	if err != nil {
		return
	}
	for _, p := range matches {
		if err := os.Remove(p); err != nil {
			m.log.Warn("could not purge temp artifact", "path", p, "error", err)
			continue
		}
		m.log.Debug("purged leftover temp artifact", "path", p)
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Cut parses the timestamp range, extracts the audio and stages it as the
// pending preview. Any prior pending extraction is superseded and its temp
// artifact deleted. The temp artifact always gets a fresh unique name so a
// caching front end is guaranteed to observe a changed reference.
// On any failure the session state is unchanged.
func (m *Manager) Cut(ctx context.Context, req CutRequest) (Result, error) {
	if strings.ContainsRune(req.Quote, '\n') {
		return Result{}, fmt.Errorf("%w: quote cannot exceed one line", timestamp.ErrFormat)
	}

	r, err := timestamp.Parse(req.Timestamps)
	if err != nil {
		return Result{}, err
	}

	buf, err := m.ext.Extract(ctx, req.SourceID, r)
	if err != nil {
		return Result{}, err
	}

	tempPath := m.freshTempPath()
	if err := m.exp.Export(ctx, buf, tempPath); err != nil {
		return Result{}, err
	}

	draft := store.Draft{
		Title:     req.Title,
		Quote:     req.Quote,
		SourceID:  req.SourceID,
		Length:    r.LengthSeconds(),
		TimeRange: r.Display,
		// Re-cutting an already committed title/source pair is a revision
		// of that clip; the counter records how many came before.
		Edits: len(m.st.FindBySource(req.Title, req.SourceID)),
	}

	m.stage(&pending{buffer: buf, draft: draft, tempPath: tempPath})
	m.log.Info("staged cut", "source", req.SourceID, "range", r.Display, "temp", filepath.Base(tempPath))

	return Result{
		Display:  r.Display,
		Length:   r.LengthSeconds(),
		TempPath: tempPath,
		Buffer:   buf,
	}, nil
}

// Submit commits the pending extraction: copies the preview audio to its
// permanent catalog location ({title}_{source_id}.mp3), appends the draft
// to the record store, and returns to Idle. The copy happens first: a
// failure on either step leaves the entry staged and the table without the
// row, so retrying never appends twice. With nothing staged it fails with
// ErrNoPendingEntry and the record table is untouched.
func (m *Manager) Submit(ctx context.Context) (store.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.staging == nil {
		return store.Record{}, ErrNoPendingEntry
	}
	if err := ctx.Err(); err != nil {
		return store.Record{}, err
	}

	permanent := m.permanentPath(m.staging.draft.Title, m.staging.draft.SourceID)
	if err := copyFile(m.staging.tempPath, permanent); err != nil {
		return store.Record{}, fmt.Errorf("copy clip to catalog: %w", err)
	}

	rec, err := m.st.Append(m.staging.draft)
	if err != nil {
		return store.Record{}, err
	}

	if err := os.Remove(m.staging.tempPath); err != nil {
		m.log.Warn("could not remove temp artifact", "path", m.staging.tempPath, "error", err)
	}
	m.staging = nil
	m.state = StateIdle
	m.log.Info("committed clip", "index", rec.Index, "title", rec.Title, "source", rec.SourceID)

	return rec, nil
}

// Discard drops the pending extraction and its temp artifact. Calling it
// with nothing staged is a no-op.
func (m *Manager) Discard() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.staging == nil {
		return
	}
	if err := os.Remove(m.staging.tempPath); err != nil {
		m.log.Warn("could not remove temp artifact", "path", m.staging.tempPath, "error", err)
	}
	m.staging = nil
	m.state = StateIdle
	m.log.Info("discarded pending clip")
}

// Load stages an already committed clip for re-preview: its permanent
// audio is copied into a fresh temp artifact and re-decoded. The staged
// draft has Edits reset to 0; re-submission is treated as a new entry.
func (m *Manager) Load(ctx context.Context, index int) (Result, error) {
	rec, err := m.st.FindByIndex(index)
	if err != nil {
		return Result{}, err
	}

	permanent := m.permanentPath(rec.Title, rec.SourceID)
	tempPath := m.freshTempPath()
	if err := copyFile(permanent, tempPath); err != nil {
		return Result{}, fmt.Errorf("%w: clip audio for index %d: %v", audio.ErrExtraction, index, err)
	}

	buf, err := m.dec.Decode(ctx, permanent)
	if err != nil {
		_ = os.Remove(tempPath)
		return Result{}, fmt.Errorf("%w: clip audio for index %d: %v", audio.ErrExtraction, index, err)
	}

	draft := store.Draft{
		Title:     rec.Title,
		Quote:     rec.Quote,
		SourceID:  rec.SourceID,
		Length:    rec.Length,
		TimeRange: rec.TimeRange,
		Edits:     0,
	}

	m.stage(&pending{buffer: buf, draft: draft, tempPath: tempPath})
	m.log.Info("staged existing clip", "index", index, "title", rec.Title)

	return Result{
		Display:  rec.TimeRange,
		Length:   rec.Length,
		TempPath: tempPath,
		Buffer:   buf,
	}, nil
}

// stage installs p as the pending extraction, deleting the artifact of any
// prior one it supersedes.
func (m *Manager) stage(p *pending) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.staging != nil {
		if err := os.Remove(m.staging.tempPath); err != nil {
			m.log.Warn("could not remove superseded temp artifact", "path", m.staging.tempPath, "error", err)
		}
	}
	m.staging = p
	m.state = StatePreviewing
}

// freshTempPath returns a never-reused scratch file name.
func (m *Manager) freshTempPath() string {
	return filepath.Join(m.tempDir, tempPrefix+uuid.NewString()+".mp3")
}

// permanentPath is the catalog location of a committed clip. Committing the
// same title/source pair again overwrites the file; the Edits counter on
// the record tracks the revision.
func (m *Manager) permanentPath(title, sourceID string) string {
	return filepath.Join(m.exportsDir, fmt.Sprintf("%s_%s.mp3", title, sourceID))
}

// copyFile copies src to dst, truncating dst if it exists.
func copyFile(src, dst string) error {
	in, err := os.Open(src) // #nosec G304 -- paths are built from configured directories
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst) // #nosec G304 -- paths are built from configured directories
	if err != nil {
		return err
	}

	_, copyErr := io.Copy(out, in)
	if closeErr := out.Close(); copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		_ = os.Remove(dst)
	}
	return copyErr
}
