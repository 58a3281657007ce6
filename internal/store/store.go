// Package store is the durable catalog of committed clips: an ordered,
// tab-delimited record table plus a persisted next-index counter.
package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/gofrs/flock"
)

// Persisted file names inside the store directory.
const (
	tableFileName   = "records.csv"
	counterFileName = "counter"
	lockFileName    = "store.lock"
)

// columns is the fixed persisted column set, in order.
var columns = []string{"Index", "Title", "Quotes", "Source", "Length", "Edits", "Time", "Submission"}

// submissionLayout is the Submission column timestamp format.
const submissionLayout = "01/02/2006 15:04:05"

// Record is one durable catalog row. Immutable once committed.
type Record struct {
	Index       int    // unique, monotonically assigned
	Title       string
	Quote       string // single line, no embedded newline
	SourceID    string // foreign key into the source catalog
	Length      string // formatted decimal seconds, e.g. "      4.00s"
	Edits       int    // revision counter
	TimeRange   string // lossy MM:SS-MM:SS display form
	SubmittedAt string
}

// Draft is a Record before commit: no index, no submission time.
type Draft struct {
	Title     string
	Quote     string
	SourceID  string
	Length    string
	Edits     int
	TimeRange string
}

// Store owns the record table and the index counter. Appends are
// serialized under both an in-process mutex and a file lock, so multiple
// editors (or processes) preserve index uniqueness and monotonicity.
type Store struct {
	tablePath   string
	counterPath string

	mu    sync.Mutex
	fl    *flock.Flock
	rows  []Record
	last  int // last assigned index
	clock func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the submission timestamp source (for testing).
func WithClock(fn func() time.Time) Option {
	return func(s *Store) { s.clock = fn }
}

// Open loads the store from dir, creating the directory if needed.
// A missing table or counter file means an empty store; unparseable
// persisted data fails with ErrCorruptStore and is never overwritten.
func Open(dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	s := &Store{
		tablePath:   filepath.Join(dir, tableFileName),
		counterPath: filepath.Join(dir, counterFileName),
		fl:          flock.New(filepath.Join(dir, lockFileName)),
		clock:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// reload refreshes rows and last from disk. Called during Open and again
// under the file lock before each mutation: another process may have
// appended since this Store last looked.
func (s *Store) reload() error {
	rows, err := loadTable(s.tablePath)
	if err != nil {
		return err
	}
	counter, err := loadCounter(s.counterPath)
	if err != nil {
		return err
	}
	s.rows = rows
	// The counter is written after the table, so a crash between the two
	// writes leaves it lagging. Never assign below what the table holds.
	s.last = counter
	for _, r := range rows {
		if r.Index > s.last {
			s.last = r.Index
		}
	}
	return nil
}

// Records returns a copy of the table in commit order.
func (s *Store) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.rows))
	copy(out, s.rows)
	return out
}

// Append assigns the next index to draft, stamps the submission time,
// appends the row and persists table and counter. The counter write
// happens after the table is durably flushed: it lags reality, never
// leads it.
func (s *Store) Append(draft Draft) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fl.Lock(); err != nil {
		return Record{}, fmt.Errorf("acquire store lock: %w", err)
	}
	defer func() { _ = s.fl.Unlock() }()

	// Pick up rows another process committed since we last read the disk.
	if err := s.reload(); err != nil {
		return Record{}, err
	}

	rec := Record{
		Index:       s.last + 1,
		Title:       draft.Title,
		Quote:       draft.Quote,
		SourceID:    draft.SourceID,
		Length:      draft.Length,
		Edits:       draft.Edits,
		TimeRange:   draft.TimeRange,
		SubmittedAt: s.clock().Format(submissionLayout),
	}

	s.rows = append(s.rows, rec)
	if err := writeTable(s.tablePath, s.rows); err != nil {
		s.rows = s.rows[:len(s.rows)-1]
		return Record{}, fmt.Errorf("persist record table: %w", err)
	}

	s.last = rec.Index
	if err := writeCounter(s.counterPath, s.last); err != nil {
		// The row is durable; only the counter lags. Open repairs this.
		return rec, fmt.Errorf("persist index counter: %w", err)
	}

	return rec, nil
}

// FindByIndex returns the record with the given index.
// No match fails with ErrEntryNotFound; duplicate indices are corruption,
// not something to resolve silently.
func (s *Store) FindByIndex(index int) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var found []Record
	for _, r := range s.rows {
		if r.Index == index {
			found = append(found, r)
		}
	}
	switch len(found) {
	case 0:
		return Record{}, fmt.Errorf("%w: index %d", ErrEntryNotFound, index)
	case 1:
		return found[0], nil
	default:
		return Record{}, fmt.Errorf("%w: index %d appears %d times", ErrCorruptStore, index, len(found))
	}
}

// FindBySource returns all records for a title/source pair, in commit order.
// Used to derive the revision count when a clip is re-cut.
func (s *Store) FindBySource(title, sourceID string) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Record
	for _, r := range s.rows {
		if r.Title == title && r.SourceID == sourceID {
			out = append(out, r)
		}
	}
	return out
}

// Reindex rewrites Index to 1..n in table order, zeroes Edits, and resets
// the counter to n. Maintenance operation; not part of the commit path.
func (s *Store) Reindex() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fl.Lock(); err != nil {
		return fmt.Errorf("acquire store lock: %w", err)
	}
	defer func() { _ = s.fl.Unlock() }()

	if err := s.reload(); err != nil {
		return err
	}

	for i := range s.rows {
		s.rows[i].Index = i + 1
		s.rows[i].Edits = 0
	}
	if err := writeTable(s.tablePath, s.rows); err != nil {
		return fmt.Errorf("persist record table: %w", err)
	}
	s.last = len(s.rows)
	return writeCounter(s.counterPath, s.last)
}

// ---------------------------------------------------------------------------
// Persistence
// ---------------------------------------------------------------------------

// loadTable reads the tab-delimited record table.
func loadTable(path string) ([]Record, error) {
	f, err := os.Open(path) // #nosec G304 -- path is built from the configured store dir
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open record table: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.Comma = '\t'
	r.FieldsPerRecord = len(columns)

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStore, err)
	}
	for i, col := range columns {
		if header[i] != col {
			return nil, fmt.Errorf("%w: header column %d is %q, want %q", ErrCorruptStore, i, header[i], col)
		}
	}

	var rows []Record
	for {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptStore, err)
		}
		rec, err := recordFromFields(fields)
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// recordFromFields parses one persisted row in column order.
func recordFromFields(fields []string) (Record, error) {
	index, err := strconv.Atoi(fields[0])
	if err != nil {
		return Record{}, fmt.Errorf("%w: bad Index %q", ErrCorruptStore, fields[0])
	}
	edits, err := strconv.Atoi(fields[5])
	if err != nil {
		return Record{}, fmt.Errorf("%w: bad Edits %q", ErrCorruptStore, fields[5])
	}
	return Record{
		Index:       index,
		Title:       fields[1],
		Quote:       fields[2],
		SourceID:    fields[3],
		Length:      fields[4],
		Edits:       edits,
		TimeRange:   fields[6],
		SubmittedAt: fields[7],
	}, nil
}

// writeTable persists the table durably: write to a scratch file in the
// same directory, sync, then rename over the old table.
func writeTable(path string, rows []Record) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), tableFileName+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	w.Comma = '\t'

	writeErr := w.Write(columns)
	for _, rec := range rows {
		if writeErr != nil {
			break
		}
		writeErr = w.Write([]string{
			strconv.Itoa(rec.Index),
			rec.Title,
			rec.Quote,
			rec.SourceID,
			rec.Length,
			strconv.Itoa(rec.Edits),
			rec.TimeRange,
			rec.SubmittedAt,
		})
	}
	if writeErr == nil {
		w.Flush()
		writeErr = w.Error()
	}
	if writeErr == nil {
		writeErr = tmp.Sync()
	}
	if closeErr := tmp.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		_ = os.Remove(tmpName)
		return writeErr
	}
	return os.Rename(tmpName, path)
}

// loadCounter reads the last assigned index; a missing file means 0.
func loadCounter(path string) (int, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is built from the configured store dir
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read counter: %w", err)
	}
	n, err := strconv.Atoi(string(data))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: bad counter value %q", ErrCorruptStore, string(data))
	}
	return n, nil
}

// writeCounter persists the counter with the same scratch-and-rename scheme
// as the table.
func writeCounter(path string, value int) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), counterFileName+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	_, writeErr := tmp.WriteString(strconv.Itoa(value))
	if writeErr == nil {
		writeErr = tmp.Sync()
	}
	if closeErr := tmp.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		_ = os.Remove(tmpName)
		return writeErr
	}
	return os.Rename(tmpName, path)
}
