package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/soksol/playprep/internal/sarif"
)

var storeTracer = otel.Tracer("github.com/soksol/playprep/internal/store")

const (
	sarifFile   = "sarif.json"
	verdictFile = "verdict.json"
	reportFile  = "report.md"
)

var _ Store = (*FileStore)(nil)

// FileStore keeps one directory per run under dir. IDs sort chronologically.
type FileStore struct {
	dir string
	now func() time.Time
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir, now: time.Now}
}

func (s *FileStore) generateID() string {
	b := make([]byte, 3)
	_, _ = rand.Read(b)
	ts := s.now().UTC().Format("2006-01-02T15-04-05Z")
	return fmt.Sprintf("%s-%s", ts, hex.EncodeToString(b))
}

func (s *FileStore) resultDir(id string) string {
	return filepath.Join(s.dir, id)
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (s *FileStore) writeJSON(id, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.resultDir(id), name), data, 0o644)
}

func (s *FileStore) WriteSARIF(ctx context.Context, doc *sarif.Log) (string, error) {
	_, span := storeTracer.Start(ctx, "write sarif")
	defer span.End()

	id := s.generateID()
	if err := os.MkdirAll(s.resultDir(id), 0o755); err != nil {
		return "", fail(span, err)
	}
	if err := s.writeJSON(id, sarifFile, doc); err != nil {
		return "", fail(span, err)
	}

	resultCount := 0
	if len(doc.Runs) > 0 {
		resultCount = len(doc.Runs[0].Results)
	}
	span.SetAttributes(
		attribute.String("playprep.store.id", id),
		attribute.Int("playprep.store.result_count", resultCount),
	)
	return id, nil
}

func (s *FileStore) WriteVerdict(ctx context.Context, id string, verdict *Verdict) error {
	_, span := storeTracer.Start(ctx, "write verdict")
	defer span.End()

	if err := s.writeJSON(id, verdictFile, verdict); err != nil {
		return fail(span, err)
	}
	span.SetAttributes(
		attribute.String("playprep.store.id", id),
		attribute.String("playprep.qa.verdict", verdict.Decision.String()),
	)
	return nil
}

func (s *FileStore) WriteReport(ctx context.Context, id string, report []byte) error {
	_, span := storeTracer.Start(ctx, "write report")
	defer span.End()

	if err := os.WriteFile(filepath.Join(s.resultDir(id), reportFile), report, 0o644); err != nil {
		return fail(span, err)
	}
	span.SetAttributes(attribute.String("playprep.store.id", id))
	return nil
}

func (s *FileStore) ReadSARIF(ctx context.Context, id string) (*sarif.Log, error) {
	data, err := os.ReadFile(filepath.Join(s.resultDir(id), sarifFile))
	if err != nil {
		return nil, err
	}
	var log sarif.Log
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", id, err)
	}
	return &log, nil
}

func (s *FileStore) ReadVerdict(ctx context.Context, id string) (*Verdict, error) {
	data, err := os.ReadFile(filepath.Join(s.resultDir(id), verdictFile))
	if err != nil {
		return nil, err
	}
	var v Verdict
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decoding verdict %s: %w", id, err)
	}
	return &v, nil
}

// ReadReport returns the archived markdown report of a run.
func (s *FileStore) ReadReport(ctx context.Context, id string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.resultDir(id), reportFile))
}

// List returns run IDs, newest first.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	return ids, nil
}

// History lists archived runs newest first, at most limit when limit > 0.
// Runs without a readable verdict are listed with a nil Verdict.
func (s *FileStore) History(ctx context.Context, limit int) ([]Entry, error) {
	ctx, span := storeTracer.Start(ctx, "history")
	defer span.End()

	ids, err := s.List(ctx)
	if err != nil {
		return nil, fail(span, err)
	}
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		v, err := s.ReadVerdict(ctx, id)
		if err != nil {
			v = nil
		}
		entries = append(entries, Entry{ID: id, Verdict: v})
	}
	span.SetAttributes(attribute.Int("playprep.store.entries", len(entries)))
	return entries, nil
}
