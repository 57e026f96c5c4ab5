// Package textfile appends accepted solutions to a plain text results file.
package textfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/coverwalk/coverwalk/pkg/storage"
)

var tracer = otel.Tracer("coverwalk/pkg/storage/textfile")

// ResultsFile writes one line per solution and syncs the file before returning, so a killed
// process keeps every improvement it reported.
type ResultsFile struct {
	mu     sync.Mutex
	f      *os.File
	path   string
	closed bool
}

var _ storage.SolutionWriter = (*ResultsFile)(nil)

// Open opens path for appending, creating it if needed.
func Open(path string) (*ResultsFile, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open results file: %w", err)
	}
	return &ResultsFile{f: f, path: path}, nil
}

// Path returns the file the results are appended to.
func (r *ResultsFile) Path() string {
	return r.path
}

// FormatLine renders the results line for s without a trailing newline.
func FormatLine(s *storage.Solution) string {
	return fmt.Sprintf("%s run=%s FOUND: %s", s.FoundAt.Format(time.RFC3339), s.RunID, s.Walk)
}

func (r *ResultsFile) WriteSolution(ctx context.Context, s *storage.Solution) error {
	_, span := tracer.Start(ctx, "textfile.WriteSolution")
	defer span.End()
	span.SetAttributes(attribute.Int64("length", int64(s.Length)))

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return storage.ErrClosed
	}
	if _, err := r.f.WriteString(FormatLine(s) + "\n"); err != nil {
		return fmt.Errorf("write results file: %w", err)
	}
	if err := r.f.Sync(); err != nil {
		return fmt.Errorf("sync results file: %w", err)
	}
	return nil
}

// Close is safe to call more than once.
func (r *ResultsFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	if err := r.f.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return fmt.Errorf("close results file: %w", err)
	}
	return nil
}
