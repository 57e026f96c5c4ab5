// Package storage contains the interfaces and record types used to persist accepted solutions.
//
//go:generate mockgen -source storage.go -destination ./mocks/mock_storage.go -package mocks SolutionWriter,SolutionReader
package storage

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/multierr"
)

const DefaultPageSize = 50

// Solution is one strictly improving covering walk reported by a search run.
type Solution struct {
	ID      string
	RunID   string
	Length  uint32
	States  int
	Walk    string
	FoundAt time.Time
}

// NewSolution stamps a solution with a fresh ULID and the current time.
func NewSolution(runID string, length uint32, states int, walk string) *Solution {
	now := time.Now().UTC()
	return &Solution{
		ID:      ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		RunID:   runID,
		Length:  length,
		States:  states,
		Walk:    walk,
		FoundAt: now,
	}
}

// NewRunID returns a ULID identifying one search run.
func NewRunID() string {
	return ulid.Make().String()
}

// SolutionWriter records accepted solutions. Implementations must make the record durable
// before WriteSolution returns.
type SolutionWriter interface {
	WriteSolution(ctx context.Context, s *Solution) error
	Close() error
}

// ListOptions narrows a history listing. An empty RunID lists every run.
type ListOptions struct {
	RunID    string
	PageSize int
}

// SolutionReader lists previously recorded solutions, newest first.
type SolutionReader interface {
	ListSolutions(ctx context.Context, opts ListOptions) ([]*Solution, error)
	Close() error
}

// MultiWriter fans a solution out to every writer in order and stops at the first error.
type MultiWriter []SolutionWriter

var _ SolutionWriter = MultiWriter(nil)

func (m MultiWriter) WriteSolution(ctx context.Context, s *Solution) error {
	for _, w := range m {
		if err := w.WriteSolution(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every writer and combines their errors.
func (m MultiWriter) Close() error {
	var err error
	for _, w := range m {
		err = multierr.Append(err, w.Close())
	}
	return err
}
