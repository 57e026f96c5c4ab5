// Package sqlite stores solution history in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/coverwalk/coverwalk/pkg/logger"
	"github.com/coverwalk/coverwalk/pkg/storage"
)

const solutionTable = "solution"

var tracer = otel.Tracer("coverwalk/pkg/storage/sqlite")

func startTrace(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "sqlite."+name)
}

// Datastore provides a SQLite based implementation of [storage.SolutionWriter] and
// [storage.SolutionReader].
type Datastore struct {
	stbl   sq.StatementBuilderType
	db     *sql.DB
	logger logger.Logger
}

var (
	_ storage.SolutionWriter = (*Datastore)(nil)
	_ storage.SolutionReader = (*Datastore)(nil)
)

type DatastoreOption func(*Datastore)

func WithLogger(l logger.Logger) DatastoreOption {
	return func(d *Datastore) {
		d.logger = l
	}
}

// PrepareDSN prepares a raw DSN for use with SQLite, specifying defaults for journal mode and busy timeout.
func PrepareDSN(uri string) (string, error) {
	query := url.Values{}
	var err error

	if i := strings.Index(uri, "?"); i != -1 {
		query, err = url.ParseQuery(uri[i+1:])
		if err != nil {
			return uri, fmt.Errorf("error parsing dsn: %w", err)
		}

		uri = uri[:i]
	}

	foundJournalMode := false
	foundBusyTimeout := false
	for _, val := range query["_pragma"] {
		if strings.HasPrefix(val, "journal_mode") {
			foundJournalMode = true
		} else if strings.HasPrefix(val, "busy_timeout") {
			foundBusyTimeout = true
		}
	}

	if !foundJournalMode {
		query.Add("_pragma", "journal_mode(WAL)")
	}
	if !foundBusyTimeout {
		query.Add("_pragma", "busy_timeout(100)")
	}

	if !query.Has("_txlock") {
		query.Set("_txlock", "immediate")
	}

	uri += "?" + query.Encode()

	return uri, nil
}

// New opens the database at uri. The schema must already be migrated, see
// [SQLiteMigrationProvider].
func New(uri string, opts ...DatastoreOption) (*Datastore, error) {
	uri, err := PrepareDSN(uri)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", uri)
	if err != nil {
		return nil, fmt.Errorf("initialize sqlite connection: %w", err)
	}

	d := &Datastore{
		stbl:   sq.StatementBuilder.RunWith(db),
		db:     db,
		logger: logger.NewNoopLogger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Close see [storage.SolutionWriter].Close.
func (s *Datastore) Close() error {
	return s.db.Close()
}

// WriteSolution see [storage.SolutionWriter].WriteSolution.
func (s *Datastore) WriteSolution(ctx context.Context, sol *storage.Solution) error {
	ctx, span := startTrace(ctx, "WriteSolution")
	defer span.End()
	span.SetAttributes(attribute.String("run_id", sol.RunID), attribute.Int64("length", int64(sol.Length)))

	err := busyRetry(func() error {
		_, err := s.stbl.
			Insert(solutionTable).
			Columns("ulid", "run_id", "length", "states", "walk", "found_at").
			Values(sol.ID, sol.RunID, sol.Length, sol.States, sol.Walk, sol.FoundAt.UnixMilli()).
			ExecContext(ctx)
		return err
	})
	if err != nil {
		return HandleSQLError(err)
	}

	s.logger.Debug("solution recorded", zap.String("ulid", sol.ID), zap.Uint32("length", sol.Length))
	return nil
}

// ListSolutions see [storage.SolutionReader].ListSolutions.
func (s *Datastore) ListSolutions(ctx context.Context, opts storage.ListOptions) ([]*storage.Solution, error) {
	ctx, span := startTrace(ctx, "ListSolutions")
	defer span.End()

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = storage.DefaultPageSize
	}

	sb := s.stbl.
		Select("ulid", "run_id", "length", "states", "walk", "found_at").
		From(solutionTable).
		OrderBy("ulid DESC").
		Limit(uint64(pageSize))
	if opts.RunID != "" {
		sb = sb.Where(sq.Eq{"run_id": opts.RunID})
	}

	rows, err := sb.QueryContext(ctx)
	if err != nil {
		return nil, HandleSQLError(err)
	}
	defer rows.Close()

	var solutions []*storage.Solution
	for rows.Next() {
		var (
			sol     storage.Solution
			foundAt int64
		)
		if err := rows.Scan(&sol.ID, &sol.RunID, &sol.Length, &sol.States, &sol.Walk, &foundAt); err != nil {
			return nil, HandleSQLError(err)
		}
		sol.FoundAt = time.UnixMilli(foundAt).UTC()
		solutions = append(solutions, &sol)
	}
	if err := rows.Err(); err != nil {
		return nil, HandleSQLError(err)
	}

	return solutions, nil
}

// HandleSQLError processes an SQL error and converts it into a more
// specific error type based on the nature of the SQL error.
func HandleSQLError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code()&0xFF == sqlite3.SQLITE_CONSTRAINT {
			return storage.ErrCollision
		}
	}

	return fmt.Errorf("sql error: %w", err)
}

// SQLite will return an SQLITE_BUSY error when the database is locked rather than waiting for the lock.
// This function retries the operation up to maxRetries times before returning the error.
func busyRetry(fn func() error) error {
	const maxRetries = 10
	for retries := 0; ; retries++ {
		err := fn()
		if err == nil {
			return nil
		}

		if isBusyError(err) {
			if retries < maxRetries {
				continue
			}

			return fmt.Errorf("sqlite busy error after %d retries: %w", maxRetries, err)
		}

		return err
	}
}

var busyErrors = map[int]struct{}{
	sqlite3.SQLITE_BUSY_RECOVERY:      {},
	sqlite3.SQLITE_BUSY_SNAPSHOT:      {},
	sqlite3.SQLITE_BUSY_TIMEOUT:       {},
	sqlite3.SQLITE_BUSY:               {},
	sqlite3.SQLITE_LOCKED_SHAREDCACHE: {},
	sqlite3.SQLITE_LOCKED:             {},
}

func isBusyError(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}

	_, ok := busyErrors[sqliteErr.Code()]
	return ok
}
