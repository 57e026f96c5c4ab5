package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/coverwalk/coverwalk/pkg/logger"
	"github.com/coverwalk/coverwalk/pkg/storage"
)

func newTestDatastore(t *testing.T) *Datastore {
	t.Helper()

	uri := filepath.Join(t.TempDir(), "history.db")
	err := NewSQLiteMigrationProvider().RunMigrations(context.Background(), storage.MigrationConfig{
		Engine:  "sqlite",
		URI:     uri,
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)

	ds, err := New(uri, WithLogger(logger.NewNoopLogger()))
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, ds.Close()) })
	return ds
}

func TestPrepareDSN(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want string
	}{
		{
			name: "adds_defaults",
			uri:  "file:history.db",
			want: "file:history.db?_pragma=journal_mode%28WAL%29&_pragma=busy_timeout%28100%29&_txlock=immediate",
		},
		{
			name: "keeps_explicit_pragmas",
			uri:  "file:history.db?_pragma=journal_mode(DELETE)&_pragma=busy_timeout(5)&_txlock=deferred",
			want: "file:history.db?_pragma=journal_mode%28DELETE%29&_pragma=busy_timeout%285%29&_txlock=deferred",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := PrepareDSN(test.uri)
			require.NoError(t, err)
			require.Equal(t, test.want, got)
		})
	}

	_, err := PrepareDSN("file:history.db?%zz")
	require.Error(t, err)
}

func TestWriteAndListSolutions(t *testing.T) {
	ds := newTestDatastore(t)
	ctx := context.Background()

	runA := storage.NewRunID()
	runB := storage.NewRunID()
	first := storage.NewSolution(runA, 8, 5, "A->B->C->B->D->END, states 5, length 8")
	second := storage.NewSolution(runA, 3, 4, "A->B->C->D->END, states 4, length 3")
	other := storage.NewSolution(runB, 3, 4, "A->B->C->D->END, states 4, length 3")
	for _, s := range []*storage.Solution{first, second, other} {
		require.NoError(t, ds.WriteSolution(ctx, s))
	}

	all, err := ds.ListSolutions(ctx, storage.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, other.ID, all[0].ID)
	require.Equal(t, first.ID, all[2].ID)

	byRun, err := ds.ListSolutions(ctx, storage.ListOptions{RunID: runA})
	require.NoError(t, err)
	require.Len(t, byRun, 2)
	require.Equal(t, second.ID, byRun[0].ID)
	require.Equal(t, uint32(3), byRun[0].Length)
	require.Equal(t, 4, byRun[0].States)
	require.Equal(t, second.Walk, byRun[0].Walk)
	require.Equal(t, second.FoundAt.UnixMilli(), byRun[0].FoundAt.UnixMilli())

	page, err := ds.ListSolutions(ctx, storage.ListOptions{PageSize: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)

	none, err := ds.ListSolutions(ctx, storage.ListOptions{RunID: "missing"})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestWriteSolutionCollision(t *testing.T) {
	ds := newTestDatastore(t)
	ctx := context.Background()

	s := storage.NewSolution(storage.NewRunID(), 3, 4, "A->B->C->D")
	require.NoError(t, ds.WriteSolution(ctx, s))
	require.ErrorIs(t, ds.WriteSolution(ctx, s), storage.ErrCollision)
}

func TestWriteWithoutSchemaFails(t *testing.T) {
	ds, err := New(filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer ds.Close()

	err = ds.WriteSolution(context.Background(), storage.NewSolution("run", 1, 1, "A"))
	require.Error(t, err)
	require.NotErrorIs(t, err, storage.ErrCollision)
}
