package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/coverwalk/coverwalk/pkg/storage"
	"github.com/coverwalk/coverwalk/pkg/storage/mocks"
)

func TestNewSolution(t *testing.T) {
	runID := storage.NewRunID()
	_, err := ulid.Parse(runID)
	require.NoError(t, err)

	s := storage.NewSolution(runID, 3, 4, "A->B->C->D")
	id, err := ulid.Parse(s.ID)
	require.NoError(t, err)
	require.Equal(t, ulid.Timestamp(s.FoundAt), id.Time())
	require.Equal(t, runID, s.RunID)
	require.Equal(t, uint32(3), s.Length)
	require.Equal(t, 4, s.States)
	require.NotEqual(t, s.ID, storage.NewSolution(runID, 3, 4, "").ID)
}

func TestMultiWriter(t *testing.T) {
	ctx := context.Background()
	sol := storage.NewSolution(storage.NewRunID(), 1, 2, "A->B")

	t.Run("writes_in_order", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		first := mocks.NewMockSolutionWriter(ctrl)
		second := mocks.NewMockSolutionWriter(ctrl)
		gomock.InOrder(
			first.EXPECT().WriteSolution(gomock.Any(), sol).Return(nil),
			second.EXPECT().WriteSolution(gomock.Any(), sol).Return(nil),
		)

		require.NoError(t, storage.MultiWriter{first, second}.WriteSolution(ctx, sol))
	})

	t.Run("stops_at_first_error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		first := mocks.NewMockSolutionWriter(ctrl)
		second := mocks.NewMockSolutionWriter(ctrl)
		boom := errors.New("boom")
		first.EXPECT().WriteSolution(gomock.Any(), sol).Return(boom)

		err := storage.MultiWriter{first, second}.WriteSolution(ctx, sol)
		require.ErrorIs(t, err, boom)
	})

	t.Run("close_combines_errors", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		first := mocks.NewMockSolutionWriter(ctrl)
		second := mocks.NewMockSolutionWriter(ctrl)
		errA := errors.New("a")
		errB := errors.New("b")
		first.EXPECT().Close().Return(errA)
		second.EXPECT().Close().Return(errB)

		err := storage.MultiWriter{first, second}.Close()
		require.ErrorIs(t, err, errA)
		require.ErrorIs(t, err, errB)
	})
}
