package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seantiz/asyncdemo/internal/model"
)

func TestListResponsesEmpty(t *testing.T) {
	s := newTestStore(t)

	rows, err := s.ListResponses(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)

	n, err := s.CountResponses(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSaveResponseAssignsUniqueIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := model.NewApiResponse(`{"id":1}`, time.Now().UTC())
	second := model.NewApiResponse(`{"id":2}`, time.Now().UTC())
	require.NoError(t, s.SaveResponse(ctx, first))
	require.NoError(t, s.SaveResponse(ctx, second))

	assert.NotZero(t, first.ID)
	assert.NotZero(t, second.ID)
	assert.NotEqual(t, first.ID, second.ID)

	rows, err := s.ListResponses(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, first.ID, rows[0].ID)
	assert.Equal(t, `{"id":1}`, rows[0].Data)
	assert.Equal(t, second.ID, rows[1].ID)
}

func TestSaveResponseRoundTripsTimestampAndTruncatedData(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	retrieved := time.Date(2025, 3, 18, 3, 26, 58, 0, time.UTC)

	rec := model.NewApiResponse(strings.Repeat("x", 2000), retrieved)
	require.NoError(t, s.SaveResponse(ctx, rec))

	rows, err := s.ListResponses(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0].Data, model.MaxResponseData)
	assert.True(t, retrieved.Equal(rows[0].RetrievedAt), "RetrievedAt = %v", rows[0].RetrievedAt)

	n, err := s.CountResponses(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
