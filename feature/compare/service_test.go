package compare_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"es-diff/core/diff"
	"es-diff/core/elastic"
	"es-diff/core/elastic/mocks"
	"es-diff/core/report"
	"es-diff/feature/compare"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memSink captures report rows in memory.
type memSink struct {
	rows []report.Row
}

func (s *memSink) Append(row report.Row) error {
	s.rows = append(s.rows, row)
	return nil
}

func (s *memSink) byID(id string) (report.Row, bool) {
	for _, r := range s.rows {
		if r.DocID == id {
			return r, true
		}
	}
	return report.Row{}, false
}

func defaultOptions() compare.Options {
	return compare.Options{
		IndexA:     "idx-a",
		IndexB:     "idx-b",
		ScrollSize: 100,
		ScrollTime: 2 * time.Minute,
	}
}

// healthyClient sets up ping/exists/count expectations shared by most tests.
func healthyClient(countA, countB int64) *mocks.Client {
	client := new(mocks.Client)
	client.On("Ping", mock.Anything).Return(nil)
	client.On("IndexExists", mock.Anything, "idx-a").Return(true, nil)
	client.On("IndexExists", mock.Anything, "idx-b").Return(true, nil)
	client.On("Count", mock.Anything, "idx-a").Return(countA, nil)
	client.On("Count", mock.Anything, "idx-b").Return(countB, nil)
	return client
}

func TestServiceRun(t *testing.T) {
	t.Run("FullComparison", func(t *testing.T) {
		client := healthyClient(3, 3)

		// Pass 1: idx-a holds d1 (identical), d2 (changed), d3 (missing in B)
		client.On("OpenScroll", mock.Anything, "idx-a", 100, 2*time.Minute).Return(&elastic.Page{
			Hits: []elastic.Hit{
				{ID: "d1", Source: map[string]any{"name": "chair"}},
				{ID: "d2", Source: map[string]any{"name": "table", "price": float64(10)}},
				{ID: "d3", Source: map[string]any{"name": "lamp"}},
			},
			ScrollID: "sa",
		}, nil)
		client.On("ContinueScroll", mock.Anything, "sa", 2*time.Minute).Return(&elastic.Page{ScrollID: "sa"}, nil)
		client.On("ClearScroll", mock.Anything, "sa").Return(nil)

		client.On("MultiGet", mock.Anything, "idx-b", []string{"d1", "d2", "d3"}).Return(map[string]map[string]any{
			"d1": {"name": "chair"},
			"d2": {"name": "table", "price": float64(12)},
		}, nil)

		// Pass 2: idx-b additionally holds d4
		client.On("OpenScroll", mock.Anything, "idx-b", 100, 2*time.Minute).Return(&elastic.Page{
			Hits: []elastic.Hit{
				{ID: "d1", Source: map[string]any{"name": "chair"}},
				{ID: "d2", Source: map[string]any{"name": "table", "price": float64(12)}},
				{ID: "d4", Source: map[string]any{"name": "desk"}},
			},
			ScrollID: "sb",
		}, nil)
		client.On("ContinueScroll", mock.Anything, "sb", 2*time.Minute).Return(&elastic.Page{ScrollID: "sb"}, nil)
		client.On("ClearScroll", mock.Anything, "sb").Return(nil)

		sink := &memSink{}
		svc := compare.NewService(client, diff.NewDiffer(nil), sink, zap.NewNop())

		summary, err := svc.Run(context.Background(), defaultOptions())
		require.NoError(t, err)

		assert.Equal(t, int64(3), summary.DocsIndexA)
		assert.Equal(t, int64(3), summary.DocsIndexB)
		assert.Equal(t, 1, summary.OnlyInA)
		assert.Equal(t, 1, summary.OnlyInB)
		assert.Equal(t, 1, summary.Changed)
		assert.Equal(t, 1, summary.Identical)
		assert.Equal(t, 3, summary.Differences())

		require.Len(t, sink.rows, 3)

		row, ok := sink.byID("d2")
		require.True(t, ok)
		assert.Equal(t, report.TypeFieldDifference, row.DifferenceType)
		var details map[string]map[string]any
		require.NoError(t, json.Unmarshal([]byte(row.DiffDetails), &details))
		assert.Contains(t, details["changed"], "price")

		row, ok = sink.byID("d3")
		require.True(t, ok)
		assert.Equal(t, report.TypeMissing, row.DifferenceType)
		assert.Equal(t, "Present in: idx-a", row.DiffDetails)

		row, ok = sink.byID("d4")
		require.True(t, ok)
		assert.Equal(t, report.TypeMissing, row.DifferenceType)
		assert.Equal(t, "Present in: idx-b", row.DiffDetails)

		client.AssertExpectations(t)
	})

	t.Run("ExclusionsSuppressChanges", func(t *testing.T) {
		client := healthyClient(1, 1)

		client.On("OpenScroll", mock.Anything, "idx-a", 100, 2*time.Minute).Return(&elastic.Page{
			Hits:     []elastic.Hit{{ID: "d1", Source: map[string]any{"name": "chair", "updated_at": "2024-01-01"}}},
			ScrollID: "sa",
		}, nil)
		client.On("ContinueScroll", mock.Anything, "sa", 2*time.Minute).Return(&elastic.Page{ScrollID: "sa"}, nil)
		client.On("ClearScroll", mock.Anything, "sa").Return(nil)
		client.On("MultiGet", mock.Anything, "idx-b", []string{"d1"}).Return(map[string]map[string]any{
			"d1": {"name": "chair", "updated_at": "2024-06-01"},
		}, nil)
		client.On("OpenScroll", mock.Anything, "idx-b", 100, 2*time.Minute).Return(&elastic.Page{
			Hits:     []elastic.Hit{{ID: "d1", Source: map[string]any{"name": "chair"}}},
			ScrollID: "sb",
		}, nil)
		client.On("ContinueScroll", mock.Anything, "sb", 2*time.Minute).Return(&elastic.Page{ScrollID: "sb"}, nil)
		client.On("ClearScroll", mock.Anything, "sb").Return(nil)

		excludes, err := diff.ParseExcludes([]string{"updated_at"})
		require.NoError(t, err)

		sink := &memSink{}
		svc := compare.NewService(client, diff.NewDiffer(excludes), sink, zap.NewNop())

		summary, err := svc.Run(context.Background(), defaultOptions())
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Identical)
		assert.Zero(t, summary.Differences())
		assert.Empty(t, sink.rows)
	})

	t.Run("FailOnDiff", func(t *testing.T) {
		client := healthyClient(1, 0)

		client.On("OpenScroll", mock.Anything, "idx-a", 100, 2*time.Minute).Return(&elastic.Page{
			Hits:     []elastic.Hit{{ID: "d1", Source: map[string]any{"name": "chair"}}},
			ScrollID: "sa",
		}, nil)
		client.On("ContinueScroll", mock.Anything, "sa", 2*time.Minute).Return(&elastic.Page{ScrollID: "sa"}, nil)
		client.On("ClearScroll", mock.Anything, "sa").Return(nil)
		client.On("MultiGet", mock.Anything, "idx-b", []string{"d1"}).Return(map[string]map[string]any{}, nil)
		client.On("OpenScroll", mock.Anything, "idx-b", 100, 2*time.Minute).Return(&elastic.Page{ScrollID: "sb"}, nil)
		client.On("ClearScroll", mock.Anything, "sb").Return(nil)

		opts := defaultOptions()
		opts.FailOnDiff = true

		sink := &memSink{}
		svc := compare.NewService(client, diff.NewDiffer(nil), sink, zap.NewNop())

		summary, err := svc.Run(context.Background(), opts)
		require.ErrorIs(t, err, compare.ErrDifferencesFound)
		require.NotNil(t, summary)
		assert.Equal(t, 1, summary.OnlyInA)
	})

	t.Run("PingFailureAborts", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("Ping", mock.Anything).Return(fmt.Errorf("connection refused"))

		svc := compare.NewService(client, diff.NewDiffer(nil), &memSink{}, zap.NewNop())

		_, err := svc.Run(context.Background(), defaultOptions())
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("MissingIndexAborts", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("Ping", mock.Anything).Return(nil)
		client.On("IndexExists", mock.Anything, "idx-a").Return(true, nil)
		client.On("IndexExists", mock.Anything, "idx-b").Return(false, nil)

		svc := compare.NewService(client, diff.NewDiffer(nil), &memSink{}, zap.NewNop())

		_, err := svc.Run(context.Background(), defaultOptions())
		assert.ErrorContains(t, err, `index "idx-b" does not exist`)
	})

	t.Run("MultiGetFailureAborts", func(t *testing.T) {
		client := healthyClient(1, 1)

		client.On("OpenScroll", mock.Anything, "idx-a", 100, 2*time.Minute).Return(&elastic.Page{
			Hits:     []elastic.Hit{{ID: "d1", Source: map[string]any{}}},
			ScrollID: "sa",
		}, nil)
		client.On("ClearScroll", mock.Anything, "sa").Return(nil)
		client.On("MultiGet", mock.Anything, "idx-b", []string{"d1"}).Return(nil, fmt.Errorf("mget exploded"))

		svc := compare.NewService(client, diff.NewDiffer(nil), &memSink{}, zap.NewNop())

		_, err := svc.Run(context.Background(), defaultOptions())
		assert.ErrorContains(t, err, "mget exploded")
	})
}
