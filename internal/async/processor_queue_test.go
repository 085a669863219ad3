package async

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/label-tracker/internal/entity"
	processor "github.com/joseph-ayodele/label-tracker/internal/pipeline"
)

type fakeProc struct {
	saved atomic.Int64
}

func (f *fakeProc) ProcessFile(_ context.Context, path string) (processor.Result, error) {
	if path == "bad.pdf" {
		return processor.Result{}, errors.New("corrupt")
	}
	return processor.Result{Record: entity.Record{OrderNo: path}}, nil
}

func (f *fakeProc) Save(_ context.Context, rec entity.Record) (*entity.Order, error) {
	id := f.saved.Add(1)
	return &entity.Order{ID: id, Record: rec}, nil
}

func collect(q *ProcessorQueue) []JobResult {
	var out []JobResult
	for r := range q.Results() {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Job.Path < out[j].Job.Path })
	return out
}

func TestProcessorQueue_OneResultPerJob(t *testing.T) {
	proc := &fakeProc{}
	q := NewProcessorQueue(proc, nil, WithWorkers(3), WithQueueSize(8), WithProcessTimeout(time.Second))

	done := make(chan []JobResult)
	go func() { done <- collect(q) }()

	for _, p := range []string{"a.pdf", "b.pdf", "bad.pdf"} {
		require.NoError(t, q.Enqueue(context.Background(), Job{Path: p, Save: p != "b.pdf"}))
	}
	q.Shutdown(context.Background())

	results := <-done
	require.Len(t, results, 3)

	assert.NoError(t, results[0].Err)
	assert.Equal(t, "a.pdf", results[0].Result.Record.OrderNo)
	require.NotNil(t, results[0].Order)

	assert.NoError(t, results[1].Err)
	assert.Nil(t, results[1].Order, "save not requested")

	assert.Equal(t, "bad.pdf", results[2].Job.Path)
	assert.Error(t, results[2].Err)
	assert.Nil(t, results[2].Order)

	assert.EqualValues(t, 1, proc.saved.Load())
}

func TestProcessorQueue_EnqueueAfterShutdown(t *testing.T) {
	q := NewProcessorQueue(&fakeProc{}, nil, WithWorkers(1))
	q.Shutdown(context.Background())
	q.Shutdown(context.Background())

	err := q.Enqueue(context.Background(), Job{Path: "a.pdf"})
	assert.ErrorIs(t, err, ErrQueueClosed)

	_, open := <-q.Results()
	assert.False(t, open)
}
