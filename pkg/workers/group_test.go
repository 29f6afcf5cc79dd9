package workers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWorker struct {
	name string
	err  error
}

func (f *fakeWorker) Name() string { return f.name }

func (f *fakeWorker) Start(ctx context.Context) error {
	if f.err != nil {
		return f.err
	}
	<-ctx.Done()
	return nil
}

func TestGroup_Start_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- Group{&fakeWorker{name: "a"}, &fakeWorker{name: "b"}}.Start(ctx)
	}()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("group did not stop")
	}
}

func TestGroup_Start_FailingWorkerStopsOthers(t *testing.T) {
	failure := errors.New("address in use")

	err := Group{&fakeWorker{name: "ok"}, &fakeWorker{name: "http_server", err: failure}}.Start(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, failure)
	assert.Contains(t, err.Error(), "http_server: address in use")
}

type finishedWorker struct{}

func (finishedWorker) Name() string { return "finished" }
func (finishedWorker) Start(ctx context.Context) error { return nil }

func TestGroup_Start_FinishedWorkerStopsOthers(t *testing.T) {
	done := make(chan error, 1)

	go func() {
		done <- Group{&fakeWorker{name: "a"}, finishedWorker{}}.Start(context.Background())
	}()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("group did not stop")
	}
}
