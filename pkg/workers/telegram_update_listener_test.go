package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
)

type fakeSource struct {
	updates chan tgbotapi.Update
	stopped chan struct{}
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		updates: make(chan tgbotapi.Update),
		stopped: make(chan struct{}),
	}
}

func (f *fakeSource) GetUpdates() tgbotapi.UpdatesChannel { return f.updates }
func (f *fakeSource) StopUpdates()                        { close(f.stopped) }

type recordingDispatcher struct {
	mu      sync.Mutex
	ids     []int
	handled chan struct{}
}

func (r *recordingDispatcher) HandleUpdate(_ context.Context, update *tgbotapi.Update) error {
	r.mu.Lock()
	r.ids = append(r.ids, update.UpdateID)
	r.mu.Unlock()
	r.handled <- struct{}{}

	switch update.UpdateID {
	case 2:
		return errors.New("send failed")
	case 3:
		panic("boom")
	}
	return nil
}

func TestTelegramUpdateListener_Start(t *testing.T) {
	source := newFakeSource()
	dispatcher := &recordingDispatcher{handled: make(chan struct{}, 3)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewTelegramUpdateListener(source, dispatcher).Start(ctx) }()

	for id := 1; id <= 3; id++ {
		source.updates <- tgbotapi.Update{UpdateID: id}
		<-dispatcher.handled
	}
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("listener did not stop")
	}

	<-source.stopped
	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	assert.ElementsMatch(t, []int{1, 2, 3}, dispatcher.ids)
}

func TestTelegramUpdateListener_ClosedSource(t *testing.T) {
	source := newFakeSource()
	close(source.updates)

	err := NewTelegramUpdateListener(source, &recordingDispatcher{}).Start(context.Background())

	assert.NoError(t, err)
}
