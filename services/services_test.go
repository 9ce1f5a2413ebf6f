package services

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Dosada05/tournament-scoreboard/metrics"
	"github.com/Dosada05/tournament-scoreboard/models"
	"github.com/Dosada05/tournament-scoreboard/repositories"
	"github.com/Dosada05/tournament-scoreboard/storage"
)

type publishedEvent struct {
	Room    string
	Type    string
	Payload interface{}
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (n *recordingNotifier) Publish(roomID, eventType string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, publishedEvent{Room: roomID, Type: eventType, Payload: payload})
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.events))
	for i, e := range n.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	store    *repositories.Store
	metrics  *metrics.Mock
	notifier *recordingNotifier
	deps     Deps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    repositories.NewMemoryBackedStore(),
		metrics:  metrics.NewMock(),
		notifier: &recordingNotifier{},
	}
	f.deps = Deps{
		Store:    f.store,
		Notifier: f.notifier,
		Metrics:  f.metrics,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:      func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) },
	}
	return f
}

func (f *fixture) seededBracket(t *testing.T, c models.Competition) BracketService {
	t.Helper()
	svc := NewBracketService(f.deps)
	_, err := svc.SeedBracket(context.Background(), c)
	require.NoError(t, err)
	return svc
}

type memoryUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

var _ storage.FileUploader = (*memoryUploader)(nil)

func newMemoryUploader() *memoryUploader {
	return &memoryUploader{objects: map[string][]byte{}, types: map[string]string{}}
}

func (u *memoryUploader) Upload(ctx context.Context, key, contentType string, r io.Reader) (*storage.UploadResult, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.objects[key] = buf.Bytes()
	u.types[key] = contentType
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *memoryUploader) Delete(ctx context.Context, key string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.objects, key)
	return nil
}

func (u *memoryUploader) GetPublicURL(key string) string { return "https://cdn.test/" + key }

func strp(s string) *string { return &s }
