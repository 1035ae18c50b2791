package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"munhash/config"
	"munhash/internal/domain/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func sampleEvent() *service.GroupCompletedEvent {
	return &service.GroupCompletedEvent{
		RunID:      "run-1",
		Group:      "RO",
		Records:    52,
		Files:      map[string]string{"municipios_hash_RO.csv": "abc"},
		Elapsed:    1500 * time.Millisecond,
		FinishedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestLocalHTTPPublisher_PushFormat(t *testing.T) {
	var received PushMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, slog.New(slog.DiscardHandler))
	require.NoError(t, publisher.PublishGroupCompleted(context.Background(), sampleEvent()))
	require.NoError(t, publisher.Close())

	assert.Equal(t, localSubscription, received.Subscription)
	assert.Equal(t, "run-1/RO", received.Message.MessageID)
	assert.Equal(t, map[string]string{"run_id": "run-1", "group": "RO"}, received.Message.Attributes)

	data, err := base64.StdEncoding.DecodeString(received.Message.Data)
	require.NoError(t, err)

	var event service.GroupCompletedEvent
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, *sampleEvent(), event)
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	publisher := NewLocalHTTPPublisher(server.URL, slog.New(slog.DiscardHandler))
	err := publisher.PublishGroupCompleted(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestNewEventPublisher(t *testing.T) {
	tests := []struct {
		name     string
		pubsub   *config.PubSubConfig
		wantErr  bool
		wantNoop bool
	}{
		{name: "not configured", pubsub: nil, wantNoop: true},
		{name: "empty provider", pubsub: &config.PubSubConfig{}, wantNoop: true},
		{name: "local", pubsub: &config.PubSubConfig{Provider: ProviderLocal, LocalEndpoint: "http://localhost:1"}},
		{name: "local without endpoint", pubsub: &config.PubSubConfig{Provider: ProviderLocal}, wantErr: true},
		{name: "google without project", pubsub: &config.PubSubConfig{Provider: ProviderGoogle, TopicID: "t"}, wantErr: true},
		{name: "google without topic", pubsub: &config.PubSubConfig{Provider: ProviderGoogle, ProjectID: "p"}, wantErr: true},
		{name: "unknown", pubsub: &config.PubSubConfig{Provider: "kafka"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.PubSub = tt.pubsub
			lc := fxtest.NewLifecycle(t)

			publisher, err := NewEventPublisher(PublisherParams{
				Lc:     lc,
				Ctx:    context.Background(),
				Config: cfg,
				Logger: slog.New(slog.DiscardHandler),
			})
			if tt.wantErr {
				require.Error(t, err)

				return
			}
			require.NoError(t, err)

			_, isNoop := publisher.(*noopPublisher)
			assert.Equal(t, tt.wantNoop, isNoop)

			lc.RequireStart().RequireStop()
		})
	}
}

func TestNoopPublisher(t *testing.T) {
	publisher := NewNoopPublisher(slog.New(slog.DiscardHandler))

	assert.NoError(t, publisher.PublishGroupCompleted(context.Background(), sampleEvent()))
	assert.NoError(t, publisher.Close())
}
