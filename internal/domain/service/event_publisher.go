package service

import (
	"context"
	"time"
)

// GroupCompletedEvent announces that one group's artifacts were written.
type GroupCompletedEvent struct {
	RunID      string            `json:"run_id"`
	Group      string            `json:"group"`
	Records    int               `json:"records"`
	Files      map[string]string `json:"files"` // object key -> sha256
	Elapsed    time.Duration     `json:"elapsed"`
	FinishedAt time.Time         `json:"finished_at"`
}

// EventPublisher defines the interface for publishing events to a message queue
type EventPublisher interface {
	// PublishGroupCompleted publishes a completion event for downstream consumers
	PublishGroupCompleted(ctx context.Context, event *GroupCompletedEvent) error

	// Close releases any resources held by the publisher
	Close() error
}
