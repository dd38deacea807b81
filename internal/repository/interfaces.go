package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/apper-apps/mediconnect-code/internal/model"
)

type (
	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		// GetPendingEvents returns up to limit pending events, oldest first.
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
		CountPending(ctx context.Context) (int, error)
		List(ctx context.Context, status model.OutboxStatus) ([]*model.OutboxEvent, error)
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
