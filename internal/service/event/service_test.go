package event

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apper-apps/mediconnect-code/internal/model"
	"github.com/apper-apps/mediconnect-code/internal/repository/memory"
)

func TestEventService_Emit(t *testing.T) {
	ctx := context.Background()
	svc := NewEventService(memory.NewOutboxRepository())

	require.NoError(t, svc.Emit(ctx, model.EventAppointmentCreated, model.AppointmentEvent{AppointmentID: 7}))

	events, err := svc.List(ctx, model.OutboxStatusPending)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventAppointmentCreated, events[0].EventType)

	var payload model.AppointmentEvent
	require.NoError(t, json.Unmarshal(events[0].Payload, &payload))
	assert.Equal(t, 7, payload.AppointmentID)
}

func TestEventService_EmitUnmarshalablePayload(t *testing.T) {
	svc := NewEventService(memory.NewOutboxRepository())
	err := svc.Emit(context.Background(), "x", map[string]interface{}{"fn": func() {}})
	assert.Error(t, err)
}
