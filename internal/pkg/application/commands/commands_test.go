package commands

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/fermlab/sensor-master/internal/pkg/infrastructure/storage"
	"github.com/fermlab/sensor-master/pkg/types"
	"github.com/matryer/is"
)

// fakeQueueStore backs the storage mock with queue semantics so the service
// can be exercised without a database.
type fakeQueueStore struct {
	nextID  int64
	entries map[int64]*types.CommandQueueEntry
}

func newFakeQueueStore() *fakeQueueStore {
	return &fakeQueueStore{nextID: 1, entries: map[int64]*types.CommandQueueEntry{}}
}

func (f *fakeQueueStore) add(entry types.CommandQueueEntry, createdAt time.Time) types.CommandQueueEntry {
	entry.ID = f.nextID
	entry.Status = types.CommandPending
	entry.CreatedAt = createdAt
	f.nextID++
	f.entries[entry.ID] = &entry
	return entry
}

func (f *fakeQueueStore) selectForDelivery(sensorID string, now time.Time, limit int) []types.CommandQueueEntry {
	for _, e := range f.entries {
		if e.SensorID == sensorID && !e.IsTerminal() && e.ExpiresAt != nil && !e.ExpiresAt.After(now) {
			e.Status = types.CommandExpired
		}
	}

	selected := make([]*types.CommandQueueEntry, 0)
	for _, e := range f.entries {
		if e.SensorID == sensorID && e.Status == types.CommandPending {
			selected = append(selected, e)
		}
	}

	sort.Slice(selected, func(i, j int) bool {
		a, b := selected[i], selected[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	if len(selected) > limit {
		selected = selected[:limit]
	}

	out := make([]types.CommandQueueEntry, 0, len(selected))
	for _, e := range selected {
		e.Status = types.CommandDelivered
		d := now
		e.DeliveredAt = &d
		out = append(out, *e)
	}

	return out
}

func (f *fakeQueueStore) complete(sensorID string, id int64, status, message string, now time.Time) error {
	e, ok := f.entries[id]
	if !ok || e.SensorID != sensorID {
		return storage.ErrNoRows
	}
	if e.IsTerminal() {
		return storage.ErrAlreadySettled
	}
	if e.Status != types.CommandDelivered {
		return storage.ErrNoRows
	}
	e.Status = status
	e.CompletedAt = &now
	e.ResultMessage = message
	return nil
}

func (f *fakeQueueStore) pendingOrDelivered(sensorID string) int {
	n := 0
	for _, e := range f.entries {
		if e.SensorID == sensorID && !e.IsTerminal() {
			n++
		}
	}
	return n
}

func testSetup(t *testing.T) (*is.I, context.Context, *fakeQueueStore, CommandQueue) {
	is := is.New(t)
	ctx := context.Background()

	fake := newFakeQueueStore()

	store := &CommandStorageMock{
		AddCommandFunc: func(ctx context.Context, entry types.CommandQueueEntry) (types.CommandQueueEntry, error) {
			return fake.add(entry, time.Now()), nil
		},
		SelectCommandsForDeliveryFunc: func(ctx context.Context, sensorID string, now time.Time, limit int) ([]types.CommandQueueEntry, error) {
			return fake.selectForDelivery(sensorID, now, limit), nil
		},
		CompleteCommandFunc: func(ctx context.Context, sensorID string, commandID int64, status string, message string, now time.Time) error {
			return fake.complete(sensorID, commandID, status, message, now)
		},
		GetCommandFunc: func(ctx context.Context, id int64) (types.CommandQueueEntry, error) {
			if e, ok := fake.entries[id]; ok {
				return *e, nil
			}
			return types.CommandQueueEntry{}, storage.ErrNoRows
		},
	}

	msgCtx := &messaging.MsgContextMock{
		PublishOnTopicFunc: func(ctx context.Context, message messaging.TopicMessage) error {
			return nil
		},
	}

	return is, ctx, fake, New(store, msgCtx, nil)
}

func TestDequeueReturnsCommandsInPriorityOrder(t *testing.T) {
	is, ctx, _, svc := testSetup(t)

	now := time.Now()

	_, err := svc.Enqueue(ctx, types.CommandQueueEntry{SensorID: "esp32_001", CommandType: "update_config", Priority: 5})
	is.NoErr(err)
	_, err = svc.Enqueue(ctx, types.CommandQueueEntry{SensorID: "esp32_001", CommandType: "restart", Priority: 1})
	is.NoErr(err)

	delivered, err := svc.Dequeue(ctx, "esp32_001", now, DeliveryLimit)
	is.NoErr(err)
	is.Equal(2, len(delivered))
	is.Equal("restart", delivered[0].CommandType)
	is.Equal("update_config", delivered[1].CommandType)
	is.Equal(types.CommandDelivered, delivered[0].Status)
}

func TestDequeueWithNothingPending(t *testing.T) {
	is, ctx, _, svc := testSetup(t)

	delivered, err := svc.Dequeue(ctx, "esp32_001", time.Now(), DeliveryLimit)
	is.NoErr(err)
	is.Equal(0, len(delivered))
}

func TestDequeueExpiresOverdueEntries(t *testing.T) {
	is, ctx, fake, svc := testSetup(t)

	now := time.Now()
	expires := now // expires_at equal to now counts as expired

	_, err := svc.Enqueue(ctx, types.CommandQueueEntry{SensorID: "esp32_001", CommandType: "restart", ExpiresAt: &expires})
	is.NoErr(err)

	delivered, err := svc.Dequeue(ctx, "esp32_001", now, DeliveryLimit)
	is.NoErr(err)
	is.Equal(0, len(delivered))
	is.Equal(types.CommandExpired, fake.entries[1].Status)
}

func TestAcknowledgeCompletesDeliveredCommand(t *testing.T) {
	is, ctx, fake, svc := testSetup(t)

	now := time.Now()

	entry, err := svc.Enqueue(ctx, types.CommandQueueEntry{SensorID: "esp32_001", CommandType: "restart", Priority: 1})
	is.NoErr(err)

	_, err = svc.Dequeue(ctx, "esp32_001", now, DeliveryLimit)
	is.NoErr(err)

	err = svc.Acknowledge(ctx, "esp32_001", entry.ID, ResultSuccess, "restarted", now)
	is.NoErr(err)
	is.Equal(types.CommandCompleted, fake.entries[entry.ID].Status)
	is.Equal(0, fake.pendingOrDelivered("esp32_001"))

	// a second acknowledgement of the same id is a no-op with success
	// indication
	err = svc.Acknowledge(ctx, "esp32_001", entry.ID, ResultSuccess, "restarted", now)
	is.NoErr(err)
	is.Equal(types.CommandCompleted, fake.entries[entry.ID].Status)
}

func TestAcknowledgeRetryDoesNotFlipTerminalState(t *testing.T) {
	is, ctx, fake, svc := testSetup(t)

	now := time.Now()

	entry, err := svc.Enqueue(ctx, types.CommandQueueEntry{SensorID: "esp32_001", CommandType: "restart"})
	is.NoErr(err)

	_, err = svc.Dequeue(ctx, "esp32_001", now, DeliveryLimit)
	is.NoErr(err)

	err = svc.Acknowledge(ctx, "esp32_001", entry.ID, ResultSuccess, "restarted", now)
	is.NoErr(err)

	// a retry that flips the result is still a no-op once settled
	err = svc.Acknowledge(ctx, "esp32_001", entry.ID, ResultError, "changed my mind", now)
	is.NoErr(err)
	is.Equal(types.CommandCompleted, fake.entries[entry.ID].Status)
	is.Equal("restarted", fake.entries[entry.ID].ResultMessage)
}

func TestAcknowledgeForeignCommand(t *testing.T) {
	is, ctx, _, svc := testSetup(t)

	now := time.Now()

	entry, err := svc.Enqueue(ctx, types.CommandQueueEntry{SensorID: "esp32_001", CommandType: "restart"})
	is.NoErr(err)

	_, err = svc.Dequeue(ctx, "esp32_001", now, DeliveryLimit)
	is.NoErr(err)

	err = svc.Acknowledge(ctx, "esp32_999", entry.ID, ResultSuccess, "", now)
	is.True(errors.Is(err, ErrCommandNotFound))
}

func TestAcknowledgeErrorResultFailsCommand(t *testing.T) {
	is, ctx, fake, svc := testSetup(t)

	now := time.Now()

	entry, err := svc.Enqueue(ctx, types.CommandQueueEntry{SensorID: "esp32_001", CommandType: "set_temperature"})
	is.NoErr(err)

	_, err = svc.Dequeue(ctx, "esp32_001", now, DeliveryLimit)
	is.NoErr(err)

	err = svc.Acknowledge(ctx, "esp32_001", entry.ID, ResultError, "sensor fault", now)
	is.NoErr(err)
	is.Equal(types.CommandFailed, fake.entries[entry.ID].Status)
	is.Equal("sensor fault", fake.entries[entry.ID].ResultMessage)
}

func TestDequeueClampsLimit(t *testing.T) {
	is, ctx, _, svc := testSetup(t)

	now := time.Now()

	for i := 0; i < DeliveryLimit+4; i++ {
		_, err := svc.Enqueue(ctx, types.CommandQueueEntry{SensorID: "esp32_001", CommandType: "log", Priority: 100})
		is.NoErr(err)
	}

	delivered, err := svc.Dequeue(ctx, "esp32_001", now, 1000)
	is.NoErr(err)
	is.Equal(DeliveryLimit, len(delivered))
}
