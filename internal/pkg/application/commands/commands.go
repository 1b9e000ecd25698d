package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/fermlab/sensor-master/internal/pkg/application/events"
	"github.com/fermlab/sensor-master/internal/pkg/infrastructure/storage"
	"github.com/fermlab/sensor-master/pkg/types"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("sensor-master/commands")

var ErrCommandNotFound = fmt.Errorf("command not found")

// DeliveryLimit bounds how many commands a single fetch may drain.
const DeliveryLimit = 16

const (
	ResultSuccess = "success"
	ResultError   = "error"
)

type CommandQueue interface {
	Enqueue(ctx context.Context, entry types.CommandQueueEntry) (types.CommandQueueEntry, error)
	Dequeue(ctx context.Context, sensorID string, now time.Time, limit int) ([]types.CommandQueueEntry, error)
	Acknowledge(ctx context.Context, sensorID string, commandID int64, result, message string, now time.Time) error

	Get(ctx context.Context, id int64) (types.CommandQueueEntry, error)
	Query(ctx context.Context, params map[string][]string) ([]types.CommandQueueEntry, error)
	Delete(ctx context.Context, id int64) error

	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
	GC(ctx context.Context, retention time.Duration, now time.Time) (int64, error)
}

//go:generate moq -rm -out commandstorage_mock.go . CommandStorage
type CommandStorage interface {
	AddCommand(ctx context.Context, entry types.CommandQueueEntry) (types.CommandQueueEntry, error)
	GetCommand(ctx context.Context, id int64) (types.CommandQueueEntry, error)
	QueryCommands(ctx context.Context, conditions ...storage.ConditionFunc) ([]types.CommandQueueEntry, error)
	SelectCommandsForDelivery(ctx context.Context, sensorID string, now time.Time, limit int) ([]types.CommandQueueEntry, error)
	CompleteCommand(ctx context.Context, sensorID string, commandID int64, status, message string, now time.Time) error
	ExpireOverdueCommands(ctx context.Context, now time.Time) (int64, error)
	DeleteTerminalCommands(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteCommand(ctx context.Context, id int64) error
}

type queue struct {
	storage   CommandStorage
	messenger messaging.MsgContext
	notifier  events.EventSender
}

func New(s CommandStorage, messenger messaging.MsgContext, notifier events.EventSender) CommandQueue {
	return &queue{
		storage:   s,
		messenger: messenger,
		notifier:  notifier,
	}
}

func (q *queue) Enqueue(ctx context.Context, entry types.CommandQueueEntry) (types.CommandQueueEntry, error) {
	ctx, span := tracer.Start(ctx, "enqueue-command")
	defer func() { span.End() }()

	if entry.CommandType == "" {
		return types.CommandQueueEntry{}, fmt.Errorf("command type is required")
	}

	return q.storage.AddCommand(ctx, entry)
}

// Dequeue expires overdue entries, then drains up to limit pending commands
// in strict (priority, created_at) order, marking each delivered. All of it
// happens against the caller's transaction, so a fetch either delivers every
// selected entry or none of them.
func (q *queue) Dequeue(ctx context.Context, sensorID string, now time.Time, limit int) ([]types.CommandQueueEntry, error) {
	ctx, span := tracer.Start(ctx, "dequeue-commands")
	defer func() { span.End() }()

	if limit <= 0 || limit > DeliveryLimit {
		limit = DeliveryLimit
	}

	return q.storage.SelectCommandsForDelivery(ctx, sensorID, now, limit)
}

// Acknowledge settles a delivered command. An entry that is already in a
// terminal state is a no-op with success indication, so a device retrying an
// acknowledgement after a lost response gets the same answer as the first
// attempt. Unknown or foreign ids report ErrCommandNotFound without failing
// anything else.
func (q *queue) Acknowledge(ctx context.Context, sensorID string, commandID int64, result, message string, now time.Time) error {
	ctx, span := tracer.Start(ctx, "acknowledge-command")
	defer func() { span.End() }()

	log := logging.GetFromContext(ctx)

	status := types.CommandCompleted
	if result == ResultError {
		status = types.CommandFailed
	}

	err := q.storage.CompleteCommand(ctx, sensorID, commandID, status, message, now)
	if err != nil {
		if errors.Is(err, storage.ErrAlreadySettled) {
			// retried acknowledgement; the first one already published
			return nil
		}
		if errors.Is(err, storage.ErrNoRows) {
			return ErrCommandNotFound
		}
		return err
	}

	if q.messenger != nil {
		entry, err := q.storage.GetCommand(ctx, commandID)
		if err == nil {
			err = q.messenger.PublishOnTopic(ctx, &types.CommandAcknowledged{
				SensorID:    sensorID,
				CommandID:   commandID,
				CommandType: entry.CommandType,
				Result:      result,
				Message:     message,
				Timestamp:   now.UTC(),
			})
		}
		if err != nil {
			log.Error("failed to publish command completion", "command_id", commandID, "err", err.Error())
		}
	}

	if result == ResultError && q.notifier != nil {
		err := q.notifier.Send(ctx, "sensormaster.commandfailed", sensorID, map[string]any{
			"sensor_id":  sensorID,
			"command_id": commandID,
			"message":    message,
		})
		if err != nil {
			log.Error("failed to notify subscribers about command failure", "command_id", commandID, "err", err.Error())
		}
	}

	return nil
}

func (q *queue) Get(ctx context.Context, id int64) (types.CommandQueueEntry, error) {
	entry, err := q.storage.GetCommand(ctx, id)
	if errors.Is(err, storage.ErrNoRows) {
		return types.CommandQueueEntry{}, ErrCommandNotFound
	}
	return entry, err
}

func (q *queue) Query(ctx context.Context, params map[string][]string) ([]types.CommandQueueEntry, error) {
	conditions := make([]storage.ConditionFunc, 0)

	for k, v := range params {
		switch strings.ToLower(k) {
		case "sensor_id":
			conditions = append(conditions, storage.WithSensorID(v[0]))
		case "status":
			conditions = append(conditions, storage.WithCommandStatus(v[0]))
		case "limit":
			limit, _ := strconv.Atoi(v[0])
			conditions = append(conditions, storage.WithLimit(limit))
		case "offset":
			offset, _ := strconv.Atoi(v[0])
			conditions = append(conditions, storage.WithOffset(offset))
		}
	}

	return q.storage.QueryCommands(ctx, conditions...)
}

func (q *queue) Delete(ctx context.Context, id int64) error {
	err := q.storage.DeleteCommand(ctx, id)
	if errors.Is(err, storage.ErrNoRows) {
		return ErrCommandNotFound
	}
	return err
}

func (q *queue) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	return q.storage.ExpireOverdueCommands(ctx, now)
}

func (q *queue) GC(ctx context.Context, retention time.Duration, now time.Time) (int64, error) {
	return q.storage.DeleteTerminalCommands(ctx, now.Add(-retention))
}
