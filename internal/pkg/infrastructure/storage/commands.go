package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fermlab/sensor-master/pkg/types"
	"github.com/jackc/pgx/v5"
)

const commandColumns = `id, sensor_id, command_type, command_data, priority, status, created_at, delivered_at, completed_at, expires_at, result_message`

func scanCommand(row pgx.Row) (types.CommandQueueEntry, error) {
	var c types.CommandQueueEntry

	err := row.Scan(&c.ID, &c.SensorID, &c.CommandType, &c.CommandData, &c.Priority, &c.Status,
		&c.CreatedAt, &c.DeliveredAt, &c.CompletedAt, &c.ExpiresAt, &c.ResultMessage)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.CommandQueueEntry{}, ErrNoRows
		}
		return types.CommandQueueEntry{}, err
	}

	return c, nil
}

func (s *Storage) AddCommand(ctx context.Context, entry types.CommandQueueEntry) (types.CommandQueueEntry, error) {
	if entry.SensorID == "" {
		return types.CommandQueueEntry{}, ErrNoID
	}

	data := string(entry.CommandData)
	if data == "" {
		data = "{}"
	}

	var expiresAt *time.Time
	if entry.ExpiresAt != nil {
		t := entry.ExpiresAt.UTC()
		expiresAt = &t
	}

	row := s.querier(ctx).QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO command_queue (sensor_id, command_type, command_data, priority, status, expires_at)
		VALUES (@sensor_id, @command_type, @command_data, @priority, 'pending', @expires_at)
		RETURNING %s
	`, commandColumns), pgx.NamedArgs{
		"sensor_id":    entry.SensorID,
		"command_type": entry.CommandType,
		"command_data": data,
		"priority":     entry.Priority,
		"expires_at":   expiresAt,
	})

	return scanCommand(row)
}

func (s *Storage) GetCommand(ctx context.Context, id int64) (types.CommandQueueEntry, error) {
	row := s.querier(ctx).QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM command_queue WHERE id = @id
	`, commandColumns), pgx.NamedArgs{"id": id})

	return scanCommand(row)
}

// SelectCommandsForDelivery expires overdue entries for the device, then
// atomically moves up to limit pending entries to delivered in strict
// (priority, created_at) order and returns their snapshots. FOR UPDATE on the
// selection keeps two concurrent fetches for the same device from delivering
// the same entry twice.
func (s *Storage) SelectCommandsForDelivery(ctx context.Context, sensorID string, now time.Time, limit int) ([]types.CommandQueueEntry, error) {
	args := pgx.NamedArgs{
		"sensor_id": sensorID,
		"now":       now.UTC(),
		"limit":     limit,
	}

	_, err := s.querier(ctx).Exec(ctx, `
		UPDATE command_queue
		SET status = 'expired', completed_at = @now
		WHERE sensor_id = @sensor_id
			AND status IN ('pending', 'delivered')
			AND expires_at IS NOT NULL AND expires_at <= @now
	`, args)
	if err != nil {
		return nil, err
	}

	rows, err := s.querier(ctx).Query(ctx, fmt.Sprintf(`
		UPDATE command_queue
		SET status = 'delivered', delivered_at = @now
		WHERE id IN (
			SELECT id FROM command_queue
			WHERE sensor_id = @sensor_id AND status = 'pending'
			ORDER BY priority ASC, created_at ASC, id ASC
			LIMIT @limit
			FOR UPDATE
		)
		RETURNING %s
	`, commandColumns), args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]types.CommandQueueEntry, 0)

	for rows.Next() {
		var c types.CommandQueueEntry
		err = rows.Scan(&c.ID, &c.SensorID, &c.CommandType, &c.CommandData, &c.Priority, &c.Status,
			&c.CreatedAt, &c.DeliveredAt, &c.CompletedAt, &c.ExpiresAt, &c.ResultMessage)
		if err != nil {
			return nil, err
		}
		entries = append(entries, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// RETURNING does not guarantee row order; restore delivery order.
	sortCommands(entries)

	return entries, nil
}

func sortCommands(entries []types.CommandQueueEntry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && commandLess(entries[j], entries[j-1]); j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
}

func commandLess(a, b types.CommandQueueEntry) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// CompleteCommand transitions a delivered entry to completed or failed. The
// sensor id join ensures a device can only acknowledge its own commands.
// Unknown or foreign ids report ErrNoRows; entries already in a terminal
// state are left untouched and report ErrAlreadySettled so callers can treat
// a retried acknowledgement differently from a bogus one.
func (s *Storage) CompleteCommand(ctx context.Context, sensorID string, commandID int64, status, message string, now time.Time) error {
	tag, err := s.querier(ctx).Exec(ctx, `
		UPDATE command_queue
		SET status = @status, completed_at = @now, result_message = @message
		WHERE id = @id AND sensor_id = @sensor_id AND status = 'delivered'
	`, pgx.NamedArgs{
		"id":        commandID,
		"sensor_id": sensorID,
		"status":    status,
		"message":   message,
		"now":       now.UTC(),
	})
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		var current string

		err = s.querier(ctx).QueryRow(ctx, `
			SELECT status FROM command_queue
			WHERE id = @id AND sensor_id = @sensor_id
		`, pgx.NamedArgs{
			"id":        commandID,
			"sensor_id": sensorID,
		}).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNoRows
			}
			return err
		}

		if current == types.CommandCompleted || current == types.CommandFailed || current == types.CommandExpired {
			return ErrAlreadySettled
		}

		// the entry exists but was never delivered to the device
		return ErrNoRows
	}

	return nil
}

// ExpireOverdueCommands sweeps every device at once; used by the watchdog so
// expiry does not depend on a device ever fetching again.
func (s *Storage) ExpireOverdueCommands(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.querier(ctx).Exec(ctx, `
		UPDATE command_queue
		SET status = 'expired', completed_at = @now
		WHERE status IN ('pending', 'delivered')
			AND expires_at IS NOT NULL AND expires_at <= @now
	`, pgx.NamedArgs{"now": now.UTC()})
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

// DeleteTerminalCommands garbage-collects terminal entries whose completion
// predates the cutoff.
func (s *Storage) DeleteTerminalCommands(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.querier(ctx).Exec(ctx, `
		DELETE FROM command_queue
		WHERE status IN ('completed', 'failed', 'expired')
			AND completed_at IS NOT NULL AND completed_at < @cutoff
	`, pgx.NamedArgs{"cutoff": cutoff.UTC()})
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func (s *Storage) QueryCommands(ctx context.Context, conditions ...ConditionFunc) ([]types.CommandQueueEntry, error) {
	condition := newCondition(conditions...)
	args := condition.NamedArgs()

	where := []string{"TRUE"}
	if condition.SensorID != "" {
		where = append(where, "sensor_id = @sensor_id")
	}
	if condition.CommandStatus != "" {
		where = append(where, "status = @status")
	}

	offsetLimit := ""
	if condition.offset != nil {
		offsetLimit += "OFFSET @offset "
	}
	if condition.limit != nil {
		offsetLimit += "LIMIT @limit "
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM command_queue
		WHERE %s
		ORDER BY priority ASC, created_at ASC, id ASC
		%s
	`, commandColumns, joinAnd(where), offsetLimit)

	rows, err := s.querier(ctx).Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]types.CommandQueueEntry, 0)

	for rows.Next() {
		var c types.CommandQueueEntry
		err = rows.Scan(&c.ID, &c.SensorID, &c.CommandType, &c.CommandData, &c.Priority, &c.Status,
			&c.CreatedAt, &c.DeliveredAt, &c.CompletedAt, &c.ExpiresAt, &c.ResultMessage)
		if err != nil {
			return nil, err
		}
		entries = append(entries, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (s *Storage) DeleteCommand(ctx context.Context, id int64) error {
	tag, err := s.querier(ctx).Exec(ctx, `
		DELETE FROM command_queue WHERE id = @id
	`, pgx.NamedArgs{"id": id})
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}

	return nil
}
