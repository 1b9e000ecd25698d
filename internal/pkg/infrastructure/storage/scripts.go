package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/fermlab/sensor-master/pkg/types"
	"github.com/jackc/pgx/v5"
)

const scriptColumns = `id, sensor_id, script_content, script_version, description, uploaded_at`

func scanScript(row pgx.Row) (types.Script, error) {
	var sc types.Script

	err := row.Scan(&sc.ID, &sc.SensorID, &sc.ScriptContent, &sc.ScriptVersion, &sc.Description, &sc.UploadedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Script{}, ErrNoRows
		}
		return types.Script{}, err
	}

	return sc, nil
}

// AddScript stores a new script version for the sensor and makes it the
// current one, superseding any prior assignment. Earlier versions stay in
// the table for history.
func (s *Storage) AddScript(ctx context.Context, script types.Script) (types.Script, error) {
	if script.SensorID == "" {
		return types.Script{}, ErrNoID
	}

	args := pgx.NamedArgs{
		"sensor_id":      script.SensorID,
		"script_content": script.ScriptContent,
		"script_version": script.ScriptVersion,
		"description":    script.Description,
	}

	var created types.Script

	err := s.WithTx(ctx, func(ctx context.Context) error {
		_, err := s.querier(ctx).Exec(ctx, `
			UPDATE scripts SET is_current = FALSE
			WHERE sensor_id = @sensor_id AND is_current = TRUE
		`, args)
		if err != nil {
			return err
		}

		row := s.querier(ctx).QueryRow(ctx, fmt.Sprintf(`
			INSERT INTO scripts (sensor_id, script_content, script_version, description, is_current)
			VALUES (@sensor_id, @script_content, @script_version, @description, TRUE)
			RETURNING %s
		`, scriptColumns), args)

		created, err = scanScript(row)
		return err
	})
	if err != nil {
		return types.Script{}, err
	}

	return created, nil
}

func (s *Storage) GetCurrentScript(ctx context.Context, sensorID string) (types.Script, error) {
	row := s.querier(ctx).QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM scripts
		WHERE sensor_id = @sensor_id AND is_current = TRUE
	`, scriptColumns), pgx.NamedArgs{"sensor_id": sensorID})

	return scanScript(row)
}

func (s *Storage) GetScript(ctx context.Context, id int64) (types.Script, error) {
	row := s.querier(ctx).QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM scripts WHERE id = @id
	`, scriptColumns), pgx.NamedArgs{"id": id})

	return scanScript(row)
}

func (s *Storage) QueryScripts(ctx context.Context, conditions ...ConditionFunc) ([]types.Script, error) {
	condition := newCondition(conditions...)
	args := condition.NamedArgs()

	where := []string{"TRUE"}
	if condition.SensorID != "" {
		where = append(where, "sensor_id = @sensor_id")
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
		FROM scripts
		WHERE %s
		ORDER BY uploaded_at DESC, id DESC
		%s
	`, scriptColumns, joinAnd(where), offsetLimit)

	rows, err := s.querier(ctx).Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scripts := make([]types.Script, 0)

	for rows.Next() {
		var sc types.Script
		err = rows.Scan(&sc.ID, &sc.SensorID, &sc.ScriptContent, &sc.ScriptVersion, &sc.Description, &sc.UploadedAt)
		if err != nil {
			return nil, err
		}
		scripts = append(scripts, sc)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return scripts, nil
}

func (s *Storage) DeleteScript(ctx context.Context, id int64) error {
	tag, err := s.querier(ctx).Exec(ctx, `
		DELETE FROM scripts WHERE id = @id
	`, pgx.NamedArgs{"id": id})
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}

	return nil
}
