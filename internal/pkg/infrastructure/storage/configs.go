package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/fermlab/sensor-master/pkg/types"
	"github.com/jackc/pgx/v5"
)

const templateColumns = `id, config_name, config_data, priority, is_active, version, sensor_id, sensor_type, created_on, modified_on`

func scanTemplate(row pgx.Row) (types.ConfigTemplate, error) {
	var t types.ConfigTemplate

	err := row.Scan(&t.ID, &t.Name, &t.ConfigData, &t.Priority, &t.IsActive, &t.Version,
		&t.SensorID, &t.SensorType, &t.CreatedOn, &t.ModifiedOn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.ConfigTemplate{}, ErrNoRows
		}
		return types.ConfigTemplate{}, err
	}

	return t, nil
}

func (s *Storage) AddConfigTemplate(ctx context.Context, template types.ConfigTemplate) (types.ConfigTemplate, error) {
	args := pgx.NamedArgs{
		"config_name": template.Name,
		"config_data": string(template.ConfigData),
		"priority":    template.Priority,
		"is_active":   template.IsActive,
		"sensor_id":   template.SensorID,
		"sensor_type": template.SensorType,
	}

	row := s.querier(ctx).QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO config_templates (config_name, config_data, priority, is_active, sensor_id, sensor_type)
		VALUES (@config_name, @config_data, @priority, @is_active, @sensor_id, @sensor_type)
		RETURNING %s
	`, templateColumns), args)

	return scanTemplate(row)
}

// UpdateConfigTemplate replaces the mutable fields of an existing template
// and bumps its version.
func (s *Storage) UpdateConfigTemplate(ctx context.Context, template types.ConfigTemplate) (types.ConfigTemplate, error) {
	if template.ID == 0 {
		return types.ConfigTemplate{}, ErrNoID
	}

	args := pgx.NamedArgs{
		"id":          template.ID,
		"config_name": template.Name,
		"config_data": string(template.ConfigData),
		"priority":    template.Priority,
		"is_active":   template.IsActive,
		"sensor_id":   template.SensorID,
		"sensor_type": template.SensorType,
	}

	row := s.querier(ctx).QueryRow(ctx, fmt.Sprintf(`
		UPDATE config_templates
		SET config_name = @config_name,
			config_data = @config_data,
			priority = @priority,
			is_active = @is_active,
			sensor_id = @sensor_id,
			sensor_type = @sensor_type,
			version = version + 1,
			modified_on = CURRENT_TIMESTAMP
		WHERE id = @id
		RETURNING %s
	`, templateColumns), args)

	return scanTemplate(row)
}

func (s *Storage) SetConfigTemplateActive(ctx context.Context, id int64, active bool) error {
	tag, err := s.querier(ctx).Exec(ctx, `
		UPDATE config_templates
		SET is_active = @is_active, modified_on = CURRENT_TIMESTAMP
		WHERE id = @id
	`, pgx.NamedArgs{"id": id, "is_active": active})
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}

	return nil
}

func (s *Storage) GetConfigTemplate(ctx context.Context, id int64) (types.ConfigTemplate, error) {
	row := s.querier(ctx).QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM config_templates WHERE id = @id
	`, templateColumns), pgx.NamedArgs{"id": id})

	return scanTemplate(row)
}

// QueryConfigTemplates lists templates. With WithSensorID/WithSensorType the
// targeting column must equal the given value; WithDefaultScope matches the
// untargeted tier. Rows come back in resolution order: priority ascending,
// then version and id descending, which makes the first row the resolver's
// deterministic winner.
func (s *Storage) QueryConfigTemplates(ctx context.Context, conditions ...ConditionFunc) ([]types.ConfigTemplate, error) {
	condition := newCondition(conditions...)
	args := condition.NamedArgs()

	where := []string{"TRUE"}
	if condition.SensorID != "" {
		where = append(where, "sensor_id = @sensor_id")
	}
	if condition.SensorType != "" {
		where = append(where, "sensor_id IS NULL AND sensor_type = @sensor_type")
	}
	if condition.DefaultScope {
		where = append(where, "sensor_id IS NULL AND sensor_type IS NULL")
	}
	if condition.ActiveOnly {
		where = append(where, "is_active = TRUE")
	}
	if condition.Search != "" {
		where = append(where, "config_name ILIKE @search")
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
		FROM config_templates
		WHERE %s
		ORDER BY priority ASC, version DESC, id DESC
		%s
	`, templateColumns, joinAnd(where), offsetLimit)

	rows, err := s.querier(ctx).Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates := make([]types.ConfigTemplate, 0)

	for rows.Next() {
		var t types.ConfigTemplate

		err = rows.Scan(&t.ID, &t.Name, &t.ConfigData, &t.Priority, &t.IsActive, &t.Version,
			&t.SensorID, &t.SensorType, &t.CreatedOn, &t.ModifiedOn)
		if err != nil {
			return nil, err
		}

		templates = append(templates, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return templates, nil
}

func (s *Storage) DeleteConfigTemplate(ctx context.Context, id int64) error {
	tag, err := s.querier(ctx).Exec(ctx, `
		DELETE FROM config_templates WHERE id = @id
	`, pgx.NamedArgs{"id": id})
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}

	return nil
}
