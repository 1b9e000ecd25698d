package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fermlab/sensor-master/pkg/types"
	"github.com/jackc/pgx/v5"
)

// CreateOrUpdateDevice upserts a device on its sensor id. Descriptive fields
// take the values of the latest registration; last_check_in only ever moves
// forward, so concurrent check-ins keep the monotonic max.
func (s *Storage) CreateOrUpdateDevice(ctx context.Context, device types.Device) error {
	if device.SensorID == "" {
		return ErrNoID
	}

	capabilities, _ := json.Marshal(device.Capabilities)
	if device.Capabilities == nil {
		capabilities = []byte("[]")
	}

	args := pgx.NamedArgs{
		"sensor_id":        device.SensorID,
		"sensor_type":      device.SensorType,
		"sensor_name":      device.SensorName,
		"hardware_info":    device.HardwareInfo,
		"firmware_version": device.FirmwareVersion,
		"ip_address":       device.IPAddress,
		"mac_address":      device.MACAddress,
		"capabilities":     string(capabilities),
		"last_check_in":    device.LastCheckIn.UTC(),
	}

	_, err := s.querier(ctx).Exec(ctx, `
		INSERT INTO devices (sensor_id, sensor_type, sensor_name, hardware_info, firmware_version, ip_address, mac_address, capabilities, last_check_in)
		VALUES (@sensor_id, @sensor_type, @sensor_name, @hardware_info, @firmware_version, @ip_address, @mac_address, @capabilities, @last_check_in)
		ON CONFLICT (sensor_id) DO UPDATE
		SET sensor_type = EXCLUDED.sensor_type,
			sensor_name = EXCLUDED.sensor_name,
			hardware_info = EXCLUDED.hardware_info,
			firmware_version = EXCLUDED.firmware_version,
			ip_address = EXCLUDED.ip_address,
			mac_address = EXCLUDED.mac_address,
			capabilities = EXCLUDED.capabilities,
			last_check_in = GREATEST(devices.last_check_in, EXCLUDED.last_check_in),
			modified_on = CURRENT_TIMESTAMP
	`, args)
	if err != nil {
		return err
	}

	return nil
}

// TouchDevice advances last_check_in to the monotonic max of its current
// value and ts.
func (s *Storage) TouchDevice(ctx context.Context, sensorID string, ts time.Time) error {
	tag, err := s.querier(ctx).Exec(ctx, `
		UPDATE devices
		SET last_check_in = GREATEST(last_check_in, @ts), modified_on = CURRENT_TIMESTAMP
		WHERE sensor_id = @sensor_id
	`, pgx.NamedArgs{
		"sensor_id": sensorID,
		"ts":        ts.UTC(),
	})
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}

	return nil
}

func (s *Storage) SetDeliveredConfigHash(ctx context.Context, sensorID, hash string) error {
	tag, err := s.querier(ctx).Exec(ctx, `
		UPDATE devices
		SET last_config_hash = @hash, modified_on = CURRENT_TIMESTAMP
		WHERE sensor_id = @sensor_id
	`, pgx.NamedArgs{
		"sensor_id": sensorID,
		"hash":      hash,
	})
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}

	return nil
}

// SetScriptReport records what the device says it is running. The reported
// version is authoritative evidence and is stored as-is.
func (s *Storage) SetScriptReport(ctx context.Context, sensorID, scriptVersion string, scriptID int64, executedAt time.Time) error {
	tag, err := s.querier(ctx).Exec(ctx, `
		UPDATE devices
		SET last_script_execution = GREATEST(last_script_execution, @executed_at),
			last_reported_script_version = CASE WHEN @script_version <> '' THEN @script_version ELSE last_reported_script_version END,
			last_reported_script_id = CASE WHEN @script_id > 0 THEN @script_id ELSE last_reported_script_id END,
			modified_on = CURRENT_TIMESTAMP
		WHERE sensor_id = @sensor_id
	`, pgx.NamedArgs{
		"sensor_id":      sensorID,
		"script_version": scriptVersion,
		"script_id":      scriptID,
		"executed_at":    executedAt.UTC(),
	})
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}

	return nil
}

const deviceColumns = `sensor_id, sensor_type, sensor_name, hardware_info, firmware_version, ip_address, mac_address, capabilities,
	COALESCE(last_check_in, 'epoch'::timestamptz), last_config_hash,
	COALESCE(last_script_execution, 'epoch'::timestamptz), last_reported_script_version, last_reported_script_id,
	created_on, modified_on`

func scanDevice(row pgx.Row) (types.Device, error) {
	var d types.Device
	var capabilities json.RawMessage

	err := row.Scan(&d.SensorID, &d.SensorType, &d.SensorName, &d.HardwareInfo, &d.FirmwareVersion,
		&d.IPAddress, &d.MACAddress, &capabilities, &d.LastCheckIn, &d.LastConfigHashDelivered,
		&d.LastScriptExecution, &d.LastReportedScriptVersion, &d.LastReportedScriptID,
		&d.CreatedOn, &d.ModifiedOn)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return types.Device{}, ErrNoRows
		}
		return types.Device{}, err
	}

	err = json.Unmarshal(capabilities, &d.Capabilities)
	if err != nil {
		return types.Device{}, err
	}

	return d, nil
}

func (s *Storage) GetDevice(ctx context.Context, sensorID string) (types.Device, error) {
	row := s.querier(ctx).QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM devices WHERE sensor_id = @sensor_id
	`, deviceColumns), pgx.NamedArgs{"sensor_id": sensorID})

	return scanDevice(row)
}

func (s *Storage) QueryDevices(ctx context.Context, conditions ...ConditionFunc) (types.Collection[types.Device], error) {
	condition := newCondition(conditions...)
	args := condition.NamedArgs()

	where := []string{"TRUE"}
	if condition.SensorID != "" {
		where = append(where, "sensor_id = @sensor_id")
	}
	if condition.SensorType != "" {
		where = append(where, "sensor_type = @sensor_type")
	}
	if condition.Search != "" {
		where = append(where, "(sensor_id ILIKE @search OR sensor_name ILIKE @search)")
	}
	if !condition.CheckInBefore.IsZero() {
		where = append(where, "(last_check_in IS NULL OR last_check_in < @check_in_before)")
	}

	offsetLimit := ""
	if condition.offset != nil {
		offsetLimit += "OFFSET @offset "
	}
	if condition.limit != nil {
		offsetLimit += "LIMIT @limit "
	}

	query := fmt.Sprintf(`
		SELECT %s, count(*) OVER () AS total
		FROM devices
		WHERE %s
		ORDER BY %s %s
		%s
	`, deviceColumns, joinAnd(where), condition.SortBy(), condition.SortOrder(), offsetLimit)

	rows, err := s.querier(ctx).Query(ctx, query, args)
	if err != nil {
		return types.Collection[types.Device]{}, err
	}
	defer rows.Close()

	devices := make([]types.Device, 0)
	var total int64

	for rows.Next() {
		var d types.Device
		var capabilities json.RawMessage

		err = rows.Scan(&d.SensorID, &d.SensorType, &d.SensorName, &d.HardwareInfo, &d.FirmwareVersion,
			&d.IPAddress, &d.MACAddress, &capabilities, &d.LastCheckIn, &d.LastConfigHashDelivered,
			&d.LastScriptExecution, &d.LastReportedScriptVersion, &d.LastReportedScriptID,
			&d.CreatedOn, &d.ModifiedOn, &total)
		if err != nil {
			return types.Collection[types.Device]{}, err
		}

		err = json.Unmarshal(capabilities, &d.Capabilities)
		if err != nil {
			return types.Collection[types.Device]{}, err
		}

		devices = append(devices, d)
	}

	if err := rows.Err(); err != nil {
		return types.Collection[types.Device]{}, err
	}

	return types.Collection[types.Device]{
		Data:       devices,
		Count:      uint64(len(devices)),
		Offset:     uint64(condition.Offset()),
		Limit:      uint64(condition.Limit()),
		TotalCount: uint64(total),
	}, nil
}

// DeleteDevice removes the device row. Commands and scripts referencing it
// are removed by the schema's cascading foreign keys in the same transaction.
func (s *Storage) DeleteDevice(ctx context.Context, sensorID string) error {
	tag, err := s.querier(ctx).Exec(ctx, `
		DELETE FROM devices WHERE sensor_id = @sensor_id
	`, pgx.NamedArgs{"sensor_id": sensorID})
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}

	return nil
}

func joinAnd(parts []string) string {
	out := parts[0]
	for _, p := range parts[1:] {
		out += " AND " + p
	}
	return out
}
