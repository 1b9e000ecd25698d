package scripts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fermlab/sensor-master/internal/pkg/application/configs"
	"github.com/fermlab/sensor-master/internal/pkg/infrastructure/storage"
	"github.com/fermlab/sensor-master/pkg/types"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("sensor-master/scripts")

var ErrDeviceNotFound = fmt.Errorf("device not found")
var ErrScriptNotFound = fmt.Errorf("script not found")

// Thresholds classify how recently a device reported executing its script.
// Running defaults to two minutes (twice the default 60 second check-in
// interval), Recent to 15 minutes. Both are service-wide; a device's own
// configured polling interval does not change them.
type Thresholds struct {
	Running time.Duration
	Recent  time.Duration
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Running: 2 * time.Minute,
		Recent:  15 * time.Minute,
	}
}

// Payload is what a device receives when it fetches its current script.
type Payload struct {
	Available   bool
	ID          int64
	Name        string
	Version     string
	Content     string
	ContentHash string
}

type ScriptRegistry interface {
	Assign(ctx context.Context, script types.Script) (types.Script, error)
	Fetch(ctx context.Context, sensorID string) (Payload, error)
	ReportExecuted(ctx context.Context, sensorID, scriptVersion string, scriptID int64, now time.Time) error

	Get(ctx context.Context, id int64) (types.Script, error)
	Query(ctx context.Context, params map[string][]string) ([]types.Script, error)
	Delete(ctx context.Context, id int64) error

	ExecutionStatus(device types.Device, now time.Time) string
}

//go:generate moq -rm -out scriptstorage_mock.go . ScriptStorage
type ScriptStorage interface {
	GetDevice(ctx context.Context, sensorID string) (types.Device, error)
	AddScript(ctx context.Context, script types.Script) (types.Script, error)
	GetCurrentScript(ctx context.Context, sensorID string) (types.Script, error)
	GetScript(ctx context.Context, id int64) (types.Script, error)
	QueryScripts(ctx context.Context, conditions ...storage.ConditionFunc) ([]types.Script, error)
	SetScriptReport(ctx context.Context, sensorID, scriptVersion string, scriptID int64, executedAt time.Time) error
	DeleteScript(ctx context.Context, id int64) error
}

type registry struct {
	storage    ScriptStorage
	thresholds Thresholds
}

func New(s ScriptStorage, thresholds Thresholds) ScriptRegistry {
	return &registry{
		storage:    s,
		thresholds: thresholds,
	}
}

// Assign stores a new script version and makes it the device's current one.
func (r *registry) Assign(ctx context.Context, script types.Script) (types.Script, error) {
	ctx, span := tracer.Start(ctx, "assign-script")
	defer func() { span.End() }()

	if script.ScriptVersion == "" {
		return types.Script{}, fmt.Errorf("script version is required")
	}

	_, err := r.storage.GetDevice(ctx, script.SensorID)
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return types.Script{}, ErrDeviceNotFound
		}
		return types.Script{}, err
	}

	return r.storage.AddScript(ctx, script)
}

// Fetch returns the currently assigned script. A device with no assignment
// gets Available=false, never an error, so firmware can poll unconditionally.
func (r *registry) Fetch(ctx context.Context, sensorID string) (Payload, error) {
	ctx, span := tracer.Start(ctx, "fetch-script")
	defer func() { span.End() }()

	_, err := r.storage.GetDevice(ctx, sensorID)
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return Payload{}, ErrDeviceNotFound
		}
		return Payload{}, err
	}

	script, err := r.storage.GetCurrentScript(ctx, sensorID)
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return Payload{Available: false}, nil
		}
		return Payload{}, err
	}

	name := scriptName(script)

	return Payload{
		Available:   true,
		ID:          script.ID,
		Name:        name,
		Version:     script.ScriptVersion,
		Content:     script.ScriptContent,
		ContentHash: configs.Hash([]byte(script.ScriptContent)),
	}, nil
}

// scriptName pulls the name out of the action program when present; the
// content stays opaque otherwise.
func scriptName(script types.Script) string {
	envelope := struct {
		Name string `json:"name"`
	}{}

	if err := json.Unmarshal([]byte(script.ScriptContent), &envelope); err == nil && envelope.Name != "" {
		return envelope.Name
	}

	if script.Description != "" {
		return script.Description
	}

	return fmt.Sprintf("script-%d", script.ID)
}

// ReportExecuted records device-reported execution evidence. The reported
// version is authoritative and never second-guessed against the assignment.
func (r *registry) ReportExecuted(ctx context.Context, sensorID, scriptVersion string, scriptID int64, now time.Time) error {
	ctx, span := tracer.Start(ctx, "report-executed")
	defer func() { span.End() }()

	err := r.storage.SetScriptReport(ctx, sensorID, scriptVersion, scriptID, now)
	if errors.Is(err, storage.ErrNoRows) {
		return ErrDeviceNotFound
	}

	return err
}

func (r *registry) Get(ctx context.Context, id int64) (types.Script, error) {
	script, err := r.storage.GetScript(ctx, id)
	if errors.Is(err, storage.ErrNoRows) {
		return types.Script{}, ErrScriptNotFound
	}
	return script, err
}

func (r *registry) Query(ctx context.Context, params map[string][]string) ([]types.Script, error) {
	conditions := make([]storage.ConditionFunc, 0)

	for k, v := range params {
		switch strings.ToLower(k) {
		case "sensor_id":
			conditions = append(conditions, storage.WithSensorID(v[0]))
		case "limit":
			limit, _ := strconv.Atoi(v[0])
			conditions = append(conditions, storage.WithLimit(limit))
		case "offset":
			offset, _ := strconv.Atoi(v[0])
			conditions = append(conditions, storage.WithOffset(offset))
		}
	}

	return r.storage.QueryScripts(ctx, conditions...)
}

func (r *registry) Delete(ctx context.Context, id int64) error {
	err := r.storage.DeleteScript(ctx, id)
	if errors.Is(err, storage.ErrNoRows) {
		return ErrScriptNotFound
	}
	return err
}

// ExecutionStatus classifies a device's script activity from its last
// reported execution.
func (r *registry) ExecutionStatus(device types.Device, now time.Time) string {
	return ClassifyExecution(device, now, r.thresholds)
}

func ClassifyExecution(device types.Device, now time.Time, thresholds Thresholds) string {
	if device.LastScriptExecution.IsZero() {
		return types.ExecutionIdle
	}

	since := now.Sub(device.LastScriptExecution)

	if since <= thresholds.Running {
		return types.ExecutionRunning
	}

	if since <= thresholds.Recent {
		return types.ExecutionRecent
	}

	return types.ExecutionIdle
}
