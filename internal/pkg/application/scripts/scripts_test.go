package scripts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fermlab/sensor-master/internal/pkg/infrastructure/storage"
	"github.com/fermlab/sensor-master/pkg/types"
	"github.com/matryer/is"
)

const actionProgram = `{"name":"fermenter-cycle","version":"1.0.0","actions":[{"type":"read_temperature","pin":4},{"type":"delay","ms":1000},{"type":"log","message":"cycle done"}]}`

func TestAssignSupersedesPriorScript(t *testing.T) {
	is, ctx, store := testSetup(t)

	current := map[string]types.Script{}
	nextID := int64(1)

	store.GetDeviceFunc = func(ctx context.Context, sensorID string) (types.Device, error) {
		return types.Device{SensorID: sensorID}, nil
	}
	store.AddScriptFunc = func(ctx context.Context, script types.Script) (types.Script, error) {
		script.ID = nextID
		nextID++
		current[script.SensorID] = script
		return script, nil
	}
	store.GetCurrentScriptFunc = func(ctx context.Context, sensorID string) (types.Script, error) {
		if s, ok := current[sensorID]; ok {
			return s, nil
		}
		return types.Script{}, storage.ErrNoRows
	}

	svc := New(store, DefaultThresholds())

	_, err := svc.Assign(ctx, types.Script{SensorID: "esp32_001", ScriptContent: actionProgram, ScriptVersion: "1.0.0"})
	is.NoErr(err)

	second, err := svc.Assign(ctx, types.Script{SensorID: "esp32_001", ScriptContent: actionProgram, ScriptVersion: "1.1.0"})
	is.NoErr(err)

	payload, err := svc.Fetch(ctx, "esp32_001")
	is.NoErr(err)
	is.True(payload.Available)
	is.Equal(second.ID, payload.ID)
	is.Equal("1.1.0", payload.Version)
	is.Equal("fermenter-cycle", payload.Name)
	is.Equal(16, len(payload.ContentHash))
}

func TestFetchWithoutAssignment(t *testing.T) {
	is, ctx, store := testSetup(t)

	store.GetDeviceFunc = func(ctx context.Context, sensorID string) (types.Device, error) {
		return types.Device{SensorID: sensorID}, nil
	}
	store.GetCurrentScriptFunc = func(ctx context.Context, sensorID string) (types.Script, error) {
		return types.Script{}, storage.ErrNoRows
	}

	svc := New(store, DefaultThresholds())

	payload, err := svc.Fetch(ctx, "esp32_001")
	is.NoErr(err)
	is.True(!payload.Available)
}

func TestFetchForUnknownDevice(t *testing.T) {
	is, ctx, store := testSetup(t)

	store.GetDeviceFunc = func(ctx context.Context, sensorID string) (types.Device, error) {
		return types.Device{}, storage.ErrNoRows
	}

	svc := New(store, DefaultThresholds())

	_, err := svc.Fetch(ctx, "nope")
	is.True(errors.Is(err, ErrDeviceNotFound))
}

func TestReportExecuted(t *testing.T) {
	is, ctx, store := testSetup(t)

	store.SetScriptReportFunc = func(ctx context.Context, sensorID string, scriptVersion string, scriptID int64, executedAt time.Time) error {
		return nil
	}

	svc := New(store, DefaultThresholds())

	now := time.Now()
	err := svc.ReportExecuted(ctx, "esp32_001", "1.0.0", 3, now)
	is.NoErr(err)

	calls := store.SetScriptReportCalls()
	is.Equal(1, len(calls))
	is.Equal("1.0.0", calls[0].ScriptVersion)
	is.Equal(int64(3), calls[0].ScriptID)
}

func TestClassifyExecution(t *testing.T) {
	is := is.New(t)
	now := time.Now()
	thresholds := DefaultThresholds()

	running := types.Device{LastScriptExecution: now.Add(-time.Minute)}
	is.Equal(types.ExecutionRunning, ClassifyExecution(running, now, thresholds))

	recent := types.Device{LastScriptExecution: now.Add(-10 * time.Minute)}
	is.Equal(types.ExecutionRecent, ClassifyExecution(recent, now, thresholds))

	idle := types.Device{LastScriptExecution: now.Add(-time.Hour)}
	is.Equal(types.ExecutionIdle, ClassifyExecution(idle, now, thresholds))

	never := types.Device{}
	is.Equal(types.ExecutionIdle, ClassifyExecution(never, now, thresholds))
}

func testSetup(t *testing.T) (*is.I, context.Context, *ScriptStorageMock) {
	is := is.New(t)
	return is, context.Background(), &ScriptStorageMock{}
}
