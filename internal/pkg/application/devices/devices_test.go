package devices

import (
	"context"
	"testing"
	"time"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/fermlab/sensor-master/internal/pkg/infrastructure/storage"
	"github.com/fermlab/sensor-master/pkg/types"
	"github.com/matryer/is"
)

func TestRegisterCreatesDeviceAndPublishesEvent(t *testing.T) {
	is, ctx, store, msgCtx := testSetup(t)

	known := map[string]types.Device{}
	store.GetDeviceFunc = func(ctx context.Context, sensorID string) (types.Device, error) {
		if d, ok := known[sensorID]; ok {
			return d, nil
		}
		return types.Device{}, storage.ErrNoRows
	}
	store.CreateOrUpdateDeviceFunc = func(ctx context.Context, device types.Device) error {
		known[device.SensorID] = device
		return nil
	}

	svc := New(store, msgCtx, DefaultThresholds())

	now := time.Now()
	d, err := svc.Register(ctx, types.Device{SensorID: "esp32_001", SensorType: "esp32_fermentation"}, now)

	is.NoErr(err)
	is.Equal("esp32_001", d.SensorID)
	is.Equal(types.DeviceStatusPending, d.Status)
	is.Equal(1, len(msgCtx.PublishOnTopicCalls()))
}

func TestRegisterIsIdempotent(t *testing.T) {
	is, ctx, store, msgCtx := testSetup(t)

	known := map[string]types.Device{}
	store.GetDeviceFunc = func(ctx context.Context, sensorID string) (types.Device, error) {
		if d, ok := known[sensorID]; ok {
			return d, nil
		}
		return types.Device{}, storage.ErrNoRows
	}
	store.CreateOrUpdateDeviceFunc = func(ctx context.Context, device types.Device) error {
		known[device.SensorID] = device
		return nil
	}

	svc := New(store, msgCtx, DefaultThresholds())

	now := time.Now()
	for i := 0; i < 3; i++ {
		_, err := svc.Register(ctx, types.Device{SensorID: "esp32_001", SensorType: "esp32_fermentation", SensorName: "fermenter"}, now)
		is.NoErr(err)
	}

	is.Equal(1, len(known))
	is.Equal("fermenter", known["esp32_001"].SensorName)
	// only the first registration publishes
	is.Equal(1, len(msgCtx.PublishOnTopicCalls()))
}

func TestHeartbeatTouchesDevice(t *testing.T) {
	is, ctx, store, msgCtx := testSetup(t)

	now := time.Now()
	store.TouchDeviceFunc = func(ctx context.Context, sensorID string, ts time.Time) error {
		return nil
	}
	store.GetDeviceFunc = func(ctx context.Context, sensorID string) (types.Device, error) {
		return types.Device{SensorID: sensorID, LastCheckIn: now, LastConfigHashDelivered: "abc"}, nil
	}

	svc := New(store, msgCtx, DefaultThresholds())

	d, err := svc.Heartbeat(ctx, "esp32_001", now)
	is.NoErr(err)
	is.Equal(types.DeviceStatusOnline, d.Status)
	is.Equal(1, len(store.TouchDeviceCalls()))
}

func TestHeartbeatForUnknownDevice(t *testing.T) {
	is, ctx, store, msgCtx := testSetup(t)

	store.TouchDeviceFunc = func(ctx context.Context, sensorID string, ts time.Time) error {
		return storage.ErrNoRows
	}

	svc := New(store, msgCtx, DefaultThresholds())

	_, err := svc.Heartbeat(ctx, "nope", time.Now())
	is.Equal(ErrDeviceNotFound, err)
}

func TestClassify(t *testing.T) {
	is := is.New(t)
	now := time.Now()
	thresholds := DefaultThresholds()

	configured := types.Device{LastCheckIn: now.Add(-time.Minute), LastConfigHashDelivered: "abc"}
	is.Equal(types.DeviceStatusOnline, Classify(configured, now, thresholds))

	unconfigured := types.Device{LastCheckIn: now.Add(-time.Minute)}
	is.Equal(types.DeviceStatusPending, Classify(unconfigured, now, thresholds))

	silent := types.Device{LastCheckIn: now.Add(-16 * time.Minute), LastConfigHashDelivered: "abc"}
	is.Equal(types.DeviceStatusOffline, Classify(silent, now, thresholds))

	never := types.Device{}
	is.Equal(types.DeviceStatusOffline, Classify(never, now, thresholds))
}

func testSetup(t *testing.T) (*is.I, context.Context, *DeviceStorageMock, *messaging.MsgContextMock) {
	is := is.New(t)
	ctx := context.Background()

	store := &DeviceStorageMock{}
	msgCtx := &messaging.MsgContextMock{
		PublishOnTopicFunc: func(ctx context.Context, message messaging.TopicMessage) error {
			return nil
		},
	}

	return is, ctx, store, msgCtx
}
