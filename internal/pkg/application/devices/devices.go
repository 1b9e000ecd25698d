package devices

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/fermlab/sensor-master/internal/pkg/infrastructure/storage"
	"github.com/fermlab/sensor-master/pkg/types"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("sensor-master/devices")

var ErrDeviceNotFound = fmt.Errorf("device not found")

// Thresholds classify a device's liveness from its last check-in.
type Thresholds struct {
	Online  time.Duration
	Offline time.Duration
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Online:  5 * time.Minute,
		Offline: 15 * time.Minute,
	}
}

type DeviceRegistry interface {
	Register(ctx context.Context, device types.Device, now time.Time) (types.Device, error)
	Heartbeat(ctx context.Context, sensorID string, now time.Time) (types.Device, error)

	Get(ctx context.Context, sensorID string) (types.Device, error)
	Query(ctx context.Context, params map[string][]string) (types.Collection[types.Device], error)
	Delete(ctx context.Context, sensorID string) error

	ClassifyStatus(device types.Device, now time.Time) string
}

//go:generate moq -rm -out devicestorage_mock.go . DeviceStorage
type DeviceStorage interface {
	CreateOrUpdateDevice(ctx context.Context, device types.Device) error
	GetDevice(ctx context.Context, sensorID string) (types.Device, error)
	TouchDevice(ctx context.Context, sensorID string, ts time.Time) error
	QueryDevices(ctx context.Context, conditions ...storage.ConditionFunc) (types.Collection[types.Device], error)
	DeleteDevice(ctx context.Context, sensorID string) error
}

type registry struct {
	storage    DeviceStorage
	messenger  messaging.MsgContext
	thresholds Thresholds
}

func New(s DeviceStorage, messenger messaging.MsgContext, thresholds Thresholds) DeviceRegistry {
	return &registry{
		storage:    s,
		messenger:  messenger,
		thresholds: thresholds,
	}
}

// Register upserts the device on its sensor id. Descriptive fields follow the
// latest registration; the id itself is never reassigned.
func (r *registry) Register(ctx context.Context, device types.Device, now time.Time) (types.Device, error) {
	var err error

	ctx, span := tracer.Start(ctx, "register-device")
	defer func() { span.End() }()

	log := logging.GetFromContext(ctx)

	_, err = r.storage.GetDevice(ctx, device.SensorID)
	firstRegistration := errors.Is(err, storage.ErrNoRows)
	if err != nil && !firstRegistration {
		return types.Device{}, err
	}

	device.LastCheckIn = now.UTC()

	err = r.storage.CreateOrUpdateDevice(ctx, device)
	if err != nil {
		return types.Device{}, err
	}

	stored, err := r.storage.GetDevice(ctx, device.SensorID)
	if err != nil {
		return types.Device{}, err
	}

	if firstRegistration && r.messenger != nil {
		err := r.messenger.PublishOnTopic(ctx, &types.DeviceRegistered{
			SensorID:   stored.SensorID,
			SensorType: stored.SensorType,
			Timestamp:  now.UTC(),
		})
		if err != nil {
			log.Error("failed to publish registration event", "sensor_id", stored.SensorID, "err", err.Error())
		}
	}

	stored.Status = r.ClassifyStatus(stored, now)

	return stored, nil
}

// Heartbeat advances last_check_in without touching descriptive fields.
func (r *registry) Heartbeat(ctx context.Context, sensorID string, now time.Time) (types.Device, error) {
	ctx, span := tracer.Start(ctx, "heartbeat")
	defer func() { span.End() }()

	err := r.storage.TouchDevice(ctx, sensorID, now)
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return types.Device{}, ErrDeviceNotFound
		}
		return types.Device{}, err
	}

	device, err := r.storage.GetDevice(ctx, sensorID)
	if err != nil {
		return types.Device{}, err
	}

	device.Status = r.ClassifyStatus(device, now)

	return device, nil
}

func (r *registry) Get(ctx context.Context, sensorID string) (types.Device, error) {
	device, err := r.storage.GetDevice(ctx, sensorID)
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return types.Device{}, ErrDeviceNotFound
		}
		return types.Device{}, err
	}

	device.Status = r.ClassifyStatus(device, time.Now())

	return device, nil
}

func (r *registry) Query(ctx context.Context, params map[string][]string) (types.Collection[types.Device], error) {
	conditions := make([]storage.ConditionFunc, 0)
	statusFilter := ""

	for k, v := range params {
		switch strings.ToLower(k) {
		case "sensor_id":
			conditions = append(conditions, storage.WithSensorID(v[0]))
		case "sensor_type":
			conditions = append(conditions, storage.WithSensorType(v[0]))
		case "status":
			statusFilter = v[0]
		case "search":
			conditions = append(conditions, storage.WithSearch(v[0]))
		case "limit":
			limit, _ := strconv.Atoi(v[0])
			conditions = append(conditions, storage.WithLimit(limit))
		case "offset":
			offset, _ := strconv.Atoi(v[0])
			conditions = append(conditions, storage.WithOffset(offset))
		case "sortby":
			conditions = append(conditions, storage.WithSortBy(v[0]))
		case "sortorder":
			conditions = append(conditions, storage.WithSortDesc(strings.EqualFold(v[0], "desc")))
		}
	}

	collection, err := r.storage.QueryDevices(ctx, conditions...)
	if err != nil {
		return types.Collection[types.Device]{}, err
	}

	now := time.Now()
	for i := range collection.Data {
		collection.Data[i].Status = r.ClassifyStatus(collection.Data[i], now)
	}

	// liveness is derived on read, so status filtering happens here rather
	// than in sql
	if statusFilter != "" {
		filtered := make([]types.Device, 0, len(collection.Data))
		for _, d := range collection.Data {
			if d.Status == statusFilter {
				filtered = append(filtered, d)
			}
		}
		collection.Data = filtered
		collection.Count = uint64(len(filtered))
	}

	return collection, nil
}

func (r *registry) Delete(ctx context.Context, sensorID string) error {
	err := r.storage.DeleteDevice(ctx, sensorID)
	if errors.Is(err, storage.ErrNoRows) {
		return ErrDeviceNotFound
	}
	return err
}

// ClassifyStatus derives the liveness class from the last check-in. A device
// that checks in on time but has not had any config delivered yet is pending.
func (r *registry) ClassifyStatus(device types.Device, now time.Time) string {
	return Classify(device, now, r.thresholds)
}

func Classify(device types.Device, now time.Time, thresholds Thresholds) string {
	if device.LastCheckIn.IsZero() || now.Sub(device.LastCheckIn) > thresholds.Offline {
		return types.DeviceStatusOffline
	}

	if now.Sub(device.LastCheckIn) <= thresholds.Online {
		if device.LastConfigHashDelivered == "" {
			return types.DeviceStatusPending
		}
		return types.DeviceStatusOnline
	}

	// between the online and offline thresholds the device is still
	// considered reachable
	if device.LastConfigHashDelivered == "" {
		return types.DeviceStatusPending
	}

	return types.DeviceStatusOnline
}
