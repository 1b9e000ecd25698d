package sensormaster

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/fermlab/sensor-master/internal/pkg/application/commands"
	"github.com/fermlab/sensor-master/internal/pkg/application/configs"
	"github.com/fermlab/sensor-master/internal/pkg/application/devices"
	"github.com/fermlab/sensor-master/internal/pkg/application/scripts"
	"github.com/fermlab/sensor-master/pkg/types"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("sensor-master/protocol")

// DefaultCheckInInterval is used whenever no effective config specifies a
// polling interval.
const DefaultCheckInInterval = 60

const (
	AckOK       = "ok"
	AckNotFound = "command_not_found"
	AckError    = "error"
)

// TxRunner runs a function inside a single storage transaction. Every
// protocol operation that touches the store goes through it so concurrent calls for the same device
// never observe half-applied state.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(context.Context) error) error
}

// HashStorage is the slice of the store the protocol layer touches directly.
type HashStorage interface {
	SetDeliveredConfigHash(ctx context.Context, sensorID, hash string) error
}

type RegisterResult struct {
	Device          types.Device
	HasConfig       bool
	CheckInInterval int
}

type ConfigResult struct {
	Resolution      configs.Resolution
	Commands        []types.CommandQueueEntry
	CheckInInterval int
}

type CommandResult struct {
	CommandID int64
	Result    string
	Message   string
}

type HeartbeatInput struct {
	SensorID       string
	Status         string
	Metrics        json.RawMessage
	CommandResults []CommandResult
}

type HeartbeatResult struct {
	ConfigUpdated bool
	Commands      []types.CommandQueueEntry
	AckStatus     map[int64]string
}

//go:generate moq -rm -out sensormaster_mock.go . SensorMaster
type SensorMaster interface {
	Register(ctx context.Context, device types.Device) (RegisterResult, error)
	GetConfig(ctx context.Context, sensorID, currentHash string) (ConfigResult, error)
	Heartbeat(ctx context.Context, input HeartbeatInput) (HeartbeatResult, error)
	GetScript(ctx context.Context, sensorID string) (scripts.Payload, error)
	ReportExecuted(ctx context.Context, sensorID string, executedAt time.Time) error
	ReportVersion(ctx context.Context, sensorID, scriptVersion string, scriptID int64) error
	IngestTelemetry(ctx context.Context, sample types.TelemetrySample) error
}

type service struct {
	tx        TxRunner
	hashes    HashStorage
	devices   devices.DeviceRegistry
	configs   configs.ConfigResolver
	commands  commands.CommandQueue
	scripts   scripts.ScriptRegistry
	messenger messaging.MsgContext
}

func New(tx TxRunner, hashes HashStorage, deviceRegistry devices.DeviceRegistry, configResolver configs.ConfigResolver, commandQueue commands.CommandQueue, scriptRegistry scripts.ScriptRegistry, messenger messaging.MsgContext) SensorMaster {
	return &service{
		tx:        tx,
		hashes:    hashes,
		devices:   deviceRegistry,
		configs:   configResolver,
		commands:  commandQueue,
		scripts:   scriptRegistry,
		messenger: messenger,
	}
}

// Register upserts the device and reports whether a config is already
// waiting for it, so firmware can switch to the configured cadence at once.
func (s *service) Register(ctx context.Context, device types.Device) (RegisterResult, error) {
	ctx, span := tracer.Start(ctx, "register")
	defer func() { span.End() }()

	var result RegisterResult

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		registered, err := s.devices.Register(ctx, device, time.Now())
		if err != nil {
			return err
		}

		resolution, err := s.configs.Resolve(ctx, registered.SensorID, "")
		if err != nil {
			return err
		}

		result = RegisterResult{
			Device:          registered,
			HasConfig:       resolution.Available,
			CheckInInterval: resolution.PollingInterval(DefaultCheckInInterval),
		}

		return nil
	})
	if err != nil {
		return RegisterResult{}, err
	}

	return result, nil
}

// GetConfig resolves the effective config, drains queued commands and, when
// the config changed, records the delivered hash. All in one transaction so
// a retried fetch is idempotent apart from command re-delivery.
func (s *service) GetConfig(ctx context.Context, sensorID, currentHash string) (ConfigResult, error) {
	ctx, span := tracer.Start(ctx, "get-config")
	defer func() { span.End() }()

	log := logging.GetFromContext(ctx)

	var result ConfigResult

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		now := time.Now()

		resolution, err := s.configs.Resolve(ctx, sensorID, currentHash)
		if err != nil {
			return err
		}

		queued, err := s.commands.Dequeue(ctx, sensorID, now, commands.DeliveryLimit)
		if err != nil {
			return err
		}

		if resolution.Available && resolution.Changed {
			err = s.hashes.SetDeliveredConfigHash(ctx, sensorID, resolution.Hash)
			if err != nil {
				return err
			}
		}

		result = ConfigResult{
			Resolution:      resolution,
			Commands:        queued,
			CheckInInterval: resolution.PollingInterval(DefaultCheckInInterval),
		}

		return nil
	})
	if err != nil {
		return ConfigResult{}, err
	}

	if result.Resolution.Available && result.Resolution.Changed && s.messenger != nil {
		err := s.messenger.PublishOnTopic(ctx, &types.ConfigDelivered{
			SensorID:   sensorID,
			ConfigHash: result.Resolution.Hash,
			Version:    result.Resolution.Version,
			Timestamp:  time.Now().UTC(),
		})
		if err != nil {
			log.Error("failed to publish config delivery", "sensor_id", sensorID, "err", err.Error())
		}
	}

	return result, nil
}

// Heartbeat bumps liveness, settles acknowledged commands one by one, checks
// whether the effective config moved past the delivered hash and drains any
// newly queued commands. Ack failures accumulate per command; they never
// fail the heartbeat itself.
func (s *service) Heartbeat(ctx context.Context, input HeartbeatInput) (HeartbeatResult, error) {
	ctx, span := tracer.Start(ctx, "heartbeat")
	defer func() { span.End() }()

	var result HeartbeatResult

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		now := time.Now()

		device, err := s.devices.Heartbeat(ctx, input.SensorID, now)
		if err != nil {
			return err
		}

		ackStatus := make(map[int64]string, len(input.CommandResults))
		for _, ack := range input.CommandResults {
			err := s.commands.Acknowledge(ctx, input.SensorID, ack.CommandID, ack.Result, ack.Message, now)
			switch {
			case err == nil:
				ackStatus[ack.CommandID] = AckOK
			case errors.Is(err, commands.ErrCommandNotFound):
				ackStatus[ack.CommandID] = AckNotFound
			default:
				ackStatus[ack.CommandID] = AckError
			}
		}

		resolution, err := s.configs.Resolve(ctx, input.SensorID, device.LastConfigHashDelivered)
		if err != nil {
			return err
		}

		queued, err := s.commands.Dequeue(ctx, input.SensorID, now, commands.DeliveryLimit)
		if err != nil {
			return err
		}

		result = HeartbeatResult{
			ConfigUpdated: resolution.Available && resolution.Changed,
			Commands:      queued,
			AckStatus:     ackStatus,
		}

		return nil
	})
	if err != nil {
		return HeartbeatResult{}, err
	}

	return result, nil
}

func (s *service) GetScript(ctx context.Context, sensorID string) (scripts.Payload, error) {
	ctx, span := tracer.Start(ctx, "get-script")
	defer func() { span.End() }()

	var payload scripts.Payload

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		payload, err = s.scripts.Fetch(ctx, sensorID)
		return err
	})
	if err != nil {
		return scripts.Payload{}, err
	}

	return payload, nil
}

func (s *service) ReportExecuted(ctx context.Context, sensorID string, executedAt time.Time) error {
	ctx, span := tracer.Start(ctx, "report-executed")
	defer func() { span.End() }()

	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		return s.scripts.ReportExecuted(ctx, sensorID, "", 0, executedAt)
	})
}

func (s *service) ReportVersion(ctx context.Context, sensorID, scriptVersion string, scriptID int64) error {
	ctx, span := tracer.Start(ctx, "report-version")
	defer func() { span.End() }()

	return s.tx.WithTx(ctx, func(ctx context.Context) error {
		return s.scripts.ReportExecuted(ctx, sensorID, scriptVersion, scriptID, time.Now())
	})
}

// IngestTelemetry republishes a sample on the message bus. Each POST is an
// independent request; the device retries on failure.
func (s *service) IngestTelemetry(ctx context.Context, sample types.TelemetrySample) error {
	ctx, span := tracer.Start(ctx, "ingest-telemetry")
	defer func() { span.End() }()

	if sample.Timestamp.IsZero() {
		sample.Timestamp = time.Now().UTC()
	}

	return s.messenger.PublishOnTopic(ctx, &sample)
}
