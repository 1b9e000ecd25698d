package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fermlab/sensor-master/pkg/types"
	"github.com/matryer/is"
)

func testSetup(t *testing.T) (context.Context, *Storage) {
	ctx := context.Background()

	config := Config{
		host:     "localhost",
		user:     "postgres",
		password: "password",
		port:     "5432",
		dbname:   "postgres",
		sslmode:  "disable",
	}

	s, err := New(ctx, config)
	if err != nil {
		t.SkipNow()
	}

	err = s.Initialize(ctx)
	if err != nil {
		t.SkipNow()
	}

	return ctx, s
}

func newSensorID(t *testing.T) string {
	return fmt.Sprintf("esp32_%s_%d", t.Name(), time.Now().UnixNano())
}

func seedDevice(t *testing.T, ctx context.Context, s *Storage) string {
	sensorID := newSensorID(t)

	err := s.CreateOrUpdateDevice(ctx, types.Device{
		SensorID:    sensorID,
		SensorType:  "esp32_fermentation",
		SensorName:  "fermenter",
		LastCheckIn: time.Now(),
	})
	if err != nil {
		t.SkipNow()
	}

	return sensorID
}

func TestUpsertDeviceKeepsMonotonicCheckIn(t *testing.T) {
	is := is.New(t)
	ctx, s := testSetup(t)

	sensorID := seedDevice(t, ctx, s)

	now := time.Now().UTC().Truncate(time.Second)
	earlier := now.Add(-time.Hour)

	is.NoErr(s.TouchDevice(ctx, sensorID, now))
	is.NoErr(s.TouchDevice(ctx, sensorID, earlier))

	d, err := s.GetDevice(ctx, sensorID)
	is.NoErr(err)
	is.True(!d.LastCheckIn.Before(now))
}

func TestGetDeviceNotFound(t *testing.T) {
	is := is.New(t)
	ctx, s := testSetup(t)

	_, err := s.GetDevice(ctx, "does-not-exist")
	is.True(errors.Is(err, ErrNoRows))
}

func TestCommandDeliveryOrderAndAck(t *testing.T) {
	is := is.New(t)
	ctx, s := testSetup(t)

	sensorID := seedDevice(t, ctx, s)
	now := time.Now()

	_, err := s.AddCommand(ctx, types.CommandQueueEntry{SensorID: sensorID, CommandType: "update_config", Priority: 5})
	is.NoErr(err)
	restart, err := s.AddCommand(ctx, types.CommandQueueEntry{SensorID: sensorID, CommandType: "restart", Priority: 1})
	is.NoErr(err)

	delivered, err := s.SelectCommandsForDelivery(ctx, sensorID, now, 16)
	is.NoErr(err)
	is.Equal(2, len(delivered))
	is.Equal("restart", delivered[0].CommandType)

	// second fetch finds nothing pending
	again, err := s.SelectCommandsForDelivery(ctx, sensorID, now, 16)
	is.NoErr(err)
	is.Equal(0, len(again))

	is.NoErr(s.CompleteCommand(ctx, sensorID, restart.ID, types.CommandCompleted, "restarted", now))

	// terminal entries never transition again, and a retried ack is told so
	err = s.CompleteCommand(ctx, sensorID, restart.ID, types.CommandFailed, "nope", now)
	is.True(errors.Is(err, ErrAlreadySettled))

	// a foreign sensor gets no such distinction
	err = s.CompleteCommand(ctx, "someone-else", restart.ID, types.CommandFailed, "nope", now)
	is.True(errors.Is(err, ErrNoRows))

	done, err := s.GetCommand(ctx, restart.ID)
	is.NoErr(err)
	is.Equal(types.CommandCompleted, done.Status)
}

func TestCommandExpiry(t *testing.T) {
	is := is.New(t)
	ctx, s := testSetup(t)

	sensorID := seedDevice(t, ctx, s)
	now := time.Now()

	expired := now.Add(-time.Minute)
	_, err := s.AddCommand(ctx, types.CommandQueueEntry{SensorID: sensorID, CommandType: "restart", ExpiresAt: &expired})
	is.NoErr(err)

	delivered, err := s.SelectCommandsForDelivery(ctx, sensorID, now, 16)
	is.NoErr(err)
	is.Equal(0, len(delivered))

	entries, err := s.QueryCommands(ctx, WithSensorID(sensorID), WithCommandStatus(types.CommandExpired))
	is.NoErr(err)
	is.Equal(1, len(entries))
}

func TestConfigTemplateVersionBumps(t *testing.T) {
	is := is.New(t)
	ctx, s := testSetup(t)

	created, err := s.AddConfigTemplate(ctx, types.ConfigTemplate{
		Name:       "test-template",
		ConfigData: json.RawMessage(`{"polling_interval":30}`),
		Priority:   100,
		IsActive:   true,
	})
	is.NoErr(err)
	is.Equal(1, created.Version)

	created.ConfigData = json.RawMessage(`{"polling_interval":20}`)
	updated, err := s.UpdateConfigTemplate(ctx, created)
	is.NoErr(err)
	is.Equal(2, updated.Version)

	is.NoErr(s.DeleteConfigTemplate(ctx, created.ID))
}

func TestScriptSupersedesPrior(t *testing.T) {
	is := is.New(t)
	ctx, s := testSetup(t)

	sensorID := seedDevice(t, ctx, s)

	_, err := s.AddScript(ctx, types.Script{SensorID: sensorID, ScriptContent: `{"actions":[]}`, ScriptVersion: "1.0.0"})
	is.NoErr(err)

	second, err := s.AddScript(ctx, types.Script{SensorID: sensorID, ScriptContent: `{"actions":[]}`, ScriptVersion: "1.1.0"})
	is.NoErr(err)

	current, err := s.GetCurrentScript(ctx, sensorID)
	is.NoErr(err)
	is.Equal(second.ID, current.ID)
	is.Equal("1.1.0", current.ScriptVersion)
}

func TestDeleteDeviceCascades(t *testing.T) {
	is := is.New(t)
	ctx, s := testSetup(t)

	sensorID := seedDevice(t, ctx, s)

	_, err := s.AddCommand(ctx, types.CommandQueueEntry{SensorID: sensorID, CommandType: "restart"})
	is.NoErr(err)
	_, err = s.AddScript(ctx, types.Script{SensorID: sensorID, ScriptContent: `{"actions":[]}`, ScriptVersion: "1.0.0"})
	is.NoErr(err)

	is.NoErr(s.DeleteDevice(ctx, sensorID))

	entries, err := s.QueryCommands(ctx, WithSensorID(sensorID))
	is.NoErr(err)
	is.Equal(0, len(entries))

	scripts, err := s.QueryScripts(ctx, WithSensorID(sensorID))
	is.NoErr(err)
	is.Equal(0, len(scripts))
}

func TestWithTxRollsBackOnError(t *testing.T) {
	is := is.New(t)
	ctx, s := testSetup(t)

	sensorID := newSensorID(t)

	err := s.WithTx(ctx, func(ctx context.Context) error {
		err := s.CreateOrUpdateDevice(ctx, types.Device{SensorID: sensorID, SensorType: "esp32_fermentation", LastCheckIn: time.Now()})
		if err != nil {
			return err
		}
		return errors.New("abort")
	})
	is.True(err != nil)

	_, err = s.GetDevice(ctx, sensorID)
	is.True(errors.Is(err, ErrNoRows))
}
