package sensormaster

import (
	"context"
	"encoding/json"
	"sort"
	"testing"
	"time"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/fermlab/sensor-master/internal/pkg/application/commands"
	"github.com/fermlab/sensor-master/internal/pkg/application/configs"
	"github.com/fermlab/sensor-master/internal/pkg/application/devices"
	"github.com/fermlab/sensor-master/internal/pkg/application/scripts"
	"github.com/fermlab/sensor-master/internal/pkg/infrastructure/storage"
	"github.com/fermlab/sensor-master/pkg/types"
	"github.com/matryer/is"
)

// fakeStore keeps the whole control plane state in memory so the protocol
// service can be exercised end to end without a database.
type fakeStore struct {
	devices   map[string]*types.Device
	templates map[int64]*types.ConfigTemplate
	commands  map[int64]*types.CommandQueueEntry
	scripts   map[int64]*types.Script
	nextID    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		devices:   map[string]*types.Device{},
		templates: map[int64]*types.ConfigTemplate{},
		commands:  map[int64]*types.CommandQueueEntry{},
		scripts:   map[int64]*types.Script{},
		nextID:    1,
	}
}

func (f *fakeStore) id() int64 {
	id := f.nextID
	f.nextID++
	return id
}

func (f *fakeStore) WithTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (f *fakeStore) CreateOrUpdateDevice(ctx context.Context, device types.Device) error {
	if existing, ok := f.devices[device.SensorID]; ok {
		if device.LastCheckIn.Before(existing.LastCheckIn) {
			device.LastCheckIn = existing.LastCheckIn
		}
		device.LastConfigHashDelivered = existing.LastConfigHashDelivered
		device.LastScriptExecution = existing.LastScriptExecution
		device.LastReportedScriptVersion = existing.LastReportedScriptVersion
		device.LastReportedScriptID = existing.LastReportedScriptID
	}
	d := device
	f.devices[device.SensorID] = &d
	return nil
}

func (f *fakeStore) GetDevice(ctx context.Context, sensorID string) (types.Device, error) {
	if d, ok := f.devices[sensorID]; ok {
		return *d, nil
	}
	return types.Device{}, storage.ErrNoRows
}

func (f *fakeStore) TouchDevice(ctx context.Context, sensorID string, ts time.Time) error {
	d, ok := f.devices[sensorID]
	if !ok {
		return storage.ErrNoRows
	}
	if ts.After(d.LastCheckIn) {
		d.LastCheckIn = ts
	}
	return nil
}

func (f *fakeStore) QueryDevices(ctx context.Context, conditions ...storage.ConditionFunc) (types.Collection[types.Device], error) {
	out := make([]types.Device, 0, len(f.devices))
	for _, d := range f.devices {
		out = append(out, *d)
	}
	return types.Collection[types.Device]{Data: out, Count: uint64(len(out)), TotalCount: uint64(len(out))}, nil
}

func (f *fakeStore) DeleteDevice(ctx context.Context, sensorID string) error {
	if _, ok := f.devices[sensorID]; !ok {
		return storage.ErrNoRows
	}
	delete(f.devices, sensorID)
	return nil
}

func (f *fakeStore) SetDeliveredConfigHash(ctx context.Context, sensorID, hash string) error {
	d, ok := f.devices[sensorID]
	if !ok {
		return storage.ErrNoRows
	}
	d.LastConfigHashDelivered = hash
	return nil
}

func (f *fakeStore) SetScriptReport(ctx context.Context, sensorID, scriptVersion string, scriptID int64, executedAt time.Time) error {
	d, ok := f.devices[sensorID]
	if !ok {
		return storage.ErrNoRows
	}
	if executedAt.After(d.LastScriptExecution) {
		d.LastScriptExecution = executedAt
	}
	if scriptVersion != "" {
		d.LastReportedScriptVersion = scriptVersion
	}
	if scriptID > 0 {
		d.LastReportedScriptID = scriptID
	}
	return nil
}

func (f *fakeStore) AddConfigTemplate(ctx context.Context, template types.ConfigTemplate) (types.ConfigTemplate, error) {
	template.ID = f.id()
	template.Version = 1
	t := template
	f.templates[t.ID] = &t
	return t, nil
}

func (f *fakeStore) UpdateConfigTemplate(ctx context.Context, template types.ConfigTemplate) (types.ConfigTemplate, error) {
	existing, ok := f.templates[template.ID]
	if !ok {
		return types.ConfigTemplate{}, storage.ErrNoRows
	}
	template.Version = existing.Version + 1
	t := template
	f.templates[t.ID] = &t
	return t, nil
}

func (f *fakeStore) GetConfigTemplate(ctx context.Context, id int64) (types.ConfigTemplate, error) {
	if t, ok := f.templates[id]; ok {
		return *t, nil
	}
	return types.ConfigTemplate{}, storage.ErrNoRows
}

func (f *fakeStore) SetConfigTemplateActive(ctx context.Context, id int64, active bool) error {
	t, ok := f.templates[id]
	if !ok {
		return storage.ErrNoRows
	}
	t.IsActive = active
	return nil
}

func (f *fakeStore) QueryConfigTemplates(ctx context.Context, conditions ...storage.ConditionFunc) ([]types.ConfigTemplate, error) {
	condition := &storage.Condition{}
	for _, fn := range conditions {
		fn(condition)
	}

	out := make([]types.ConfigTemplate, 0)
	for _, t := range f.templates {
		if condition.ActiveOnly && !t.IsActive {
			continue
		}
		switch {
		case condition.SensorID != "":
			if t.SensorID == nil || *t.SensorID != condition.SensorID {
				continue
			}
		case condition.SensorType != "":
			if t.SensorID != nil || t.SensorType == nil || *t.SensorType != condition.SensorType {
				continue
			}
		case condition.DefaultScope:
			if t.SensorID != nil || t.SensorType != nil {
				continue
			}
		}
		out = append(out, *t)
	}

	return out, nil
}

func (f *fakeStore) DeleteConfigTemplate(ctx context.Context, id int64) error {
	if _, ok := f.templates[id]; !ok {
		return storage.ErrNoRows
	}
	delete(f.templates, id)
	return nil
}

func (f *fakeStore) AddCommand(ctx context.Context, entry types.CommandQueueEntry) (types.CommandQueueEntry, error) {
	entry.ID = f.id()
	entry.Status = types.CommandPending
	entry.CreatedAt = time.Now()
	e := entry
	f.commands[e.ID] = &e
	return e, nil
}

func (f *fakeStore) GetCommand(ctx context.Context, id int64) (types.CommandQueueEntry, error) {
	if e, ok := f.commands[id]; ok {
		return *e, nil
	}
	return types.CommandQueueEntry{}, storage.ErrNoRows
}

func (f *fakeStore) QueryCommands(ctx context.Context, conditions ...storage.ConditionFunc) ([]types.CommandQueueEntry, error) {
	out := make([]types.CommandQueueEntry, 0)
	for _, e := range f.commands {
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeStore) SelectCommandsForDelivery(ctx context.Context, sensorID string, now time.Time, limit int) ([]types.CommandQueueEntry, error) {
	for _, e := range f.commands {
		if e.SensorID == sensorID && !e.IsTerminal() && e.ExpiresAt != nil && !e.ExpiresAt.After(now) {
			e.Status = types.CommandExpired
		}
	}

	selected := make([]*types.CommandQueueEntry, 0)
	for _, e := range f.commands {
		if e.SensorID == sensorID && e.Status == types.CommandPending {
			selected = append(selected, e)
		}
	}

	sort.Slice(selected, func(i, j int) bool {
		a, b := selected[i], selected[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	if len(selected) > limit {
		selected = selected[:limit]
	}

	out := make([]types.CommandQueueEntry, 0, len(selected))
	for _, e := range selected {
		e.Status = types.CommandDelivered
		d := now
		e.DeliveredAt = &d
		out = append(out, *e)
	}

	return out, nil
}

func (f *fakeStore) CompleteCommand(ctx context.Context, sensorID string, commandID int64, status, message string, now time.Time) error {
	e, ok := f.commands[commandID]
	if !ok || e.SensorID != sensorID {
		return storage.ErrNoRows
	}
	if e.IsTerminal() {
		return storage.ErrAlreadySettled
	}
	if e.Status != types.CommandDelivered {
		return storage.ErrNoRows
	}
	e.Status = status
	e.CompletedAt = &now
	e.ResultMessage = message
	return nil
}

func (f *fakeStore) ExpireOverdueCommands(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	for _, e := range f.commands {
		if !e.IsTerminal() && e.ExpiresAt != nil && !e.ExpiresAt.After(now) {
			e.Status = types.CommandExpired
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) DeleteTerminalCommands(ctx context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for id, e := range f.commands {
		if e.IsTerminal() && e.CompletedAt != nil && e.CompletedAt.Before(cutoff) {
			delete(f.commands, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) DeleteCommand(ctx context.Context, id int64) error {
	if _, ok := f.commands[id]; !ok {
		return storage.ErrNoRows
	}
	delete(f.commands, id)
	return nil
}

func (f *fakeStore) AddScript(ctx context.Context, script types.Script) (types.Script, error) {
	script.ID = f.id()
	script.UploadedAt = time.Now()
	s := script
	f.scripts[s.ID] = &s
	return s, nil
}

func (f *fakeStore) GetCurrentScript(ctx context.Context, sensorID string) (types.Script, error) {
	var current *types.Script
	for _, s := range f.scripts {
		if s.SensorID == sensorID && (current == nil || s.ID > current.ID) {
			current = s
		}
	}
	if current == nil {
		return types.Script{}, storage.ErrNoRows
	}
	return *current, nil
}

func (f *fakeStore) GetScript(ctx context.Context, id int64) (types.Script, error) {
	if s, ok := f.scripts[id]; ok {
		return *s, nil
	}
	return types.Script{}, storage.ErrNoRows
}

func (f *fakeStore) QueryScripts(ctx context.Context, conditions ...storage.ConditionFunc) ([]types.Script, error) {
	out := make([]types.Script, 0)
	for _, s := range f.scripts {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeStore) DeleteScript(ctx context.Context, id int64) error {
	if _, ok := f.scripts[id]; !ok {
		return storage.ErrNoRows
	}
	delete(f.scripts, id)
	return nil
}

func testSetup(t *testing.T) (*is.I, context.Context, *fakeStore, SensorMaster, configs.ConfigResolver, commands.CommandQueue, scripts.ScriptRegistry) {
	is := is.New(t)
	ctx := context.Background()

	store := newFakeStore()

	msgCtx := &messaging.MsgContextMock{
		PublishOnTopicFunc: func(ctx context.Context, message messaging.TopicMessage) error {
			return nil
		},
	}

	deviceRegistry := devices.New(store, msgCtx, devices.DefaultThresholds())
	configResolver := configs.New(store)
	commandQueue := commands.New(store, msgCtx, nil)
	scriptRegistry := scripts.New(store, scripts.DefaultThresholds())

	svc := New(store, store, deviceRegistry, configResolver, commandQueue, scriptRegistry, msgCtx)

	return is, ctx, store, svc, configResolver, commandQueue, scriptRegistry
}

func TestFirstRegistrationWithEmptyStore(t *testing.T) {
	is, ctx, _, svc, _, _, _ := testSetup(t)

	result, err := svc.Register(ctx, types.Device{SensorID: "esp32_001", SensorType: "esp32_fermentation"})
	is.NoErr(err)
	is.True(!result.HasConfig)
	is.Equal(DefaultCheckInInterval, result.CheckInInterval)

	cfg, err := svc.GetConfig(ctx, "esp32_001", "")
	is.NoErr(err)
	is.True(!cfg.Resolution.Available)
	is.Equal(0, len(cfg.Commands))
}

func TestTypeWideConfigDelivery(t *testing.T) {
	is, ctx, _, svc, resolver, _, _ := testSetup(t)

	_, err := svc.Register(ctx, types.Device{SensorID: "esp32_001", SensorType: "esp32_fermentation"})
	is.NoErr(err)

	sensorType := "esp32_fermentation"
	_, err = resolver.Create(ctx, types.ConfigTemplate{
		Name:       "fermentation-default",
		SensorType: &sensorType,
		Priority:   100,
		IsActive:   true,
		ConfigData: json.RawMessage(`{"polling_interval":30,"data_endpoint":"http://x/api/data"}`),
	})
	is.NoErr(err)

	cfg, err := svc.GetConfig(ctx, "esp32_001", "")
	is.NoErr(err)
	is.True(cfg.Resolution.Available)
	is.True(cfg.Resolution.Changed)
	is.Equal(30, cfg.CheckInInterval)

	// the delivered hash sticks, so a re-fetch with it reports no change
	second, err := svc.GetConfig(ctx, "esp32_001", cfg.Resolution.Hash)
	is.NoErr(err)
	is.True(!second.Resolution.Changed)
}

func TestDeviceSpecificConfigOverride(t *testing.T) {
	is, ctx, _, svc, resolver, _, _ := testSetup(t)

	_, err := svc.Register(ctx, types.Device{SensorID: "esp32_001", SensorType: "esp32_fermentation"})
	is.NoErr(err)

	sensorType := "esp32_fermentation"
	_, err = resolver.Create(ctx, types.ConfigTemplate{
		Name:       "fermentation-default",
		SensorType: &sensorType,
		Priority:   100,
		IsActive:   true,
		ConfigData: json.RawMessage(`{"polling_interval":30,"data_endpoint":"http://x/api/data"}`),
	})
	is.NoErr(err)

	first, err := svc.GetConfig(ctx, "esp32_001", "")
	is.NoErr(err)
	is.Equal(30, first.CheckInInterval)

	sensorID := "esp32_001"
	_, err = resolver.Create(ctx, types.ConfigTemplate{
		Name:       "fermenter-one-override",
		SensorID:   &sensorID,
		Priority:   50,
		IsActive:   true,
		ConfigData: json.RawMessage(`{"polling_interval":10,"data_endpoint":"http://x/api/data"}`),
	})
	is.NoErr(err)

	second, err := svc.GetConfig(ctx, "esp32_001", first.Resolution.Hash)
	is.NoErr(err)
	is.True(second.Resolution.Changed)
	is.Equal(10, second.CheckInInterval)
}

func TestCommandDeliveryAndAcknowledgement(t *testing.T) {
	is, ctx, store, svc, _, queue, _ := testSetup(t)

	_, err := svc.Register(ctx, types.Device{SensorID: "esp32_001", SensorType: "esp32_fermentation"})
	is.NoErr(err)

	restart, err := queue.Enqueue(ctx, types.CommandQueueEntry{SensorID: "esp32_001", CommandType: "restart", Priority: 1})
	is.NoErr(err)
	update, err := queue.Enqueue(ctx, types.CommandQueueEntry{SensorID: "esp32_001", CommandType: "update_config", Priority: 5})
	is.NoErr(err)

	cfg, err := svc.GetConfig(ctx, "esp32_001", "")
	is.NoErr(err)
	is.Equal(2, len(cfg.Commands))
	is.Equal("restart", cfg.Commands[0].CommandType)
	is.Equal("update_config", cfg.Commands[1].CommandType)
	is.Equal(types.CommandDelivered, store.commands[restart.ID].Status)

	hb, err := svc.Heartbeat(ctx, HeartbeatInput{
		SensorID: "esp32_001",
		Status:   "online",
		CommandResults: []CommandResult{
			{CommandID: restart.ID, Result: commands.ResultSuccess, Message: "restarted"},
		},
	})
	is.NoErr(err)
	is.Equal(AckOK, hb.AckStatus[restart.ID])
	is.Equal(types.CommandCompleted, store.commands[restart.ID].Status)
	is.Equal(types.CommandDelivered, store.commands[update.ID].Status)

	hb, err = svc.Heartbeat(ctx, HeartbeatInput{
		SensorID: "esp32_001",
		Status:   "online",
		CommandResults: []CommandResult{
			{CommandID: update.ID, Result: commands.ResultSuccess, Message: "applied"},
		},
	})
	is.NoErr(err)
	is.Equal(AckOK, hb.AckStatus[update.ID])
	is.Equal(types.CommandCompleted, store.commands[update.ID].Status)

	// a device that lost the response and retries the ack still reads ok
	hb, err = svc.Heartbeat(ctx, HeartbeatInput{
		SensorID: "esp32_001",
		Status:   "online",
		CommandResults: []CommandResult{
			{CommandID: restart.ID, Result: commands.ResultSuccess, Message: "restarted"},
		},
	})
	is.NoErr(err)
	is.Equal(AckOK, hb.AckStatus[restart.ID])
	is.Equal(types.CommandCompleted, store.commands[restart.ID].Status)
}

func TestHeartbeatAckForUnknownCommandIsPerAckFailure(t *testing.T) {
	is, ctx, _, svc, _, _, _ := testSetup(t)

	_, err := svc.Register(ctx, types.Device{SensorID: "esp32_001", SensorType: "esp32_fermentation"})
	is.NoErr(err)

	hb, err := svc.Heartbeat(ctx, HeartbeatInput{
		SensorID: "esp32_001",
		Status:   "online",
		CommandResults: []CommandResult{
			{CommandID: 4711, Result: commands.ResultSuccess},
		},
	})
	is.NoErr(err)
	is.Equal(AckNotFound, hb.AckStatus[4711])
}

func TestHeartbeatSignalsConfigUpdate(t *testing.T) {
	is, ctx, _, svc, resolver, _, _ := testSetup(t)

	_, err := svc.Register(ctx, types.Device{SensorID: "esp32_001", SensorType: "esp32_fermentation"})
	is.NoErr(err)

	sensorType := "esp32_fermentation"
	created, err := resolver.Create(ctx, types.ConfigTemplate{
		Name:       "fermentation-default",
		SensorType: &sensorType,
		Priority:   100,
		IsActive:   true,
		ConfigData: json.RawMessage(`{"polling_interval":30,"data_endpoint":"http://x/api/data"}`),
	})
	is.NoErr(err)

	cfg, err := svc.GetConfig(ctx, "esp32_001", "")
	is.NoErr(err)
	is.True(cfg.Resolution.Changed)

	hb, err := svc.Heartbeat(ctx, HeartbeatInput{SensorID: "esp32_001", Status: "online"})
	is.NoErr(err)
	is.True(!hb.ConfigUpdated)

	// an admin edit changes the config content and so its hash, so the next heartbeat prompts a re-fetch
	created.ConfigData = json.RawMessage(`{"polling_interval":20,"data_endpoint":"http://x/api/data"}`)
	_, err = resolver.Update(ctx, created)
	is.NoErr(err)

	hb, err = svc.Heartbeat(ctx, HeartbeatInput{SensorID: "esp32_001", Status: "online"})
	is.NoErr(err)
	is.True(hb.ConfigUpdated)
}

func TestHeartbeatForUnregisteredDevice(t *testing.T) {
	is, ctx, _, svc, _, _, _ := testSetup(t)

	_, err := svc.Heartbeat(ctx, HeartbeatInput{SensorID: "ghost", Status: "online"})
	is.Equal(devices.ErrDeviceNotFound, err)
}

func TestScriptAssignmentAndVersionReport(t *testing.T) {
	is, ctx, store, svc, _, _, scriptRegistry := testSetup(t)

	_, err := svc.Register(ctx, types.Device{SensorID: "esp32_001", SensorType: "esp32_fermentation"})
	is.NoErr(err)

	assigned, err := scriptRegistry.Assign(ctx, types.Script{
		SensorID:      "esp32_001",
		ScriptContent: `{"name":"fermenter-cycle","version":"1.0.0","actions":[{"type":"read_temperature"}]}`,
		ScriptVersion: "1.0.0",
	})
	is.NoErr(err)

	payload, err := svc.GetScript(ctx, "esp32_001")
	is.NoErr(err)
	is.True(payload.Available)
	is.Equal("1.0.0", payload.Version)

	err = svc.ReportVersion(ctx, "esp32_001", "1.0.0", assigned.ID)
	is.NoErr(err)
	is.Equal("1.0.0", store.devices["esp32_001"].LastReportedScriptVersion)

	status := scriptRegistry.ExecutionStatus(*store.devices["esp32_001"], time.Now())
	is.Equal(types.ExecutionRunning, status)
}

func TestTelemetryPassThrough(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	store := newFakeStore()

	published := 0
	msgCtx := &messaging.MsgContextMock{
		PublishOnTopicFunc: func(ctx context.Context, message messaging.TopicMessage) error {
			published++
			is.Equal("sensor.telemetry", message.TopicName())
			return nil
		},
	}

	svc := New(store, store,
		devices.New(store, nil, devices.DefaultThresholds()),
		configs.New(store),
		commands.New(store, nil, nil),
		scripts.New(store, scripts.DefaultThresholds()),
		msgCtx)

	err := svc.IngestTelemetry(ctx, types.TelemetrySample{
		SensorID: "esp32_001",
		Payload:  json.RawMessage(`{"temperature":19.5,"gravity":1.012}`),
	})
	is.NoErr(err)
	is.Equal(1, published)
}
