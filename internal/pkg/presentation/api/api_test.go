package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fermlab/sensor-master/internal/pkg/application/configs"
	"github.com/fermlab/sensor-master/internal/pkg/application/devices"
	"github.com/fermlab/sensor-master/internal/pkg/application/scripts"
	"github.com/fermlab/sensor-master/internal/pkg/application/sensormaster"
	"github.com/fermlab/sensor-master/internal/pkg/infrastructure/router"
	"github.com/fermlab/sensor-master/internal/pkg/infrastructure/storage"
	"github.com/fermlab/sensor-master/pkg/types"
	"github.com/matryer/is"
)

func configResolution() configs.Resolution {
	data := json.RawMessage(`{"data_endpoint":"http://x/api/data","polling_interval":30}`)
	return configs.Resolution{
		Available:  true,
		Changed:    true,
		Hash:       configs.Hash(data),
		Name:       "fermentation-default",
		Version:    1,
		TemplateID: 1,
		Config:     data,
	}
}

const openPolicy = `package sensormaster.authz

default allow = false

allow {
    input.token == "valid-token"
}
`

func testSetup(t *testing.T, svc sensormaster.SensorMaster) (*is.I, *httptest.Server) {
	is := is.New(t)

	r := router.New("sensor-master-test")

	mux, err := RegisterHandlers(context.Background(), r, strings.NewReader(openPolicy), svc, nil, nil, nil, nil, MasterInstance{Name: "sensor-master", MasterID: 1})
	is.NoErr(err)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return is, server
}

func TestRegisterEndpoint(t *testing.T) {
	svc := &sensormaster.SensorMasterMock{
		RegisterFunc: func(ctx context.Context, device types.Device) (sensormaster.RegisterResult, error) {
			return sensormaster.RegisterResult{Device: device, HasConfig: false, CheckInInterval: 60}, nil
		},
	}

	is, server := testSetup(t, svc)

	body := `{"sensor_id":"esp32_001","sensor_name":"fermenter one","sensor_type":"esp32_fermentation","capabilities":["temperature","gravity"]}`
	resp, responseBody := testRequest(is, http.MethodPost, server.URL+"/api/sensor-master/register", "", strings.NewReader(body))

	is.Equal(http.StatusOK, resp.StatusCode)

	var reply RegisterResponse
	is.NoErr(json.Unmarshal(responseBody, &reply))
	is.Equal("registered", reply.Status)
	is.Equal("sensor-master", reply.AssignedMaster)
	is.Equal(1, reply.MasterID)
	is.True(!reply.HasConfig)
	is.Equal(60, reply.CheckInInterval)
	is.Equal("/api/sensor-master/config/esp32_001", reply.ConfigEndpoint)

	is.Equal(1, len(svc.RegisterCalls()))
	is.Equal("esp32_001", svc.RegisterCalls()[0].Device.SensorID)
}

func TestRegisterWithoutSensorID(t *testing.T) {
	is, server := testSetup(t, &sensormaster.SensorMasterMock{})

	resp, _ := testRequest(is, http.MethodPost, server.URL+"/api/sensor-master/register", "", strings.NewReader(`{"sensor_type":"esp32"}`))
	is.Equal(http.StatusBadRequest, resp.StatusCode)
}

func TestRegisterWithMalformedBody(t *testing.T) {
	is, server := testSetup(t, &sensormaster.SensorMasterMock{})

	resp, _ := testRequest(is, http.MethodPost, server.URL+"/api/sensor-master/register", "", strings.NewReader(`{not json`))
	is.Equal(http.StatusBadRequest, resp.StatusCode)
}

func TestGetConfigEndpoint(t *testing.T) {
	svc := &sensormaster.SensorMasterMock{
		GetConfigFunc: func(ctx context.Context, sensorID string, currentHash string) (sensormaster.ConfigResult, error) {
			return sensormaster.ConfigResult{
				Resolution: configResolution(),
				Commands: []types.CommandQueueEntry{
					{ID: 1, CommandType: "restart", Priority: 1, Status: types.CommandDelivered},
				},
				CheckInInterval: 30,
			}, nil
		},
	}

	is, server := testSetup(t, svc)

	resp, responseBody := testRequest(is, http.MethodGet, server.URL+"/api/sensor-master/config/esp32_001?hash=stale", "", nil)
	is.Equal(http.StatusOK, resp.StatusCode)

	var reply ConfigResponse
	is.NoErr(json.Unmarshal(responseBody, &reply))
	is.True(reply.ConfigAvailable)
	is.True(reply.ConfigChanged)
	is.Equal(30, reply.CheckInInterval)
	is.Equal(1, len(reply.Commands))
	is.Equal("restart", reply.Commands[0].CommandType)

	is.Equal("stale", svc.GetConfigCalls()[0].CurrentHash)
}

func TestGetConfigForUnknownDevice(t *testing.T) {
	svc := &sensormaster.SensorMasterMock{
		GetConfigFunc: func(ctx context.Context, sensorID string, currentHash string) (sensormaster.ConfigResult, error) {
			return sensormaster.ConfigResult{}, devices.ErrDeviceNotFound
		},
	}

	is, server := testSetup(t, svc)

	resp, responseBody := testRequest(is, http.MethodGet, server.URL+"/api/sensor-master/config/ghost", "", nil)
	is.Equal(http.StatusConflict, resp.StatusCode)

	var reply ErrorResponse
	is.NoErr(json.Unmarshal(responseBody, &reply))
	is.Equal("device_not_registered", reply.Code)
}

func TestHeartbeatEndpoint(t *testing.T) {
	svc := &sensormaster.SensorMasterMock{
		HeartbeatFunc: func(ctx context.Context, input sensormaster.HeartbeatInput) (sensormaster.HeartbeatResult, error) {
			return sensormaster.HeartbeatResult{
				ConfigUpdated: true,
				AckStatus:     map[int64]string{7: sensormaster.AckOK},
			}, nil
		},
	}

	is, server := testSetup(t, svc)

	body := `{"sensor_id":"esp32_001","status":"online","metrics":{"uptime":123,"free_memory":20480,"wifi_rssi":-61},"command_results":[{"command_id":7,"result":"success","message":"restarted"}]}`
	resp, responseBody := testRequest(is, http.MethodPost, server.URL+"/api/sensor-master/heartbeat", "", strings.NewReader(body))
	is.Equal(http.StatusOK, resp.StatusCode)

	var reply HeartbeatResponse
	is.NoErr(json.Unmarshal(responseBody, &reply))
	is.True(reply.Acknowledged)
	is.True(reply.ConfigUpdated)
	is.Equal("ok", reply.CommandAcks[7])

	input := svc.HeartbeatCalls()[0].Input
	is.Equal(1, len(input.CommandResults))
	is.Equal(int64(7), input.CommandResults[0].CommandID)
}

func TestGetScriptEndpoint(t *testing.T) {
	svc := &sensormaster.SensorMasterMock{
		GetScriptFunc: func(ctx context.Context, sensorID string) (scripts.Payload, error) {
			return scripts.Payload{
				Available:   true,
				ID:          3,
				Name:        "fermenter-cycle",
				Version:     "1.0.0",
				Content:     `{"name":"fermenter-cycle","version":"1.0.0","actions":[]}`,
				ContentHash: "0123456789abcdef",
			}, nil
		},
	}

	is, server := testSetup(t, svc)

	resp, responseBody := testRequest(is, http.MethodGet, server.URL+"/api/sensor-master/script/esp32_001", "", nil)
	is.Equal(http.StatusOK, resp.StatusCode)

	var reply ScriptResponse
	is.NoErr(json.Unmarshal(responseBody, &reply))
	is.True(reply.ScriptAvailable)
	is.Equal("1.0.0", reply.Version)
	is.Equal(int64(3), reply.ID)
}

func TestReportVersionEndpoint(t *testing.T) {
	svc := &sensormaster.SensorMasterMock{
		ReportVersionFunc: func(ctx context.Context, sensorID string, scriptVersion string, scriptID int64) error {
			return nil
		},
	}

	is, server := testSetup(t, svc)

	body := `{"sensor_id":"esp32_001","script_version":"1.0.0","script_id":3}`
	resp, responseBody := testRequest(is, http.MethodPost, server.URL+"/api/sensor-master/report-version", "", strings.NewReader(body))
	is.Equal(http.StatusOK, resp.StatusCode)

	var reply AcknowledgedResponse
	is.NoErr(json.Unmarshal(responseBody, &reply))
	is.True(reply.Acknowledged)
}

func TestScriptExecutedEndpoint(t *testing.T) {
	var reported time.Time

	svc := &sensormaster.SensorMasterMock{
		ReportExecutedFunc: func(ctx context.Context, sensorID string, executedAt time.Time) error {
			reported = executedAt
			return nil
		},
	}

	is, server := testSetup(t, svc)

	resp, _ := testRequest(is, http.MethodPost, server.URL+"/api/sensor-master/script-executed", "", strings.NewReader(`{"sensor_id":"esp32_001"}`))
	is.Equal(http.StatusOK, resp.StatusCode)
	is.True(!reported.IsZero())
}

func TestTelemetryEndpoint(t *testing.T) {
	svc := &sensormaster.SensorMasterMock{
		IngestTelemetryFunc: func(ctx context.Context, sample types.TelemetrySample) error {
			return nil
		},
	}

	is, server := testSetup(t, svc)

	body := `{"sensor_id":"esp32_001","payload":{"temperature":19.5}}`
	resp, _ := testRequest(is, http.MethodPost, server.URL+"/api/sensor-master/data", "", strings.NewReader(body))
	is.Equal(http.StatusAccepted, resp.StatusCode)
}

func TestStorageConflictMapsToRetryableError(t *testing.T) {
	svc := &sensormaster.SensorMasterMock{
		HeartbeatFunc: func(ctx context.Context, input sensormaster.HeartbeatInput) (sensormaster.HeartbeatResult, error) {
			return sensormaster.HeartbeatResult{}, fmt.Errorf("commit failed: %w", storage.ErrConflict)
		},
	}

	is, server := testSetup(t, svc)

	resp, _ := testRequest(is, http.MethodPost, server.URL+"/api/sensor-master/heartbeat", "", strings.NewReader(`{"sensor_id":"esp32_001"}`))
	is.Equal(http.StatusServiceUnavailable, resp.StatusCode)
	is.Equal("1", resp.Header.Get("Retry-After"))
}

func TestAdminSurfaceRequiresToken(t *testing.T) {
	is, server := testSetup(t, &sensormaster.SensorMasterMock{})

	resp, _ := testRequest(is, http.MethodGet, server.URL+"/api/sensor-master/instances", "", nil)
	is.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp, responseBody := testRequest(is, http.MethodGet, server.URL+"/api/sensor-master/instances", "valid-token", nil)
	is.Equal(http.StatusOK, resp.StatusCode)
	is.True(bytes.Contains(responseBody, []byte("sensor-master")))
}

func testRequest(is *is.I, method, url, token string, body *strings.Reader) (*http.Response, []byte) {
	var req *http.Request
	var err error

	if body != nil {
		req, err = http.NewRequest(method, url, body)
	} else {
		req, err = http.NewRequest(method, url, nil)
	}
	is.NoErr(err)

	req.Header.Add("Content-Type", "application/json")
	if token != "" {
		req.Header.Add("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	is.NoErr(err)
	defer resp.Body.Close()

	buf := new(bytes.Buffer)
	_, err = buf.ReadFrom(resp.Body)
	is.NoErr(err)

	return resp, buf.Bytes()
}
