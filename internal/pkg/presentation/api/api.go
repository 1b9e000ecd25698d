package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/fermlab/sensor-master/internal/pkg/application/commands"
	"github.com/fermlab/sensor-master/internal/pkg/application/configs"
	"github.com/fermlab/sensor-master/internal/pkg/application/devices"
	"github.com/fermlab/sensor-master/internal/pkg/application/scripts"
	"github.com/fermlab/sensor-master/internal/pkg/application/sensormaster"
	"github.com/fermlab/sensor-master/internal/pkg/infrastructure/storage"
	"github.com/fermlab/sensor-master/internal/pkg/presentation/api/auth"
	"github.com/fermlab/sensor-master/pkg/types"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("sensor-master/api")

var checkInCounter = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "sensormaster_checkins_total",
	Help: "Total number of device check-ins by kind.",
}, []string{"kind"})

var commandsDeliveredCounter = promauto.NewCounter(prometheus.CounterOpts{
	Name: "sensormaster_commands_delivered_total",
	Help: "Total number of commands handed to devices.",
})

// MasterInstance is the display identity this service answers with. Multiple
// master instances only ever differ by name; a device talks to exactly one.
type MasterInstance struct {
	Name     string
	MasterID int
}

type api struct {
	svc      sensormaster.SensorMaster
	devices  devices.DeviceRegistry
	configs  configs.ConfigResolver
	commands commands.CommandQueue
	scripts  scripts.ScriptRegistry
	instance MasterInstance
}

func RegisterHandlers(ctx context.Context, router *chi.Mux, policies io.Reader, svc sensormaster.SensorMaster, deviceRegistry devices.DeviceRegistry, configResolver configs.ConfigResolver, commandQueue commands.CommandQueue, scriptRegistry scripts.ScriptRegistry, instance MasterInstance) (*chi.Mux, error) {
	a := &api{
		svc:      svc,
		devices:  deviceRegistry,
		configs:  configResolver,
		commands: commandQueue,
		scripts:  scriptRegistry,
		instance: instance,
	}

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	authenticator, err := auth.NewAuthenticator(ctx, policies)
	if err != nil {
		return nil, err
	}

	router.Route("/api/sensor-master", func(r chi.Router) {
		// device-facing endpoints are unauthenticated in v1; devices carry no
		// credentials yet
		r.Post("/register", a.registerHandler())
		r.Get("/config/{sensor_id}", a.getConfigHandler())
		r.Post("/heartbeat", a.heartbeatHandler())
		r.Get("/script/{sensor_id}", a.getScriptHandler())
		r.Post("/script-executed", a.scriptExecutedHandler())
		r.Post("/report-version", a.reportVersionHandler())
		r.Post("/data", a.telemetryHandler())

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.Get("/instances", a.listInstancesHandler())
			registerAdminHandlers(r, a)
		})
	})

	return router, nil
}

func (a *api) registerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "register")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(r.Context()), ctx)

		var req RegisterRequest
		if err = decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}

		if req.SensorID == "" {
			err = errors.New("sensor_id is required")
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}

		result, err := a.svc.Register(ctx, types.Device{
			SensorID:        req.SensorID,
			SensorType:      req.SensorType,
			SensorName:      req.SensorName,
			HardwareInfo:    req.HardwareInfo,
			FirmwareVersion: req.FirmwareVersion,
			IPAddress:       req.IPAddress,
			MACAddress:      req.MACAddress,
			Capabilities:    req.Capabilities,
		})
		if err != nil {
			log.Error("registration failed", "sensor_id", req.SensorID, "err", err.Error())
			writeServiceError(w, err)
			return
		}

		checkInCounter.WithLabelValues("register").Inc()

		log.Info("device registered", "sensor_id", req.SensorID, "has_config", result.HasConfig)

		respondJSON(w, http.StatusOK, RegisterResponse{
			Status:          "registered",
			AssignedMaster:  a.instance.Name,
			MasterID:        a.instance.MasterID,
			HasConfig:       result.HasConfig,
			CheckInInterval: result.CheckInInterval,
			ConfigEndpoint:  "/api/sensor-master/config/" + req.SensorID,
		})
	}
}

func (a *api) getConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "get-config")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(r.Context()), ctx)

		sensorID := chi.URLParam(r, "sensor_id")
		currentHash := r.URL.Query().Get("hash")

		result, err := a.svc.GetConfig(ctx, sensorID, currentHash)
		if err != nil {
			log.Error("config fetch failed", "sensor_id", sensorID, "err", err.Error())
			writeServiceError(w, err)
			return
		}

		checkInCounter.WithLabelValues("config").Inc()
		commandsDeliveredCounter.Add(float64(len(result.Commands)))

		respondJSON(w, http.StatusOK, ConfigResponse{
			ConfigAvailable: result.Resolution.Available,
			ConfigChanged:   result.Resolution.Changed,
			ConfigHash:      result.Resolution.Hash,
			ConfigName:      result.Resolution.Name,
			ConfigVersion:   result.Resolution.Version,
			Config:          result.Resolution.Config,
			Commands:        toCommandEntries(result.Commands),
			CheckInInterval: result.CheckInInterval,
		})
	}
}

func (a *api) heartbeatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "heartbeat")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(r.Context()), ctx)

		var req HeartbeatRequest
		if err = decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}

		if req.SensorID == "" {
			err = errors.New("sensor_id is required")
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}

		result, err := a.svc.Heartbeat(ctx, sensormaster.HeartbeatInput{
			SensorID: req.SensorID,
			Status:   req.Status,
			Metrics:  req.Metrics,
			CommandResults: lo.Map(req.CommandResults, func(item CommandResultItem, _ int) sensormaster.CommandResult {
				return sensormaster.CommandResult{
					CommandID: item.CommandID,
					Result:    item.Result,
					Message:   item.Message,
				}
			}),
		})
		if err != nil {
			log.Error("heartbeat failed", "sensor_id", req.SensorID, "err", err.Error())
			writeServiceError(w, err)
			return
		}

		checkInCounter.WithLabelValues("heartbeat").Inc()
		commandsDeliveredCounter.Add(float64(len(result.Commands)))

		respondJSON(w, http.StatusOK, HeartbeatResponse{
			Acknowledged:  true,
			ConfigUpdated: result.ConfigUpdated,
			Commands:      toCommandEntries(result.Commands),
			CommandAcks:   result.AckStatus,
		})
	}
}

func (a *api) getScriptHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "get-script")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(r.Context()), ctx)

		sensorID := chi.URLParam(r, "sensor_id")

		payload, err := a.svc.GetScript(ctx, sensorID)
		if err != nil {
			log.Error("script fetch failed", "sensor_id", sensorID, "err", err.Error())
			writeServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, ScriptResponse{
			ScriptAvailable: payload.Available,
			Script:          payload.Content,
			Version:         payload.Version,
			ID:              payload.ID,
			Name:            payload.Name,
			ContentHash:     payload.ContentHash,
		})
	}
}

func (a *api) scriptExecutedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "script-executed")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(r.Context()), ctx)

		var req ScriptExecutedRequest
		if err = decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}

		if req.SensorID == "" {
			err = errors.New("sensor_id is required")
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}

		executedAt := time.Now()
		if req.ExecutedAt != nil {
			executedAt = *req.ExecutedAt
		}

		err = a.svc.ReportExecuted(ctx, req.SensorID, executedAt)
		if err != nil {
			log.Error("execution report failed", "sensor_id", req.SensorID, "err", err.Error())
			writeServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, AcknowledgedResponse{Acknowledged: true})
	}
}

func (a *api) reportVersionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "report-version")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(r.Context()), ctx)

		var req ReportVersionRequest
		if err = decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}

		if req.SensorID == "" || req.ScriptVersion == "" {
			err = errors.New("sensor_id and script_version are required")
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}

		err = a.svc.ReportVersion(ctx, req.SensorID, req.ScriptVersion, req.ScriptID)
		if err != nil {
			log.Error("version report failed", "sensor_id", req.SensorID, "err", err.Error())
			writeServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, AcknowledgedResponse{Acknowledged: true})
	}
}

func (a *api) telemetryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "ingest-telemetry")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(r.Context()), ctx)

		var req TelemetryRequest
		if err = decodeBody(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}

		if req.SensorID == "" {
			err = errors.New("sensor_id is required")
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}

		err = a.svc.IngestTelemetry(ctx, types.TelemetrySample{
			SensorID: req.SensorID,
			Payload:  req.Payload,
		})
		if err != nil {
			log.Error("telemetry ingest failed", "sensor_id", req.SensorID, "err", err.Error())
			writeServiceError(w, err)
			return
		}

		w.WriteHeader(http.StatusAccepted)
	}
}

func (a *api) listInstancesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, []map[string]any{
			{
				"master_id": a.instance.MasterID,
				"name":      a.instance.Name,
			},
		})
	}
}

func toCommandEntries(entries []types.CommandQueueEntry) []CommandEntry {
	return lo.Map(entries, func(e types.CommandQueueEntry, _ int) CommandEntry {
		return CommandEntry{
			ID:          e.ID,
			CommandType: e.CommandType,
			CommandData: e.CommandData,
			Priority:    e.Priority,
			ExpiresAt:   e.ExpiresAt,
		}
	})
}

func decodeBody(r *http.Request, v any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return errors.New("unable to read body")
	}

	err = json.Unmarshal(body, v)
	if err != nil {
		return errors.New("malformed json body")
	}

	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	bytes, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(bytes)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// writeServiceError converts application errors into the device-facing error
// contract: unknown devices prompt re-registration, retryable storage errors
// carry a retry hint, everything else is internal.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, devices.ErrDeviceNotFound),
		errors.Is(err, configs.ErrUnknownDevice),
		errors.Is(err, scripts.ErrDeviceNotFound):
		writeError(w, http.StatusConflict, "device_not_registered", "unknown sensor_id, re-register")
	case errors.Is(err, storage.ErrConflict):
		w.Header().Add("Retry-After", "1")
		writeError(w, http.StatusServiceUnavailable, "conflict", "transaction conflict, retry")
	case errors.Is(err, context.DeadlineExceeded):
		w.Header().Add("Retry-After", "5")
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable", "storage timeout, retry")
	default:
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}
