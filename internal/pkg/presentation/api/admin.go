package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"github.com/fermlab/sensor-master/internal/pkg/application/commands"
	"github.com/fermlab/sensor-master/internal/pkg/application/configs"
	"github.com/fermlab/sensor-master/internal/pkg/application/devices"
	"github.com/fermlab/sensor-master/internal/pkg/application/scripts"
	"github.com/fermlab/sensor-master/pkg/types"
	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
)

// registerAdminHandlers mounts the operator CRUD surface. The sensor listing
// accepts sensor_id, sensor_type, status and search query parameters; config
// templates filter on sensor_id, sensor_type, active and search, commands on
// sensor_id and status, and scripts on sensor_id only. Mutations are
// transactional in the store.
func registerAdminHandlers(r chi.Router, a *api) {
	r.Route("/sensors", func(r chi.Router) {
		r.Get("/", a.listSensorsHandler())
		r.Get("/{sensor_id}", a.getSensorHandler())
		r.Delete("/{sensor_id}", a.deleteSensorHandler())
	})

	r.Route("/configs", func(r chi.Router) {
		r.Get("/", a.listConfigsHandler())
		r.Post("/", a.createConfigHandler())
		r.Get("/{id}", a.getConfigTemplateHandler())
		r.Put("/{id}", a.updateConfigHandler())
		r.Delete("/{id}", a.deleteConfigHandler())
	})

	r.Route("/commands", func(r chi.Router) {
		r.Get("/", a.listCommandsHandler())
		r.Post("/", a.enqueueCommandHandler())
		r.Get("/{id}", a.getCommandHandler())
		r.Delete("/{id}", a.deleteCommandHandler())
	})

	r.Route("/scripts", func(r chi.Router) {
		r.Get("/", a.listScriptsHandler())
		r.Post("/", a.assignScriptHandler())
		r.Get("/{id}", a.getScriptAdminHandler())
		r.Delete("/{id}", a.deleteScriptAdminHandler())
	})
}

// sensorView augments the stored device with the read-time derived fields
// operators filter on.
type sensorView struct {
	types.Device
	ExecutionStatus string `json:"execution_status"`
	AssignedVersion string `json:"assigned_script_version,omitempty"`
	VersionMismatch bool   `json:"script_version_mismatch,omitempty"`
}

func (a *api) toSensorView(r *http.Request, device types.Device) sensorView {
	view := sensorView{
		Device:          device,
		ExecutionStatus: a.scripts.ExecutionStatus(device, time.Now()),
	}

	payload, err := a.scripts.Fetch(r.Context(), device.SensorID)
	if err == nil && payload.Available {
		view.AssignedVersion = payload.Version
		view.VersionMismatch = device.LastReportedScriptVersion != "" && device.LastReportedScriptVersion != payload.Version
	}

	return view
}

func (a *api) listSensorsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "list-sensors")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(r.Context()), ctx)

		collection, err := a.devices.Query(ctx, r.URL.Query())
		if err != nil {
			log.Error("unable to list sensors", "err", err.Error())
			writeServiceError(w, err)
			return
		}

		views := lo.Map(collection.Data, func(d types.Device, _ int) sensorView {
			return a.toSensorView(r, d)
		})

		respondJSON(w, http.StatusOK, views)
	}
}

func (a *api) getSensorHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "get-sensor")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(r.Context()), ctx)

		sensorID := chi.URLParam(r, "sensor_id")

		device, err := a.devices.Get(ctx, sensorID)
		if err != nil {
			if errors.Is(err, devices.ErrDeviceNotFound) {
				writeError(w, http.StatusNotFound, "not_found", "no such sensor")
				return
			}
			log.Error("unable to fetch sensor", "sensor_id", sensorID, "err", err.Error())
			writeServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, a.toSensorView(r, device))
	}
}

// deleteSensorHandler removes a device; its queued commands and scripts go
// with it in the same transaction via the store's cascading deletes.
func (a *api) deleteSensorHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "delete-sensor")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(r.Context()), ctx)

		sensorID := chi.URLParam(r, "sensor_id")

		err = a.devices.Delete(ctx, sensorID)
		if err != nil {
			if errors.Is(err, devices.ErrDeviceNotFound) {
				writeError(w, http.StatusNotFound, "not_found", "no such sensor")
				return
			}
			log.Error("unable to delete sensor", "sensor_id", sensorID, "err", err.Error())
			writeServiceError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (a *api) listConfigsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "list-configs")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(r.Context()), ctx)

		templates, err := a.configs.Query(ctx, r.URL.Query())
		if err != nil {
			log.Error("unable to list config templates", "err", err.Error())
			writeServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, templates)
	}
}

func (a *api) createConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "create-config")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(r.Context()), ctx)

		var template types.ConfigTemplate
		if err = decodeBody(r, &template); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}

		if len(template.ConfigData) == 0 {
			err = errors.New("config_data is required")
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}

		if template.SensorID != nil && template.SensorType != nil {
			err = errors.New("a template targets a sensor_id or a sensor_type, not both")
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}

		created, err := a.configs.Create(ctx, template)
		if err != nil {
			log.Error("unable to create config template", "err", err.Error())
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}

		respondJSON(w, http.StatusCreated, created)
	}
}

func (a *api) getConfigTemplateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "get-config-template")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(r.Context()), ctx)

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid template id")
			return
		}

		template, err := a.configs.Get(ctx, id)
		if err != nil {
			if errors.Is(err, configs.ErrTemplateNotFound) {
				writeError(w, http.StatusNotFound, "not_found", "no such config template")
				return
			}
			log.Error("unable to fetch config template", "template_id", id, "err", err.Error())
			writeServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, template)
	}
}

func (a *api) updateConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "update-config")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(r.Context()), ctx)

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid template id")
			return
		}

		var template types.ConfigTemplate
		if err = decodeBody(r, &template); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		template.ID = id

		updated, err := a.configs.Update(ctx, template)
		if err != nil {
			if errors.Is(err, configs.ErrTemplateNotFound) {
				writeError(w, http.StatusNotFound, "not_found", "no such config template")
				return
			}
			log.Error("unable to update config template", "template_id", id, "err", err.Error())
			writeServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, updated)
	}
}

func (a *api) deleteConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "delete-config")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(r.Context()), ctx)

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid template id")
			return
		}

		err = a.configs.Delete(ctx, id)
		if err != nil {
			if errors.Is(err, configs.ErrTemplateNotFound) {
				writeError(w, http.StatusNotFound, "not_found", "no such config template")
				return
			}
			log.Error("unable to delete config template", "template_id", id, "err", err.Error())
			writeServiceError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (a *api) listCommandsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "list-commands")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(r.Context()), ctx)

		entries, err := a.commands.Query(ctx, r.URL.Query())
		if err != nil {
			log.Error("unable to list commands", "err", err.Error())
			writeServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, entries)
	}
}

func (a *api) enqueueCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "enqueue-command")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(r.Context()), ctx)

		var entry types.CommandQueueEntry
		if err = decodeBody(r, &entry); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}

		if entry.SensorID == "" || entry.CommandType == "" {
			err = errors.New("sensor_id and command_type are required")
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}

		created, err := a.commands.Enqueue(ctx, entry)
		if err != nil {
			log.Error("unable to enqueue command", "sensor_id", entry.SensorID, "err", err.Error())
			writeServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusCreated, created)
	}
}

func (a *api) getCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "get-command")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(r.Context()), ctx)

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid command id")
			return
		}

		entry, err := a.commands.Get(ctx, id)
		if err != nil {
			if errors.Is(err, commands.ErrCommandNotFound) {
				writeError(w, http.StatusNotFound, "not_found", "no such command")
				return
			}
			log.Error("unable to fetch command", "command_id", id, "err", err.Error())
			writeServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, entry)
	}
}

func (a *api) deleteCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "delete-command")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(r.Context()), ctx)

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid command id")
			return
		}

		err = a.commands.Delete(ctx, id)
		if err != nil {
			if errors.Is(err, commands.ErrCommandNotFound) {
				writeError(w, http.StatusNotFound, "not_found", "no such command")
				return
			}
			log.Error("unable to delete command", "command_id", id, "err", err.Error())
			writeServiceError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func (a *api) listScriptsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "list-scripts")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(r.Context()), ctx)

		list, err := a.scripts.Query(ctx, r.URL.Query())
		if err != nil {
			log.Error("unable to list scripts", "err", err.Error())
			writeServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, list)
	}
}

func (a *api) assignScriptHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "assign-script")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(r.Context()), ctx)

		var script types.Script
		if err = decodeBody(r, &script); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}

		if script.SensorID == "" || script.ScriptVersion == "" || script.ScriptContent == "" {
			err = errors.New("sensor_id, script_version and script_content are required")
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}

		created, err := a.scripts.Assign(ctx, script)
		if err != nil {
			if errors.Is(err, scripts.ErrDeviceNotFound) {
				writeError(w, http.StatusNotFound, "not_found", "no such sensor")
				return
			}
			log.Error("unable to assign script", "sensor_id", script.SensorID, "err", err.Error())
			writeServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusCreated, created)
	}
}

func (a *api) getScriptAdminHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "get-script-record")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(r.Context()), ctx)

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid script id")
			return
		}

		script, err := a.scripts.Get(ctx, id)
		if err != nil {
			if errors.Is(err, scripts.ErrScriptNotFound) {
				writeError(w, http.StatusNotFound, "not_found", "no such script")
				return
			}
			log.Error("unable to fetch script", "script_id", id, "err", err.Error())
			writeServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, script)
	}
}

func (a *api) deleteScriptAdminHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var err error

		ctx, span := tracer.Start(r.Context(), "delete-script")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(r.Context()), ctx)

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid script id")
			return
		}

		err = a.scripts.Delete(ctx, id)
		if err != nil {
			if errors.Is(err, scripts.ErrScriptNotFound) {
				writeError(w, http.StatusNotFound, "not_found", "no such script")
				return
			}
			log.Error("unable to delete script", "script_id", id, "err", err.Error())
			writeServiceError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
