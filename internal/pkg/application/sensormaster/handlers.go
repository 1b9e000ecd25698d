package sensormaster

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
)

// NewSensorStatusHandler accepts heartbeat-equivalent status messages that
// arrive over the message bus instead of HTTP. Gateways that batch uplinks
// from many sensors publish on the sensor-status topic and each message is
// applied with the same semantics as a device-initiated heartbeat.
func NewSensorStatusHandler(svc SensorMaster) messaging.TopicMessageHandler {
	return func(ctx context.Context, itm messaging.IncomingTopicMessage, l *slog.Logger) {
		var err error

		ctx, span := tracer.Start(ctx, "sensor-status")
		defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()
		_, ctx, log := o11y.AddTraceIDToLoggerAndStoreInContext(span, l, ctx)

		status := struct {
			SensorID string          `json:"sensor_id"`
			Status   string          `json:"status"`
			Metrics  json.RawMessage `json:"metrics"`
		}{}

		err = json.Unmarshal(itm.Body(), &status)
		if err != nil {
			log.Error("failed to unmarshal sensor status message", "err", err.Error())
			return
		}

		if status.SensorID == "" {
			log.Error("sensor status message without sensor_id")
			return
		}

		ctx = logging.NewContextWithLogger(ctx, log, slog.String("sensor_id", status.SensorID))

		_, err = svc.Heartbeat(ctx, HeartbeatInput{
			SensorID: status.SensorID,
			Status:   status.Status,
			Metrics:  status.Metrics,
		})
		if err != nil {
			log.Error("could not apply sensor status", "err", err.Error())
			return
		}
	}
}
