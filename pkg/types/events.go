package types

import (
	"encoding/json"
	"time"
)

type DeviceRegistered struct {
	SensorID   string    `json:"sensor_id"`
	SensorType string    `json:"sensor_type"`
	Timestamp  time.Time `json:"timestamp"`
}

func (d *DeviceRegistered) Body() []byte {
	b, _ := json.Marshal(d)
	return b
}
func (d *DeviceRegistered) ContentType() string {
	return "application/json"
}
func (d *DeviceRegistered) TopicName() string {
	return "sensor.registered"
}

type ConfigDelivered struct {
	SensorID   string    `json:"sensor_id"`
	ConfigHash string    `json:"config_hash"`
	Version    int       `json:"config_version"`
	Timestamp  time.Time `json:"timestamp"`
}

func (c *ConfigDelivered) Body() []byte {
	b, _ := json.Marshal(c)
	return b
}
func (c *ConfigDelivered) ContentType() string {
	return "application/json"
}
func (c *ConfigDelivered) TopicName() string {
	return "sensor.configDelivered"
}

type CommandAcknowledged struct {
	SensorID    string    `json:"sensor_id"`
	CommandID   int64     `json:"command_id"`
	CommandType string    `json:"command_type"`
	Result      string    `json:"result"`
	Message     string    `json:"message,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

func (c *CommandAcknowledged) Body() []byte {
	b, _ := json.Marshal(c)
	return b
}
func (c *CommandAcknowledged) ContentType() string {
	return "application/json"
}
func (c *CommandAcknowledged) TopicName() string {
	return "sensor.commandAcknowledged"
}

type TelemetrySample struct {
	SensorID  string          `json:"sensor_id"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

func (t *TelemetrySample) Body() []byte {
	b, _ := json.Marshal(t)
	return b
}
func (t *TelemetrySample) ContentType() string {
	return "application/json"
}
func (t *TelemetrySample) TopicName() string {
	return "sensor.telemetry"
}
