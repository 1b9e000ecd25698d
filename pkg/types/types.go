package types

import (
	"encoding/json"
	"time"
)

// Device is a registered sensor. The sensor chooses its own id and keeps it
// across reboots; re-registration updates the descriptive fields only.
type Device struct {
	SensorID        string   `json:"sensor_id"`
	SensorType      string   `json:"sensor_type"`
	SensorName      string   `json:"sensor_name,omitempty"`
	HardwareInfo    string   `json:"hardware_info,omitempty"`
	FirmwareVersion string   `json:"firmware_version,omitempty"`
	IPAddress       string   `json:"ip_address,omitempty"`
	MACAddress      string   `json:"mac_address,omitempty"`
	Capabilities    []string `json:"capabilities,omitempty"`

	LastCheckIn             time.Time `json:"last_check_in"`
	Status                  string    `json:"status,omitempty"`
	LastConfigHashDelivered string    `json:"last_config_hash_delivered,omitempty"`

	LastScriptExecution       time.Time `json:"last_script_execution,omitempty"`
	LastReportedScriptVersion string    `json:"last_reported_script_version,omitempty"`
	LastReportedScriptID      int64     `json:"last_reported_script_id,omitempty"`

	CreatedOn  time.Time `json:"created_on,omitempty"`
	ModifiedOn time.Time `json:"modified_on,omitempty"`
}

const (
	DeviceStatusOnline  = "online"
	DeviceStatusPending = "pending"
	DeviceStatusOffline = "offline"
)

// ConfigTemplate is a JSON payload intended for one device, one sensor type,
// or (when neither is set) every device that matches no narrower template.
type ConfigTemplate struct {
	ID         int64           `json:"id"`
	Name       string          `json:"config_name"`
	ConfigData json.RawMessage `json:"config_data"`
	Priority   int             `json:"priority"`
	IsActive   bool            `json:"is_active"`
	Version    int             `json:"version"`

	SensorID   *string `json:"sensor_id,omitempty"`
	SensorType *string `json:"sensor_type,omitempty"`

	CreatedOn  time.Time `json:"created_on,omitempty"`
	ModifiedOn time.Time `json:"modified_on,omitempty"`
}

// CommandQueueEntry is one unit of remote work for a single device.
type CommandQueueEntry struct {
	ID          int64           `json:"id"`
	SensorID    string          `json:"sensor_id"`
	CommandType string          `json:"command_type"`
	CommandData json.RawMessage `json:"command_data,omitempty"`
	Priority    int             `json:"priority"`
	Status      string          `json:"status"`

	CreatedAt     time.Time  `json:"created_at"`
	DeliveredAt   *time.Time `json:"delivered_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	ResultMessage string     `json:"result_message,omitempty"`
}

const (
	CommandPending   = "pending"
	CommandDelivered = "delivered"
	CommandCompleted = "completed"
	CommandFailed    = "failed"
	CommandExpired   = "expired"
)

// IsTerminal reports whether the entry has reached a state it never leaves.
func (c CommandQueueEntry) IsTerminal() bool {
	return c.Status == CommandCompleted || c.Status == CommandFailed || c.Status == CommandExpired
}

// Script is a named, versioned action program interpreted by the device.
// The content is opaque to the control plane.
type Script struct {
	ID            int64     `json:"id"`
	SensorID      string    `json:"sensor_id"`
	ScriptContent string    `json:"script_content"`
	ScriptVersion string    `json:"script_version"`
	Description   string    `json:"description,omitempty"`
	UploadedAt    time.Time `json:"uploaded_at"`
}

const (
	ExecutionRunning = "running"
	ExecutionRecent  = "recent"
	ExecutionIdle    = "idle"
)

type Collection[T any] struct {
	Data       []T    `json:"data"`
	Count      uint64 `json:"count"`
	Offset     uint64 `json:"offset"`
	Limit      uint64 `json:"limit"`
	TotalCount uint64 `json:"totalCount"`
}
