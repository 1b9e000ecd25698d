package configs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/fermlab/sensor-master/internal/pkg/infrastructure/storage"
	"github.com/fermlab/sensor-master/pkg/types"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("sensor-master/configs")

var ErrUnknownDevice = fmt.Errorf("unknown device")
var ErrTemplateNotFound = fmt.Errorf("config template not found")

// Resolution is the outcome of resolving the effective config for a device.
type Resolution struct {
	Available  bool
	Changed    bool
	Hash       string
	Name       string
	Version    int
	TemplateID int64
	Config     json.RawMessage
}

// PollingInterval reads polling_interval out of the effective config, falling
// back to the given default. The rest of the payload stays opaque.
func (r Resolution) PollingInterval(fallback int) int {
	if !r.Available {
		return fallback
	}

	envelope := struct {
		PollingInterval int `json:"polling_interval"`
	}{}

	if err := json.Unmarshal(r.Config, &envelope); err != nil || envelope.PollingInterval <= 0 {
		return fallback
	}

	return envelope.PollingInterval
}

type ConfigResolver interface {
	Resolve(ctx context.Context, sensorID, deviceLastHash string) (Resolution, error)

	Create(ctx context.Context, template types.ConfigTemplate) (types.ConfigTemplate, error)
	Update(ctx context.Context, template types.ConfigTemplate) (types.ConfigTemplate, error)
	Get(ctx context.Context, id int64) (types.ConfigTemplate, error)
	Query(ctx context.Context, params map[string][]string) ([]types.ConfigTemplate, error)
	Delete(ctx context.Context, id int64) error
	SetActive(ctx context.Context, id int64, active bool) error
}

//go:generate moq -rm -out configstorage_mock.go . ConfigStorage
type ConfigStorage interface {
	GetDevice(ctx context.Context, sensorID string) (types.Device, error)
	AddConfigTemplate(ctx context.Context, template types.ConfigTemplate) (types.ConfigTemplate, error)
	UpdateConfigTemplate(ctx context.Context, template types.ConfigTemplate) (types.ConfigTemplate, error)
	GetConfigTemplate(ctx context.Context, id int64) (types.ConfigTemplate, error)
	QueryConfigTemplates(ctx context.Context, conditions ...storage.ConditionFunc) ([]types.ConfigTemplate, error)
	SetConfigTemplateActive(ctx context.Context, id int64, active bool) error
	DeleteConfigTemplate(ctx context.Context, id int64) error
}

type resolver struct {
	storage ConfigStorage
}

func New(s ConfigStorage) ConfigResolver {
	return &resolver{storage: s}
}

// Resolve walks the targeting tiers in precedence order and stops at the
// first tier holding an active template: device-specific, then type-wide,
// then default. The winner inside a tier is the template with the lowest
// priority integer; ties break on largest version, then largest id, so the
// outcome is total and re-resolving is deterministic.
func (r *resolver) Resolve(ctx context.Context, sensorID, deviceLastHash string) (Resolution, error) {
	var err error

	ctx, span := tracer.Start(ctx, "resolve-config")
	defer func() { span.End() }()

	log := logging.GetFromContext(ctx)

	device, err := r.storage.GetDevice(ctx, sensorID)
	if err != nil {
		if errors.Is(err, storage.ErrNoRows) {
			return Resolution{}, ErrUnknownDevice
		}
		return Resolution{}, err
	}

	tiers := [][]storage.ConditionFunc{
		{storage.WithSensorID(sensorID), storage.WithActiveOnly()},
	}
	if device.SensorType != "" {
		tiers = append(tiers, []storage.ConditionFunc{storage.WithSensorType(device.SensorType), storage.WithActiveOnly()})
	}
	tiers = append(tiers, []storage.ConditionFunc{storage.WithDefaultScope(), storage.WithActiveOnly()})

	for _, tier := range tiers {
		templates, err := r.storage.QueryConfigTemplates(ctx, tier...)
		if err != nil {
			return Resolution{}, err
		}

		if len(templates) == 0 {
			continue
		}

		winner := pickWinner(templates)
		hash := Hash(winner.ConfigData)

		log.Debug("resolved config", "sensor_id", sensorID, "template_id", winner.ID, "hash", hash)

		return Resolution{
			Available:  true,
			Changed:    deviceLastHash == "" || deviceLastHash != hash,
			Hash:       hash,
			Name:       winner.Name,
			Version:    winner.Version,
			TemplateID: winner.ID,
			Config:     winner.ConfigData,
		}, nil
	}

	return Resolution{Available: false, Hash: ""}, nil
}

func pickWinner(templates []types.ConfigTemplate) types.ConfigTemplate {
	winner := templates[0]
	for _, t := range templates[1:] {
		if templateLess(t, winner) {
			winner = t
		}
	}
	return winner
}

func templateLess(a, b types.ConfigTemplate) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	if a.Version != b.Version {
		return a.Version > b.Version
	}
	return a.ID > b.ID
}

func (r *resolver) Create(ctx context.Context, template types.ConfigTemplate) (types.ConfigTemplate, error) {
	canonical, err := Canonicalize(template.ConfigData)
	if err != nil {
		return types.ConfigTemplate{}, err
	}
	template.ConfigData = canonical

	return r.storage.AddConfigTemplate(ctx, template)
}

func (r *resolver) Update(ctx context.Context, template types.ConfigTemplate) (types.ConfigTemplate, error) {
	canonical, err := Canonicalize(template.ConfigData)
	if err != nil {
		return types.ConfigTemplate{}, err
	}
	template.ConfigData = canonical

	updated, err := r.storage.UpdateConfigTemplate(ctx, template)
	if errors.Is(err, storage.ErrNoRows) {
		return types.ConfigTemplate{}, ErrTemplateNotFound
	}

	return updated, err
}

func (r *resolver) Get(ctx context.Context, id int64) (types.ConfigTemplate, error) {
	template, err := r.storage.GetConfigTemplate(ctx, id)
	if errors.Is(err, storage.ErrNoRows) {
		return types.ConfigTemplate{}, ErrTemplateNotFound
	}
	return template, err
}

func (r *resolver) Query(ctx context.Context, params map[string][]string) ([]types.ConfigTemplate, error) {
	conditions := make([]storage.ConditionFunc, 0)

	for k, v := range params {
		switch strings.ToLower(k) {
		case "sensor_id":
			conditions = append(conditions, storage.WithSensorID(v[0]))
		case "sensor_type":
			conditions = append(conditions, storage.WithSensorType(v[0]))
		case "active":
			if active, _ := strconv.ParseBool(v[0]); active {
				conditions = append(conditions, storage.WithActiveOnly())
			}
		case "search":
			conditions = append(conditions, storage.WithSearch(v[0]))
		case "limit":
			limit, _ := strconv.Atoi(v[0])
			conditions = append(conditions, storage.WithLimit(limit))
		case "offset":
			offset, _ := strconv.Atoi(v[0])
			conditions = append(conditions, storage.WithOffset(offset))
		}
	}

	return r.storage.QueryConfigTemplates(ctx, conditions...)
}

func (r *resolver) Delete(ctx context.Context, id int64) error {
	err := r.storage.DeleteConfigTemplate(ctx, id)
	if errors.Is(err, storage.ErrNoRows) {
		return ErrTemplateNotFound
	}
	return err
}

func (r *resolver) SetActive(ctx context.Context, id int64, active bool) error {
	err := r.storage.SetConfigTemplateActive(ctx, id, active)
	if errors.Is(err, storage.ErrNoRows) {
		return ErrTemplateNotFound
	}
	return err
}
