package events

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"golang.org/x/sys/unix"
	yaml "gopkg.in/yaml.v2"
)

// EventSender pushes control-plane notifications to operator-configured
// subscriber endpoints as CloudEvents.
type EventSender interface {
	Send(ctx context.Context, eventType, subject string, data any) error
}

type eventSender struct {
	subscribers map[string][]SubscriberConfig
}

func New(cfg *Config) EventSender {
	e := &eventSender{
		subscribers: make(map[string][]SubscriberConfig),
	}

	if cfg != nil {
		for _, s := range cfg.Notifications {
			e.subscribers[s.Type] = s.Subscribers
		}
	}

	return e
}

func (e *eventSender) Send(ctx context.Context, eventType, subject string, data any) error {
	if s, ok := e.subscribers[eventType]; !ok || len(s) == 0 {
		return nil
	}

	c, err := cloudevents.NewClientHTTP()
	if err != nil {
		return err
	}

	now := time.Now().UTC()

	event := cloudevents.NewEvent()
	event.SetID(fmt.Sprintf("%s:%d", subject, now.UnixNano()))
	event.SetTime(now)
	event.SetSource("github.com/fermlab/sensor-master")
	event.SetType(eventType)
	event.SetSubject(subject)

	err = event.SetData(cloudevents.ApplicationJSON, data)
	if err != nil {
		return err
	}

	logger := logging.GetFromContext(ctx)

	for _, s := range e.subscribers[eventType] {
		ctxWithTarget := cloudevents.ContextWithTarget(ctx, s.Endpoint)

		result := c.Send(ctxWithTarget, event)
		if cloudevents.IsUndelivered(result) || errors.Is(result, unix.ECONNREFUSED) {
			logger.Error("failed to send event", "endpoint", s.Endpoint, "err", result.Error())
			err = fmt.Errorf("%w", result)
		}
	}

	return err
}

type SubscriberConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type Notification struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Type        string             `yaml:"type"`
	Subscribers []SubscriberConfig `yaml:"subscribers"`
}

type Config struct {
	Notifications []Notification `yaml:"notifications"`
}

func LoadConfiguration(data io.Reader) (*Config, error) {
	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := Config{}
	if err := yaml.Unmarshal(buf, &cfg); err == nil {
		return &cfg, nil
	} else {
		return nil, err
	}
}
