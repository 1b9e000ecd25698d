package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/fermlab/sensor-master/pkg/types"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

var tracer = otel.Tracer("sensor-master-client")

var ErrNotFound = fmt.Errorf("not found")

// SensorMasterClient talks to the operator surface of a sensor-master
// instance. Intended for automation and sibling services, not for devices.
type SensorMasterClient interface {
	Sensors(ctx context.Context, params url.Values) ([]types.Device, error)
	Sensor(ctx context.Context, sensorID string) (types.Device, error)
	DeleteSensor(ctx context.Context, sensorID string) error

	CreateConfigTemplate(ctx context.Context, template types.ConfigTemplate) (types.ConfigTemplate, error)
	EnqueueCommand(ctx context.Context, entry types.CommandQueueEntry) (types.CommandQueueEntry, error)
	AssignScript(ctx context.Context, script types.Script) (types.Script, error)

	Close(ctx context.Context)
}

type clientImpl struct {
	url               string
	clientCredentials *clientcredentials.Config
	httpClient        http.Client
	oauthCtx          context.Context
}

func New(ctx context.Context, serviceURL, oauthTokenURL string, oauthInsecureURL bool, oauthClientID, oauthClientSecret string) (SensorMasterClient, error) {
	oauthConfig := &clientcredentials.Config{
		ClientID:     oauthClientID,
		ClientSecret: oauthClientSecret,
		TokenURL:     oauthTokenURL,
	}

	httpTransport := http.DefaultTransport
	if oauthInsecureURL {
		trans, ok := httpTransport.(*http.Transport)
		if ok {
			if trans.TLSClientConfig == nil {
				trans.TLSClientConfig = &tls.Config{}
			}
			trans.TLSClientConfig.InsecureSkipVerify = true
		}
	}

	httpClient := http.Client{
		Transport: otelhttp.NewTransport(httpTransport),
	}

	oauthCtx := context.WithValue(context.Background(), oauth2.HTTPClient, &httpClient)

	c := &clientImpl{
		url:               serviceURL,
		clientCredentials: oauthConfig,
		httpClient:        httpClient,
		oauthCtx:          oauthCtx,
	}

	if oauthTokenURL != "" {
		token, err := oauthConfig.Token(oauthCtx)
		if err != nil {
			return nil, fmt.Errorf("failed to get client credentials from %s: %w", oauthTokenURL, err)
		}

		if !token.Valid() {
			return nil, fmt.Errorf("an invalid token was returned from %s", oauthTokenURL)
		}
	}

	return c, nil
}

func (c *clientImpl) Close(ctx context.Context) {
	c.httpClient.CloseIdleConnections()
}

func (c *clientImpl) Sensors(ctx context.Context, params url.Values) ([]types.Device, error) {
	var err error

	ctx, span := tracer.Start(ctx, "list-sensors")
	defer func() { span.End() }()

	path := "/api/sensor-master/sensors"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	sensors := []types.Device{}
	err = json.Unmarshal(body, &sensors)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal sensor list: %w", err)
	}

	return sensors, nil
}

func (c *clientImpl) Sensor(ctx context.Context, sensorID string) (types.Device, error) {
	var err error

	ctx, span := tracer.Start(ctx, "get-sensor")
	defer func() { span.End() }()

	body, err := c.do(ctx, http.MethodGet, "/api/sensor-master/sensors/"+sensorID, nil)
	if err != nil {
		return types.Device{}, err
	}

	device := types.Device{}
	err = json.Unmarshal(body, &device)
	if err != nil {
		return types.Device{}, fmt.Errorf("failed to unmarshal sensor: %w", err)
	}

	return device, nil
}

func (c *clientImpl) DeleteSensor(ctx context.Context, sensorID string) error {
	ctx, span := tracer.Start(ctx, "delete-sensor")
	defer func() { span.End() }()

	_, err := c.do(ctx, http.MethodDelete, "/api/sensor-master/sensors/"+sensorID, nil)
	return err
}

func (c *clientImpl) CreateConfigTemplate(ctx context.Context, template types.ConfigTemplate) (types.ConfigTemplate, error) {
	ctx, span := tracer.Start(ctx, "create-config-template")
	defer func() { span.End() }()

	payload, err := json.Marshal(template)
	if err != nil {
		return types.ConfigTemplate{}, err
	}

	body, err := c.do(ctx, http.MethodPost, "/api/sensor-master/configs", payload)
	if err != nil {
		return types.ConfigTemplate{}, err
	}

	created := types.ConfigTemplate{}
	err = json.Unmarshal(body, &created)
	if err != nil {
		return types.ConfigTemplate{}, fmt.Errorf("failed to unmarshal config template: %w", err)
	}

	return created, nil
}

func (c *clientImpl) EnqueueCommand(ctx context.Context, entry types.CommandQueueEntry) (types.CommandQueueEntry, error) {
	ctx, span := tracer.Start(ctx, "enqueue-command")
	defer func() { span.End() }()

	payload, err := json.Marshal(entry)
	if err != nil {
		return types.CommandQueueEntry{}, err
	}

	body, err := c.do(ctx, http.MethodPost, "/api/sensor-master/commands", payload)
	if err != nil {
		return types.CommandQueueEntry{}, err
	}

	created := types.CommandQueueEntry{}
	err = json.Unmarshal(body, &created)
	if err != nil {
		return types.CommandQueueEntry{}, fmt.Errorf("failed to unmarshal command: %w", err)
	}

	return created, nil
}

func (c *clientImpl) AssignScript(ctx context.Context, script types.Script) (types.Script, error) {
	ctx, span := tracer.Start(ctx, "assign-script")
	defer func() { span.End() }()

	payload, err := json.Marshal(script)
	if err != nil {
		return types.Script{}, err
	}

	body, err := c.do(ctx, http.MethodPost, "/api/sensor-master/scripts", payload)
	if err != nil {
		return types.Script{}, err
	}

	created := types.Script{}
	err = json.Unmarshal(body, &created)
	if err != nil {
		return types.Script{}, fmt.Errorf("failed to unmarshal script: %w", err)
	}

	return created, nil
}

func (c *clientImpl) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if payload != nil {
		req.Header.Add("Content-Type", "application/json")
	}

	if c.clientCredentials.TokenURL != "" {
		token, err := c.clientCredentials.Token(c.oauthCtx)
		if err != nil {
			return nil, fmt.Errorf("failed to get client credentials: %w", err)
		}
		token.SetAuthHeader(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("request failed with status code %d", resp.StatusCode)
	}

	return body, nil
}
