package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/fermlab/sensor-master/pkg/types"
	"github.com/matryer/is"
)

func TestSensors(t *testing.T) {
	is := is.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		is.Equal("/api/sensor-master/sensors", r.URL.Path)
		is.Equal("esp32_fermentation", r.URL.Query().Get("sensor_type"))

		w.Header().Add("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]types.Device{{SensorID: "esp32_001", SensorType: "esp32_fermentation"}})
	}))
	defer server.Close()

	c, err := New(context.Background(), server.URL, "", false, "", "")
	is.NoErr(err)
	defer c.Close(context.Background())

	params := url.Values{}
	params.Set("sensor_type", "esp32_fermentation")

	sensors, err := c.Sensors(context.Background(), params)
	is.NoErr(err)
	is.Equal(1, len(sensors))
	is.Equal("esp32_001", sensors[0].SensorID)
}

func TestSensorNotFound(t *testing.T) {
	is := is.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c, err := New(context.Background(), server.URL, "", false, "", "")
	is.NoErr(err)

	_, err = c.Sensor(context.Background(), "ghost")
	is.Equal(ErrNotFound, err)
}

func TestEnqueueCommand(t *testing.T) {
	is := is.New(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		is.Equal(http.MethodPost, r.Method)
		is.Equal("/api/sensor-master/commands", r.URL.Path)

		var entry types.CommandQueueEntry
		is.NoErr(json.NewDecoder(r.Body).Decode(&entry))
		entry.ID = 42
		entry.Status = types.CommandPending

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(entry)
	}))
	defer server.Close()

	c, err := New(context.Background(), server.URL, "", false, "", "")
	is.NoErr(err)

	created, err := c.EnqueueCommand(context.Background(), types.CommandQueueEntry{
		SensorID:    "esp32_001",
		CommandType: "restart",
		Priority:    1,
	})
	is.NoErr(err)
	is.Equal(int64(42), created.ID)
	is.Equal(types.CommandPending, created.Status)
}
