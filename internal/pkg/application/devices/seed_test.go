package devices

import (
	"context"
	"strings"
	"testing"

	"github.com/fermlab/sensor-master/internal/pkg/infrastructure/storage"
	"github.com/fermlab/sensor-master/pkg/types"
	"github.com/matryer/is"
)

const seedData = `
sensor_id;sensor_type;name;capabilities
esp32_001;esp32_fermentation;fermenter one;temperature,gravity
esp32_002;esp32_fermentation;fermenter two;
# a comment
esp32_003;esp32_coldroom;cold room
`

func TestSeedDevices(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()

	known := map[string]types.Device{}
	store := &DeviceStorageMock{
		GetDeviceFunc: func(ctx context.Context, sensorID string) (types.Device, error) {
			if d, ok := known[sensorID]; ok {
				return d, nil
			}
			return types.Device{}, storage.ErrNoRows
		},
		CreateOrUpdateDeviceFunc: func(ctx context.Context, device types.Device) error {
			known[device.SensorID] = device
			return nil
		},
	}

	err := SeedDevices(ctx, store, strings.NewReader(seedData))
	is.NoErr(err)

	is.Equal(3, len(known))
	is.Equal("fermenter one", known["esp32_001"].SensorName)
	is.Equal(2, len(known["esp32_001"].Capabilities))
	is.Equal(0, len(known["esp32_002"].Capabilities))
	is.Equal("esp32_coldroom", known["esp32_003"].SensorType)
}

func TestSeedDevicesRejectsMalformedLines(t *testing.T) {
	is := is.New(t)

	store := &DeviceStorageMock{}

	err := SeedDevices(context.Background(), store, strings.NewReader("esp32_001\n"))
	is.True(err != nil)
}
