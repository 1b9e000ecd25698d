package devices

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/fermlab/sensor-master/internal/pkg/infrastructure/storage"
	"github.com/fermlab/sensor-master/pkg/types"
)

// SeedDevices loads known sensors from a semicolon separated file so a fleet
// can be pre-registered before the devices first phone home. Lines look like
//
//	sensor_id;sensor_type;name;capabilities
//
// where capabilities is a comma separated list. Existing devices keep their
// runtime state; only the descriptive fields are refreshed.
func SeedDevices(ctx context.Context, s DeviceStorage, seedFile io.Reader) error {
	log := logging.GetFromContext(ctx)

	scanner := bufio.NewScanner(seedFile)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "sensor_id;") {
			continue
		}

		fields := strings.Split(line, ";")
		if len(fields) < 2 {
			return fmt.Errorf("malformed seed line %d: expected at least sensor_id;sensor_type", lineNo)
		}

		device := types.Device{
			SensorID:   strings.TrimSpace(fields[0]),
			SensorType: strings.TrimSpace(fields[1]),
		}

		if device.SensorID == "" {
			return fmt.Errorf("malformed seed line %d: empty sensor_id", lineNo)
		}

		if len(fields) > 2 {
			device.SensorName = strings.TrimSpace(fields[2])
		}

		if len(fields) > 3 && strings.TrimSpace(fields[3]) != "" {
			for _, c := range strings.Split(fields[3], ",") {
				device.Capabilities = append(device.Capabilities, strings.TrimSpace(c))
			}
		}

		existing, err := s.GetDevice(ctx, device.SensorID)
		if err != nil && !errors.Is(err, storage.ErrNoRows) {
			return err
		}

		if err == nil {
			device.LastCheckIn = existing.LastCheckIn
			log.Debug("refreshing seeded device", "sensor_id", device.SensorID)
		} else {
			device.LastCheckIn = time.Time{}
			log.Info("seeding new device", "sensor_id", device.SensorID)
		}

		err = s.CreateOrUpdateDevice(ctx, device)
		if err != nil {
			return err
		}
	}

	return scanner.Err()
}
