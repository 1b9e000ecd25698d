package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/diwise/messaging-golang/pkg/messaging"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/fermlab/sensor-master/internal/pkg/application/commands"
	"github.com/fermlab/sensor-master/internal/pkg/application/configs"
	"github.com/fermlab/sensor-master/internal/pkg/application/devices"
	"github.com/fermlab/sensor-master/internal/pkg/application/events"
	"github.com/fermlab/sensor-master/internal/pkg/application/scripts"
	"github.com/fermlab/sensor-master/internal/pkg/application/sensormaster"
	"github.com/fermlab/sensor-master/internal/pkg/application/watchdog"
	"github.com/fermlab/sensor-master/internal/pkg/infrastructure/router"
	"github.com/fermlab/sensor-master/internal/pkg/infrastructure/storage"
	"github.com/fermlab/sensor-master/internal/pkg/presentation/api"
)

const serviceName string = "sensor-master"

var opaFilePath string
var notificationConfigPath string
var seedFilePath string

func main() {
	serviceVersion := buildinfo.SourceVersion()
	ctx, logger, cleanup := o11y.Init(context.Background(), serviceName, serviceVersion)
	defer cleanup()

	flag.StringVar(&opaFilePath, "policies", "/opt/sensormaster/config/authz.rego", "An authorization policy file for the admin api")
	flag.StringVar(&notificationConfigPath, "notifications", "/opt/sensormaster/config/notifications.yaml", "Configuration file for operator notifications")
	flag.StringVar(&seedFilePath, "devices", "", "An optional file of known sensors to seed on startup")
	flag.Parse()

	apiPort := fmt.Sprintf(":%s", env.GetVariableOrDefault(ctx, "SERVICE_PORT", "8080"))

	store := setupStorageOrDie(ctx)
	defer store.Close()

	messenger := setupMessagingOrDie(ctx, serviceName)
	eventSender := events.New(loadEventSenderConfig(ctx))

	if seedFilePath != "" {
		seedDevicesOrDie(ctx, store)
	}

	deviceRegistry := devices.New(store, messenger, liveness(ctx))
	configResolver := configs.New(store)
	commandQueue := commands.New(store, messenger, eventSender)
	scriptRegistry := scripts.New(store, executionThresholds(ctx))

	svc := sensormaster.New(store, store, deviceRegistry, configResolver, commandQueue, scriptRegistry, messenger)

	messenger.RegisterTopicMessageHandler("sensor-status", sensormaster.NewSensorStatusHandler(svc))
	messenger.Start()

	retention := env.GetVariableOrDefault(ctx, "COMMAND_RETENTION", "168h")
	retentionDuration, err := time.ParseDuration(retention)
	if err != nil {
		logger.Error("invalid COMMAND_RETENTION", "value", retention, "err", err.Error())
		os.Exit(1)
	}

	w := watchdog.New(commandQueue, time.Minute, retentionDuration)
	w.Start(ctx)
	defer w.Stop()

	r, err := setupRouter(ctx, svc, deviceRegistry, configResolver, commandQueue, scriptRegistry)
	if err != nil {
		logger.Error("failed to setup router", "err", err.Error())
		os.Exit(1)
	}

	logger.Info("starting up ...", "port", apiPort)

	err = http.ListenAndServe(apiPort, r)
	if err != nil {
		logger.Error("failed to start router", "err", err.Error())
		os.Exit(1)
	}
}

func setupStorageOrDie(ctx context.Context) *storage.Storage {
	logger := logging.GetFromContext(ctx)

	store, err := storage.New(ctx, storage.LoadConfiguration(ctx))
	if err != nil {
		logger.Error("failed to connect to database", "err", err.Error())
		os.Exit(1)
	}

	err = store.Initialize(ctx)
	if err != nil {
		logger.Error("failed to initialize database", "err", err.Error())
		os.Exit(1)
	}

	return store
}

func seedDevicesOrDie(ctx context.Context, store *storage.Storage) {
	logger := logging.GetFromContext(ctx)

	seedFile, err := os.Open(seedFilePath)
	if err != nil {
		logger.Error("unable to open seed file", "path", seedFilePath, "err", err.Error())
		os.Exit(1)
	}
	defer seedFile.Close()

	err = devices.SeedDevices(ctx, store, seedFile)
	if err != nil {
		logger.Error("failed to seed devices", "err", err.Error())
		os.Exit(1)
	}
}

func setupMessagingOrDie(ctx context.Context, serviceName string) messaging.MsgContext {
	logger := logging.GetFromContext(ctx)

	config := messaging.LoadConfiguration(ctx, serviceName, logger)
	messenger, err := messaging.Initialize(ctx, config)
	if err != nil {
		logger.Error("failed to init messenger", "err", err.Error())
		os.Exit(1)
	}

	return messenger
}

func loadEventSenderConfig(ctx context.Context) *events.Config {
	logger := logging.GetFromContext(ctx)

	nCfgFile, err := os.Open(notificationConfigPath)
	if err != nil {
		logger.Info("no notification configuration found", "path", notificationConfigPath)
		return nil
	}
	defer nCfgFile.Close()

	nCfg, err := events.LoadConfiguration(nCfgFile)
	if err != nil {
		logger.Error("failed to load notification configuration", "err", err.Error())
		os.Exit(1)
	}

	return nCfg
}

func setupRouter(ctx context.Context, svc sensormaster.SensorMaster, deviceRegistry devices.DeviceRegistry, configResolver configs.ConfigResolver, commandQueue commands.CommandQueue, scriptRegistry scripts.ScriptRegistry) (http.Handler, error) {
	r := router.New(serviceName)

	policies, err := os.Open(opaFilePath)
	if err != nil {
		return nil, fmt.Errorf("unable to open opa policy file: %w", err)
	}
	defer policies.Close()

	instance := api.MasterInstance{
		Name:     env.GetVariableOrDefault(ctx, "MASTER_INSTANCE_NAME", serviceName),
		MasterID: 1,
	}

	return api.RegisterHandlers(ctx, r, policies, svc, deviceRegistry, configResolver, commandQueue, scriptRegistry, instance)
}

func liveness(ctx context.Context) devices.Thresholds {
	thresholds := devices.DefaultThresholds()

	if v := env.GetVariableOrDefault(ctx, "LIVENESS_ONLINE_SECONDS", ""); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			thresholds.Online = time.Duration(seconds) * time.Second
		}
	}

	if v := env.GetVariableOrDefault(ctx, "LIVENESS_OFFLINE_SECONDS", ""); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			thresholds.Offline = time.Duration(seconds) * time.Second
		}
	}

	return thresholds
}

func executionThresholds(ctx context.Context) scripts.Thresholds {
	thresholds := scripts.DefaultThresholds()

	if v := env.GetVariableOrDefault(ctx, "SCRIPT_RUNNING_SECONDS", ""); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			thresholds.Running = time.Duration(seconds) * time.Second
		}
	}

	if v := env.GetVariableOrDefault(ctx, "SCRIPT_RECENT_SECONDS", ""); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil {
			thresholds.Recent = time.Duration(seconds) * time.Second
		}
	}

	return thresholds
}
