// Package cli holds the thermostat subcommands.
package cli

import (
	"database/sql"
	"errors"

	"home_thermostat/internal/clock"
	"home_thermostat/internal/config"
	"home_thermostat/internal/hardware"
	"home_thermostat/internal/logger"
	"home_thermostat/internal/mqtt"
	"home_thermostat/internal/repository"
	"home_thermostat/internal/repository/db"
	"home_thermostat/internal/sensor"
	"home_thermostat/internal/service"

	"github.com/spf13/cobra"
)

// ConfigDirFlag is the persistent root flag naming the config directory.
const ConfigDirFlag = "config-dir"

// app is everything a command needs once configuration has been read.
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	db        *sql.DB
	sink      hardware.Sink
	publisher mqtt.Publisher
	services  *service.Service
}

func openApp(cmd *cobra.Command) (*app, error) {
	dir, _ := cmd.Flags().GetString(ConfigDirFlag)
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	log := logger.Get(cfg.LogLevel)

	conn, err := db.InitDB(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:       cfg,
		log:       log,
		db:        conn,
		sink:      hardware.Open(cfg.Hardware, log),
		publisher: openPublisher(cfg.MQTT, log),
	}
	a.services = service.NewService(repository.NewRepository(conn), service.Deps{
		Sensor:    sensor.NewClient(cfg.Sensor),
		Sink:      a.sink,
		Publisher: a.publisher,
		Clock:     clock.System{Location: cfg.Control.Location},
		Log:       log,
		Options: service.Options{
			ApplyWithoutTarget: cfg.Control.ApplyWithoutTarget,
			OverrideDuration:   cfg.Control.OverrideDuration,
			PollParallelism:    cfg.PollParallelism,
			SigningKey:         cfg.Auth.SigningKey,
			TokenTTL:           cfg.Auth.TokenTTL,
		},
	})
	return a, nil
}

// openPublisher connects to the broker when one is configured. A broker that
// cannot be reached must not stop the thermostat, so it degrades to no-op.
func openPublisher(cfg mqtt.Config, log *logger.Logger) mqtt.Publisher {
	if cfg.Broker == "" {
		return mqtt.NullPublisher{}
	}
	pub, err := mqtt.NewRealPublisher(cfg)
	if err != nil {
		log.Warnw("mqtt_unavailable", "broker", cfg.Broker, "err", err)
		return mqtt.NullPublisher{}
	}
	return pub
}

// Close releases outputs, the broker connection and the database, in that order.
func (a *app) Close() error {
	return errors.Join(a.sink.Close(), a.publisher.Close(), a.db.Close())
}

func (a *app) closeLogged() {
	if err := a.Close(); err != nil {
		a.log.Errorw("shutdown_failed", "err", err)
	}
	_ = a.log.Sync()
}
