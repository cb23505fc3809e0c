// Package config loads runtime settings from configs/config.yml, a .env file
// and THERMOSTAT_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"home_thermostat/internal/hardware"
	"home_thermostat/internal/mqtt"
	"home_thermostat/internal/sensor"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envPrefix = "THERMOSTAT"

	defaultPort             = "8080"
	defaultDBPath           = "thermostat.db"
	defaultPollParallelism  = 4
	defaultOverrideDuration = 6 * time.Hour
	defaultTokenTTL         = time.Hour
	defaultChip             = "gpiochip0"
)

type Control struct {
	// Interval of the built-in scheduler; 0 leaves cycling to an external trigger.
	Interval           time.Duration
	Location           *time.Location
	ApplyWithoutTarget bool
	OverrideDuration   time.Duration
}

type Auth struct {
	SigningKey string
	TokenTTL   time.Duration
}

// Config holds runtime configuration for every command.
type Config struct {
	Port            string
	LogLevel        string
	DBPath          string
	Sensor          sensor.Config
	PollParallelism int
	Control         Control
	Hardware        hardware.Config
	MQTT            mqtt.Config
	Auth            Auth
}

// Load reads the config file named config from the given directories
// (default "configs"). A missing file is not an error; defaults apply.
func Load(dirs ...string) (*Config, error) {
	_ = godotenv.Load(".env") // ignore missing file

	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	if len(dirs) == 0 {
		dirs = []string{"configs"}
	}
	for _, d := range dirs {
		v.AddConfigPath(d)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", defaultPort)
	v.SetDefault("log.level", "info")
	v.SetDefault("db.path", defaultDBPath)
	v.SetDefault("sensor.timeout", sensor.DefaultTimeout)
	v.SetDefault("sensor.port", sensor.DefaultPort)
	v.SetDefault("sensor.path", sensor.DefaultPath)
	v.SetDefault("sensor.parallelism", defaultPollParallelism)
	v.SetDefault("control.interval", time.Duration(0))
	v.SetDefault("control.timezone", "Local")
	v.SetDefault("control.apply_without_target", true)
	v.SetDefault("control.override_duration", defaultOverrideDuration)
	v.SetDefault("hardware.enabled", false)
	v.SetDefault("hardware.chip", defaultChip)
	v.SetDefault("hardware.active_low", true)
	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.topic", mqtt.DefaultTopic)
	v.SetDefault("mqtt.client_id", "home-thermostat")
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", defaultTokenTTL)
}

func fromViper(v *viper.Viper) (*Config, error) {
	loc, err := time.LoadLocation(v.GetString("control.timezone"))
	if err != nil {
		return nil, fmt.Errorf("invalid control.timezone: %w", err)
	}

	cfg := &Config{
		Port:     v.GetString("port"),
		LogLevel: v.GetString("log.level"),
		DBPath:   v.GetString("db.path"),
		Sensor: sensor.Config{
			Timeout: v.GetDuration("sensor.timeout"),
			Port:    v.GetInt("sensor.port"),
			Path:    v.GetString("sensor.path"),
		},
		PollParallelism: v.GetInt("sensor.parallelism"),
		Control: Control{
			Interval:           v.GetDuration("control.interval"),
			Location:           loc,
			ApplyWithoutTarget: v.GetBool("control.apply_without_target"),
			OverrideDuration:   v.GetDuration("control.override_duration"),
		},
		Hardware: hardware.Config{
			Enabled:   v.GetBool("hardware.enabled"),
			Chip:      v.GetString("hardware.chip"),
			ActiveLow: v.GetBool("hardware.active_low"),
		},
		MQTT: mqtt.Config{
			Broker:   v.GetString("mqtt.broker"),
			Topic:    v.GetString("mqtt.topic"),
			ClientID: v.GetString("mqtt.client_id"),
		},
		Auth: Auth{
			SigningKey: v.GetString("auth.signing_key"),
			TokenTTL:   v.GetDuration("auth.token_ttl"),
		},
	}
	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch {
	case c.Sensor.Timeout <= 0:
		return errors.New("sensor.timeout must be positive")
	case c.PollParallelism <= 0:
		return errors.New("sensor.parallelism must be positive")
	case c.Control.Interval < 0:
		return errors.New("control.interval must not be negative")
	case c.Control.OverrideDuration <= 0:
		return errors.New("control.override_duration must be positive")
	}
	return nil
}
