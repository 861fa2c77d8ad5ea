package config

import (
	"math"
	"os"
	"strings"
	"time"

	"codeberg.org/mutker/envsensed/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultEnvPrefix  = "ENVSENSED"
	DefaultConfigPath = "/etc/envsensed.toml"

	DefaultUpdateInterval   = 2 * time.Second
	DefaultLogLevel         = "info"
	DefaultTransport        = "bluez"
	DefaultAdapter          = "hci0"
	DefaultLocalName        = "envsensed"
	DefaultSensor           = "periph"
	DefaultBME280Address    = 0x77
	DefaultColorPollDelay   = 5 * time.Millisecond
	DefaultLinkPollInterval = 50 * time.Millisecond
	DefaultHistoryDB        = "/var/lib/envsensed/history.db"
	DefaultMQTTBroker       = "tcp://localhost:1883"
	DefaultMQTTTopic        = "envsensed"
	DefaultMQTTClientID     = "envsensed"
)

type Config struct {
	UpdateInterval         time.Duration `mapstructure:"update_interval"`
	TemperatureCalibration float64       `mapstructure:"temperature_calibration"`
	LogLevel               string        `mapstructure:"log_level"`

	Transport string `mapstructure:"transport"`
	Adapter   string `mapstructure:"adapter"`
	HCIDevice int    `mapstructure:"hci_device"`
	LocalName string `mapstructure:"local_name"`

	Sensor         string        `mapstructure:"sensor"`
	I2CBus         string        `mapstructure:"i2c_bus"`
	BME280Address  uint16        `mapstructure:"bme280_address"`
	ColorPollDelay time.Duration `mapstructure:"color_poll_delay"`

	LinkPollInterval time.Duration `mapstructure:"link_poll_interval"`
	IndicatorPin     string        `mapstructure:"indicator_pin"`

	History   bool   `mapstructure:"history"`
	HistoryDB string `mapstructure:"history_db"`

	MQTT         bool   `mapstructure:"mqtt"`
	MQTTBroker   string `mapstructure:"mqtt_broker"`
	MQTTTopic    string `mapstructure:"mqtt_topic"`
	MQTTClientID string `mapstructure:"mqtt_client_id"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("update_interval", DefaultUpdateInterval)
	v.SetDefault("temperature_calibration", 0.0)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("transport", DefaultTransport)
	v.SetDefault("adapter", DefaultAdapter)
	v.SetDefault("hci_device", 0)
	v.SetDefault("local_name", DefaultLocalName)
	v.SetDefault("sensor", DefaultSensor)
	v.SetDefault("i2c_bus", "")
	v.SetDefault("bme280_address", DefaultBME280Address)
	v.SetDefault("color_poll_delay", DefaultColorPollDelay)
	v.SetDefault("link_poll_interval", DefaultLinkPollInterval)
	v.SetDefault("indicator_pin", "")
	v.SetDefault("history", false)
	v.SetDefault("history_db", DefaultHistoryDB)
	v.SetDefault("mqtt", false)
	v.SetDefault("mqtt_broker", DefaultMQTTBroker)
	v.SetDefault("mqtt_topic", DefaultMQTTTopic)
	v.SetDefault("mqtt_client_id", DefaultMQTTClientID)
}

// RegisterFlags adds a flag for every configuration key to fs. Flag names
// use dashes where keys use underscores.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.Duration("update-interval", DefaultUpdateInterval, "Minimum time between sensor updates")
	fs.Float64("temperature-calibration", 0, "Offset in °C added to every temperature reading")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warn, error)")
	fs.String("transport", DefaultTransport, "Bluetooth transport (bluez, hci)")
	fs.String("adapter", DefaultAdapter, "BlueZ adapter name")
	fs.Int("hci-device", 0, "Raw HCI device index")
	fs.String("local-name", DefaultLocalName, "Advertised local name")
	fs.String("sensor", DefaultSensor, "Sensor backend (periph, simulated)")
	fs.String("i2c-bus", "", "I2C bus name, empty for the first bus")
	fs.Uint16("bme280-address", DefaultBME280Address, "I2C address of the BME280")
	fs.Duration("color-poll-delay", DefaultColorPollDelay, "Delay between color availability checks")
	fs.Duration("link-poll-interval", DefaultLinkPollInterval, "Delay between connection checks")
	fs.String("indicator-pin", "", "GPIO pin of the connection LED, empty to disable")
	fs.Bool("history", false, "Record published values to SQLite")
	fs.String("history-db", DefaultHistoryDB, "Path of the history database")
	fs.Bool("mqtt", false, "Mirror published values to MQTT")
	fs.String("mqtt-broker", DefaultMQTTBroker, "MQTT broker URL")
	fs.String("mqtt-topic", DefaultMQTTTopic, "MQTT topic prefix")
	fs.String("mqtt-client-id", DefaultMQTTClientID, "MQTT client identifier")
}

// Load reads the configuration. Precedence, highest first: flags,
// environment, config file, defaults. A missing config file is not an
// error.
func Load(opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := &options{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	path := o.configPath
	if path == "" {
		path = os.Getenv(o.envPrefix + "_CONFIG")
	}
	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	if o.flags != nil {
		var bindErr error
		o.flags.VisitAll(func(f *pflag.Flag) {
			key := strings.ReplaceAll(f.Name, "-", "_")
			if err := v.BindPFlag(key, f); err != nil && bindErr == nil {
				bindErr = err
			}
		})
		if bindErr != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, bindErr)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks every value that has a restricted range.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.UpdateInterval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.UpdateInterval.String())
	}
	if c.ColorPollDelay <= 0 || c.LinkPollInterval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, struct {
			ColorPollDelay   string
			LinkPollInterval string
		}{
			ColorPollDelay:   c.ColorPollDelay.String(),
			LinkPollInterval: c.LinkPollInterval.String(),
		})
	}
	if l := LogLevel(strings.ToLower(c.LogLevel)); !l.IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}
	if c.Transport != "bluez" && c.Transport != "hci" {
		return errFactory.WithData(errors.ErrInvalidTransport, c.Transport)
	}
	if c.Sensor != "periph" && c.Sensor != "simulated" {
		return errFactory.WithData(errors.ErrInvalidSensor, c.Sensor)
	}
	if math.IsNaN(c.TemperatureCalibration) || math.IsInf(c.TemperatureCalibration, 0) {
		return errFactory.WithData(errors.ErrInvalidConfig, "temperature_calibration")
	}
	if c.History && c.HistoryDB == "" {
		return errFactory.WithData(errors.ErrMissingConfig, "history_db")
	}
	if c.MQTT && (c.MQTTBroker == "" || c.MQTTTopic == "") {
		return errFactory.WithData(errors.ErrMissingConfig, "mqtt_broker, mqtt_topic")
	}

	return nil
}
