// Package config loads the lamp daemon configuration from a YAML file,
// applying defaults for anything unset.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Config represents the daemon configuration.
type Config struct {
	// DeviceID identifies this lamp in flicker codes. It must not contain
	// dots. Defaults to a random UUID, which changes per boot; set it to
	// something stable (the original hardware used the WiFi MAC).
	DeviceID string `yaml:"device_id"`

	Log    LogConfig    `yaml:"log"`
	Touch  TouchConfig  `yaml:"touch"`
	Lamp   LampConfig   `yaml:"lamp"`
	Pixels PixelsConfig `yaml:"pixels"`
	Remote RemoteConfig `yaml:"remote"`
	MQTT   MQTTConfig   `yaml:"mqtt"`
	HTTP   HTTPConfig   `yaml:"http"`
	Anim   AnimConfig   `yaml:"anim"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Colors bool   `yaml:"colors"`
}

// TouchConfig contains touch pad settings.
type TouchConfig struct {
	Pin       int `yaml:"pin"`
	Threshold int `yaml:"threshold"` // raw readings below this are touched
}

// LampConfig contains interaction timing and color wheel settings.
type LampConfig struct {
	NumColors            int      `yaml:"num_colors"`
	DefaultBrightness    uint8    `yaml:"default_brightness"`
	MaxBrightness        uint8    `yaml:"max_brightness"`
	Tick                 Duration `yaml:"tick"`
	HoldThreshold        Duration `yaml:"hold_threshold"`
	ColorChangeWait      Duration `yaml:"color_change_wait"`
	BrightnessChangeWait Duration `yaml:"brightness_change_wait"`
}

// PixelsConfig contains LED strip settings.
type PixelsConfig struct {
	Device string `yaml:"device"` // serial device path, empty disables hardware output
	Baud   int    `yaml:"baud"`
	Count  int    `yaml:"count"`
}

// RemoteConfig contains coordination service settings.
type RemoteConfig struct {
	URL     string   `yaml:"url"` // empty disables sync
	Period  Duration `yaml:"period"`
	Timeout Duration `yaml:"timeout"`
}

// MQTTConfig contains telemetry settings.
type MQTTConfig struct {
	Broker   string `yaml:"broker"` // empty disables telemetry
	ClientID string `yaml:"client_id"`
}

// HTTPConfig contains status server settings.
type HTTPConfig struct {
	Addr string `yaml:"addr"` // empty disables the status server
}

// AnimConfig contains animation timing settings.
type AnimConfig struct {
	IdleBreathePeriod   Duration `yaml:"idle_breathe_period"`
	SelectBreathePeriod Duration `yaml:"select_breathe_period"`
	BreatheFloor        float64  `yaml:"breathe_floor"`
	CircuitPeriod       Duration `yaml:"circuit_period"`
	WipeFrameDelay      Duration `yaml:"wipe_frame_delay"`
	ConvergeFrames      int      `yaml:"converge_frames"`
	ConvergeFrameDelay  Duration `yaml:"converge_frame_delay"`
	FlashFrames         int      `yaml:"flash_frames"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log: LogConfig{Level: "info"},
		Touch: TouchConfig{
			Pin:       4,
			Threshold: 35,
		},
		Lamp: LampConfig{
			NumColors:            10,
			DefaultBrightness:    160,
			MaxBrightness:        255,
			Tick:                 Duration(50 * time.Millisecond),
			HoldThreshold:        Duration(600 * time.Millisecond),
			ColorChangeWait:      Duration(1500 * time.Millisecond),
			BrightnessChangeWait: Duration(3 * time.Second),
		},
		Pixels: PixelsConfig{
			Baud:  115200,
			Count: 24,
		},
		Remote: RemoteConfig{
			Period:  Duration(5 * time.Second),
			Timeout: Duration(4 * time.Second),
		},
		MQTT: MQTTConfig{ClientID: "halo-lamp"},
		HTTP: HTTPConfig{Addr: ":8080"},
		Anim: AnimConfig{
			IdleBreathePeriod:   Duration(6 * time.Second),
			SelectBreathePeriod: Duration(1200 * time.Millisecond),
			BreatheFloor:        0.35,
			CircuitPeriod:       Duration(1800 * time.Millisecond),
			WipeFrameDelay:      Duration(25 * time.Millisecond),
			ConvergeFrames:      40,
			ConvergeFrameDelay:  Duration(40 * time.Millisecond),
			FlashFrames:         8,
		},
	}
}

// Load reads the config file at path over the defaults. An empty path yields
// the defaults. A missing device ID is filled with a random UUID.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if cfg.DeviceID == "" {
		cfg.DeviceID = uuid.NewString()
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Lamp.NumColors <= 0 {
		return fmt.Errorf("config: lamp.num_colors must be positive")
	}
	if c.Pixels.Count <= 0 {
		return fmt.Errorf("config: pixels.count must be positive")
	}
	if c.Lamp.Tick <= 0 {
		return fmt.Errorf("config: lamp.tick must be positive")
	}
	for _, r := range c.DeviceID {
		if r == '.' {
			return fmt.Errorf("config: device_id must not contain dots")
		}
	}
	return nil
}

// Duration is a wrapper around time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler for Duration.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// D returns the wrapped time.Duration.
func (d Duration) D() time.Duration {
	return time.Duration(d)
}
