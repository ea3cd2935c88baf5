// Package config loads application settings with viper.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
	"time"

	"mapscale/internal/render"
	"mapscale/pkg/colorutil"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "mapscale.json"

// EnvPrefix prefixes environment overrides, e.g. MAPSCALE_API_APIKEY.
const EnvPrefix = "MAPSCALE"

// Config is the typed view of all settings.
type Config struct {
	LogLevel    string            `json:"logLevel" mapstructure:"logLevel"`
	Marks       MarksConfig       `json:"marks" mapstructure:"marks"`
	Image       ImageConfig       `json:"image" mapstructure:"image"`
	API         APIConfig         `json:"api" mapstructure:"api"`
	Calibration CalibrationConfig `json:"calibration" mapstructure:"calibration"`
	Window      WindowConfig      `json:"window" mapstructure:"window"`
	Render      RenderConfig      `json:"render" mapstructure:"render"`
}

// MarksConfig points at a local marks file. Empty means fetch from the API.
type MarksConfig struct {
	File string `json:"file" mapstructure:"file"`
}

// ImageConfig points at a local map image. Empty means download it.
type ImageConfig struct {
	File string `json:"file" mapstructure:"file"`
}

// APIConfig holds map API settings
type APIConfig struct {
	BaseURL  string        `json:"baseUrl" mapstructure:"baseUrl"`
	APIKey   string        `json:"apiKey" mapstructure:"apiKey"`
	Language string        `json:"language" mapstructure:"language"`
	Timeout  time.Duration `json:"timeout" mapstructure:"timeout"`
}

// CalibrationConfig tunes the box interaction, in image pixels.
type CalibrationConfig struct {
	GrabTolerance   float64 `json:"grabTolerance" mapstructure:"grabTolerance"`
	MinBoxDimension float64 `json:"minBoxDimension" mapstructure:"minBoxDimension"`
}

// WindowConfig is the initial window size.
type WindowConfig struct {
	Width  float32 `json:"width" mapstructure:"width"`
	Height float32 `json:"height" mapstructure:"height"`
}

// RenderConfig holds overlay colors as hex strings and sizes in pixels.
type RenderConfig struct {
	Background      string `json:"background" mapstructure:"background"`
	BoxColor        string `json:"boxColor" mapstructure:"boxColor"`
	BoxWidth        int    `json:"boxWidth" mapstructure:"boxWidth"`
	MarkColor       string `json:"markColor" mapstructure:"markColor"`
	MarkDiameter    int    `json:"markDiameter" mapstructure:"markDiameter"`
	LabelColor      string `json:"labelColor" mapstructure:"labelColor"`
	LabelBackground string `json:"labelBackground" mapstructure:"labelBackground"`
	LabelOffset     int    `json:"labelOffset" mapstructure:"labelOffset"`
}

// Load reads configuration from the JSON file in configDir and sets default
// values. A missing file is not an error.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")

	viper.SetDefault("marks.file", "")
	viper.SetDefault("image.file", "")

	viper.SetDefault("api.baseUrl", "https://fortnite-api.com")
	viper.SetDefault("api.apiKey", "")
	viper.SetDefault("api.language", "en")
	viper.SetDefault("api.timeout", "30s")

	viper.SetDefault("calibration.grabTolerance", 15)
	viper.SetDefault("calibration.minBoxDimension", 5)

	viper.SetDefault("window.width", 1074)
	viper.SetDefault("window.height", 544)

	viper.SetDefault("render.background", "#202020")
	viper.SetDefault("render.boxColor", "#FF69B4")
	viper.SetDefault("render.boxWidth", 3)
	viper.SetDefault("render.markColor", "#FFFFFF")
	viper.SetDefault("render.markDiameter", 10)
	viper.SetDefault("render.labelColor", "#000000")
	viper.SetDefault("render.labelBackground", "#FFFFFF")
	viper.SetDefault("render.labelOffset", 6)

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(strings.TrimSuffix(FileName, ".json"))
	viper.SetConfigType("json")
	if configDir != "" {
		viper.AddConfigPath(configDir)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// Get unmarshals the loaded settings and validates them.
func Get() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the calibration cannot work with.
func (c *Config) Validate() error {
	if c.Calibration.GrabTolerance <= 0 {
		return fmt.Errorf("invalid config: calibration.grabTolerance must be positive, got %g", c.Calibration.GrabTolerance)
	}
	if c.Calibration.MinBoxDimension <= 0 {
		return fmt.Errorf("invalid config: calibration.minBoxDimension must be positive, got %g", c.Calibration.MinBoxDimension)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid config: window size must be positive, got %gx%g", c.Window.Width, c.Window.Height)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("invalid config: api.timeout must not be negative, got %s", c.API.Timeout)
	}
	return nil
}

// Style converts the render settings into a render style.
func (r RenderConfig) Style() (render.Style, error) {
	style := render.DefaultStyle()

	var err error
	if style.Background, err = parseColor("render.background", r.Background, style.Background); err != nil {
		return style, err
	}
	if style.BoxColor, err = parseColor("render.boxColor", r.BoxColor, style.BoxColor); err != nil {
		return style, err
	}
	if style.MarkColor, err = parseColor("render.markColor", r.MarkColor, style.MarkColor); err != nil {
		return style, err
	}
	if style.LabelColor, err = parseColor("render.labelColor", r.LabelColor, style.LabelColor); err != nil {
		return style, err
	}
	if style.LabelBackground, err = parseColor("render.labelBackground", r.LabelBackground, style.LabelBackground); err != nil {
		return style, err
	}

	if r.BoxWidth > 0 {
		style.BoxWidth = r.BoxWidth
	}
	if r.MarkDiameter > 0 {
		style.MarkDiameter = r.MarkDiameter
	}
	if r.LabelOffset != 0 {
		style.LabelOffset = r.LabelOffset
	}
	return style, nil
}

// parseColor keeps def for an empty value.
func parseColor(key, val string, def color.RGBA) (color.RGBA, error) {
	if val == "" {
		return def, nil
	}
	c, err := colorutil.ParseHex(val)
	if err != nil {
		return def, fmt.Errorf("invalid config: %s: %w", key, err)
	}
	return c, nil
}
