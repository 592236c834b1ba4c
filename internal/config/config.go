package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	agentlogic "github.com/skovsen/D2D_ScanLogic"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "drone_bot.cfg.json"

// RecorderConfig holds the decision recorder settings
type RecorderConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Driver  string `json:"driver" mapstructure:"driver"`
	DSN     string `json:"dsn" mapstructure:"dsn"`
}

// TelemetryConfig toggles the otel meters and sets how often they are exported
type TelemetryConfig struct {
	Enabled  bool          `json:"enabled" mapstructure:"enabled"`
	Interval time.Duration `json:"interval" mapstructure:"interval"`
}

// Config is everything the bot reads at start-up.
type Config struct {
	LogLevel  string            `mapstructure:"logLevel"`
	Policy    agentlogic.Params `mapstructure:"policy"`
	Recorder  RecorderConfig    `mapstructure:"recorder"`
	Telemetry TelemetryConfig   `mapstructure:"telemetry"`
}

// Load reads configuration from the JSON file in configDir and sets default values.
// The file is optional; DRONEBOT_* environment variables override both.
func Load(configDir string) (Config, error) {
	setDefaults()

	viper.SetConfigName(FileName)
	viper.SetConfigType("json")
	if configDir != "" {
		viper.AddConfigPath(configDir)
	}

	viper.SetEnvPrefix("dronebot")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %v", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %v", err)
	}
	if err := cfg.Policy.Validate(); err != nil {
		return Config{}, fmt.Errorf("policy: %w", err)
	}
	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")

	p := agentlogic.DefaultParams()
	viper.SetDefault("policy.arenaSize", p.ArenaSize)
	viper.SetDefault("policy.edgeMargin", p.EdgeMargin)
	viper.SetDefault("policy.sweepStep", p.SweepStep)
	viper.SetDefault("policy.amplitude", p.Amplitude)
	viper.SetDefault("policy.period", p.Period)
	viper.SetDefault("policy.offset", p.Offset)
	viper.SetDefault("policy.seekStep", p.SeekStep)
	viper.SetDefault("policy.detectionRadius", p.DetectionRadius)
	viper.SetDefault("policy.escapeScale", p.EscapeScale)
	viper.SetDefault("policy.safeMin", p.SafeMin)
	viper.SetDefault("policy.safeMax", p.SafeMax)
	viper.SetDefault("policy.escapeTolerance", p.EscapeTolerance)
	viper.SetDefault("policy.velocityAware", p.VelocityAware)
	viper.SetDefault("policy.surfaceY", p.SurfaceY)
	viper.SetDefault("policy.surfacedY", p.SurfacedY)
	viper.SetDefault("policy.initialDebounce", p.InitialDebounce)
	viper.SetDefault("policy.debounceThreshold", p.DebounceThreshold)
	viper.SetDefault("policy.debouncePenalty", p.DebouncePenalty)
	viper.SetDefault("policy.minBattery", p.MinBattery)
	viper.SetDefault("policy.lightDepth", p.LightDepth)

	viper.SetDefault("recorder.enabled", false)
	viper.SetDefault("recorder.driver", "sqlite")
	viper.SetDefault("recorder.dsn", "drone_bot.db")

	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.interval", 10*time.Second)
}
