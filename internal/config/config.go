// Package config loads runtime settings from defaults, an optional config file,
// and EXOHUNTER_ environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/litescript/ls-exohunter/internal/astro"
	"github.com/litescript/ls-exohunter/internal/catalog"
	"github.com/litescript/ls-exohunter/internal/scene"
)

// EnvPrefix is prepended to every key when reading the environment.
const EnvPrefix = "EXOHUNTER"

// Refresh interval bounds.
const (
	DefaultRefresh = 10 * time.Minute
	MinRefresh     = 30 * time.Second
	MaxRefresh     = 24 * time.Hour
)

// Config keys.
const (
	KeyAPIURL            = "api_url"
	KeyRequestTimeout    = "request_timeout"
	KeyRateLimit         = "rate_limit"
	KeyRateBurst         = "rate_burst"
	KeyRefresh           = "refresh"
	KeyLogLevel          = "log_level"
	KeyLogFormat         = "log_format"
	KeyLogFile           = "log_file"
	KeySensorAddr        = "sensor_addr"
	KeyMetricsAddr       = "metrics_addr"
	KeyObserverLat       = "observer_lat"
	KeyObserverLon       = "observer_lon"
	KeyOrbitSpeed        = "orbit_speed"
	KeyStarMapRadius     = "star_map_radius"
	KeyDistanceTargetMax = "distance_target_max"
	KeyRadiusTargetMax   = "radius_target_max"
	KeyRadiusMinSize     = "radius_min_size"
)

// Config holds every tunable of the application.
type Config struct {
	APIURL         string
	RequestTimeout time.Duration
	RateLimit      float64
	RateBurst      int
	Refresh        time.Duration

	LogLevel  string
	LogFormat string
	LogFile   string

	SensorAddr  string
	MetricsAddr string
	ObserverLat float64
	ObserverLon float64

	OrbitSpeed        float64
	StarMapRadius     float64
	DistanceTargetMax float64
	RadiusTargetMax   float64
	RadiusMinSize     float64
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyAPIURL, catalog.DefaultBaseURL)
	v.SetDefault(KeyRequestTimeout, catalog.DefaultTimeout)
	v.SetDefault(KeyRateLimit, float64(catalog.DefaultRateLimit))
	v.SetDefault(KeyRateBurst, catalog.DefaultRateBurst)
	v.SetDefault(KeyRefresh, DefaultRefresh)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeySensorAddr, "")
	v.SetDefault(KeyMetricsAddr, "")
	v.SetDefault(KeyObserverLat, 0.0)
	v.SetDefault(KeyObserverLon, 0.0)
	v.SetDefault(KeyOrbitSpeed, astro.DefaultOrbitSpeed)
	v.SetDefault(KeyStarMapRadius, scene.DefaultStarMapRadius)
	v.SetDefault(KeyDistanceTargetMax, astro.DefaultDistanceTargetMax)
	v.SetDefault(KeyRadiusTargetMax, astro.DefaultRadiusTargetMax)
	v.SetDefault(KeyRadiusMinSize, astro.DefaultRadiusMinSize)
}

// Load reads the config file at path (if non-empty) on top of the defaults and
// environment. The file type follows its extension (yaml, toml, json).
func Load(path string) (Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return FromViper(v), nil
}

// FromViper decodes the current values of v.
func FromViper(v *viper.Viper) Config {
	return Config{
		APIURL:            v.GetString(KeyAPIURL),
		RequestTimeout:    v.GetDuration(KeyRequestTimeout),
		RateLimit:         v.GetFloat64(KeyRateLimit),
		RateBurst:         v.GetInt(KeyRateBurst),
		Refresh:           v.GetDuration(KeyRefresh),
		LogLevel:          v.GetString(KeyLogLevel),
		LogFormat:         v.GetString(KeyLogFormat),
		LogFile:           v.GetString(KeyLogFile),
		SensorAddr:        v.GetString(KeySensorAddr),
		MetricsAddr:       v.GetString(KeyMetricsAddr),
		ObserverLat:       v.GetFloat64(KeyObserverLat),
		ObserverLon:       v.GetFloat64(KeyObserverLon),
		OrbitSpeed:        v.GetFloat64(KeyOrbitSpeed),
		StarMapRadius:     v.GetFloat64(KeyStarMapRadius),
		DistanceTargetMax: v.GetFloat64(KeyDistanceTargetMax),
		RadiusTargetMax:   v.GetFloat64(KeyRadiusTargetMax),
		RadiusMinSize:     v.GetFloat64(KeyRadiusMinSize),
	}
}

// Validate clamps out-of-range values and reports settings that cannot be used.
func (c *Config) Validate() error {
	if c.Refresh < MinRefresh {
		c.Refresh = MinRefresh
	} else if c.Refresh > MaxRefresh {
		c.Refresh = MaxRefresh
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = catalog.DefaultTimeout
	}
	if c.OrbitSpeed <= 0 {
		c.OrbitSpeed = astro.DefaultOrbitSpeed
	}
	if c.StarMapRadius <= 0 {
		c.StarMapRadius = scene.DefaultStarMapRadius
	}

	var errs []error
	if c.APIURL == "" {
		errs = append(errs, errors.New("api_url must not be empty"))
	}
	if c.ObserverLat < -90 || c.ObserverLat > 90 {
		errs = append(errs, fmt.Errorf("observer_lat %v out of range [-90, 90]", c.ObserverLat))
	}
	if c.ObserverLon < -180 || c.ObserverLon > 180 {
		errs = append(errs, fmt.Errorf("observer_lon %v out of range [-180, 180]", c.ObserverLon))
	}
	if c.DistanceTargetMax <= 0 || c.RadiusTargetMax <= 0 || c.RadiusMinSize <= 0 {
		errs = append(errs, errors.New("scale targets must be positive"))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json", "":
	default:
		errs = append(errs, fmt.Errorf("unknown log_format %q", c.LogFormat))
	}
	return errors.Join(errs...)
}

// SceneOptions converts the scale settings to scene options.
func (c Config) SceneOptions() scene.Options {
	opts := scene.DefaultOptions()
	opts.DistanceTargetMax = c.DistanceTargetMax
	opts.RadiusTargetMax = c.RadiusTargetMax
	opts.RadiusMinSize = c.RadiusMinSize
	return opts
}
