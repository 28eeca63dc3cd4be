package cms

import (
	"os"
	"strings"
	"sync"
)

// CATMethod names a registered chromatic adaptation transform.
type CATMethod string

const (
	Bradford    CATMethod = "Bradford"
	VonKries    CATMethod = "VonKries"
	XyzScaling  CATMethod = "XyzScaling"
	CAT02Method CATMethod = "CAT02"
)

// ClutInterpolationMethod names a scheme for sampling ICC
// multi-dimensional lookup tables between grid points. Config records the
// chosen value, but no stage reads it: the icc package picks tetrahedral
// or multilinear interpolation from each table's own shape.
type ClutInterpolationMethod string

const (
	Trilinear  ClutInterpolationMethod = "Trilinear"
	Tetrahedral ClutInterpolationMethod = "Tetrahedral"
	NLinear    ClutInterpolationMethod = "NLinear"
)

// Config holds process-wide defaults. The Planner reads the current Config
// while it builds a Converter's Plan, and the values it picks (CAT method,
// rendering intent) are captured in that Plan's stages. Changing the
// package-level Config after a Converter has been built does not affect
// that Converter, the same snapshot discipline the path and CAT registries
// use.
type Config struct {
	DefaultChromaticAdaption CATMethod
	DefaultRenderingIntent   RenderingIntent
	ClutInterpolation        ClutInterpolationMethod
}

// RenderingIntent mirrors icc.RenderingIntent's four values without
// importing the icc package's naming into configuration defaults.
type RenderingIntent int

const (
	Perceptual RenderingIntent = iota
	RelativeColorimetric
	Saturation
	AbsoluteColorimetric
)

func defaultConfig() Config {
	return Config{
		DefaultChromaticAdaption: Bradford,
		DefaultRenderingIntent:   RelativeColorimetric,
		ClutInterpolation:        Tetrahedral,
	}
}

var (
	configOnce sync.Once
	configMu   sync.RWMutex
	current    Config
)

// loadConfigFromEnv overrides defaults from CMS_DEFAULT_CAT,
// CMS_DEFAULT_INTENT and CMS_CLUT_INTERPOLATION when set.
func loadConfigFromEnv() Config {
	cfg := defaultConfig()

	if v, ok := os.LookupEnv("CMS_DEFAULT_CAT"); ok {
		switch {
		case strings.EqualFold(v, string(Bradford)):
			cfg.DefaultChromaticAdaption = Bradford
		case strings.EqualFold(v, string(VonKries)):
			cfg.DefaultChromaticAdaption = VonKries
		case strings.EqualFold(v, string(XyzScaling)):
			cfg.DefaultChromaticAdaption = XyzScaling
		case strings.EqualFold(v, string(CAT02Method)):
			cfg.DefaultChromaticAdaption = CAT02Method
		}
	}

	if v, ok := os.LookupEnv("CMS_DEFAULT_INTENT"); ok {
		switch {
		case strings.EqualFold(v, "Perceptual"):
			cfg.DefaultRenderingIntent = Perceptual
		case strings.EqualFold(v, "RelativeColorimetric"):
			cfg.DefaultRenderingIntent = RelativeColorimetric
		case strings.EqualFold(v, "Saturation"):
			cfg.DefaultRenderingIntent = Saturation
		case strings.EqualFold(v, "AbsoluteColorimetric"):
			cfg.DefaultRenderingIntent = AbsoluteColorimetric
		}
	}

	if v, ok := os.LookupEnv("CMS_CLUT_INTERPOLATION"); ok {
		switch {
		case strings.EqualFold(v, string(Trilinear)):
			cfg.ClutInterpolation = Trilinear
		case strings.EqualFold(v, string(Tetrahedral)):
			cfg.ClutInterpolation = Tetrahedral
		case strings.EqualFold(v, string(NLinear)):
			cfg.ClutInterpolation = NLinear
		}
	}

	return cfg
}

// CurrentConfig returns the process-wide configuration in effect, loading
// it from the environment on first call.
func CurrentConfig() Config {
	configOnce.Do(func() {
		configMu.Lock()
		current = loadConfigFromEnv()
		configMu.Unlock()
	})
	configMu.RLock()
	defer configMu.RUnlock()
	return current
}

// SetConfig overrides the process-wide configuration. Intended for tests
// and embedders that want to bypass environment variables; does not
// affect Converters already constructed.
func SetConfig(cfg Config) {
	configOnce.Do(func() {})
	configMu.Lock()
	current = cfg
	configMu.Unlock()
}
