package viewer

import (
	"fmt"
	"strings"
)

// Tonemap selects the tonemapping algorithm applied for display.
type Tonemap int

const (
	TonemapSRGB Tonemap = iota
	TonemapGamma
	TonemapFalseColor
	TonemapPositiveNegative
)

func (t Tonemap) String() string {
	switch t {
	case TonemapGamma:
		return "gamma"
	case TonemapFalseColor:
		return "fc"
	case TonemapPositiveNegative:
		return "pn"
	default:
		return "srgb"
	}
}

// ParseTonemap resolves a tonemap name, accepting the historical
// aliases. Unknown names are a validation error, not a silent
// fallback: a typo should not quietly change rendering.
func ParseTonemap(name string) (Tonemap, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "SRGB":
		return TonemapSRGB, nil
	case "GAMMA":
		return TonemapGamma, nil
	case "FALSECOLOR", "FC":
		return TonemapFalseColor, nil
	case "POSITIVENEGATIVE", "POSNEG", "PN", "+-":
		return TonemapPositiveNegative, nil
	default:
		return TonemapSRGB, fmt.Errorf("unknown tonemap %q (expected srgb, gamma, fc, or pn)", name)
	}
}

// Metric selects how two images are compared.
type Metric int

const (
	MetricError Metric = iota
	MetricAbsoluteError
	MetricSquaredError
	MetricRelativeAbsoluteError
	MetricRelativeSquaredError
)

func (m Metric) String() string {
	switch m {
	case MetricAbsoluteError:
		return "ae"
	case MetricSquaredError:
		return "se"
	case MetricRelativeAbsoluteError:
		return "rae"
	case MetricRelativeSquaredError:
		return "rse"
	default:
		return "e"
	}
}

// ParseMetric resolves a comparison metric name.
func ParseMetric(name string) (Metric, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "E":
		return MetricError, nil
	case "AE":
		return MetricAbsoluteError, nil
	case "SE":
		return MetricSquaredError, nil
	case "RAE":
		return MetricRelativeAbsoluteError, nil
	case "RSE":
		return MetricRelativeSquaredError, nil
	default:
		return MetricError, fmt.Errorf("unknown metric %q (expected e, ae, se, rae, or rse)", name)
	}
}

// Options are the display parameters resolved from config and flags.
type Options struct {
	// Exposure scales brightness prior to tonemapping by 2^Exposure.
	Exposure float64
	// Offset is added after exposure has been applied.
	Offset   float64
	Filter   string
	Tonemap  Tonemap
	Metric   Metric
	Maximize bool
}
