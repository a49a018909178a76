package config

const (
	defaultRuntimeDir         = "~/.local/share/prism"
	defaultLogDir             = "~/.local/share/prism/logs"
	defaultLockFileName       = "prism.lock"
	defaultSocketName         = "prism.sock"
	defaultTonemap            = "srgb"
	defaultMetric             = "e"
	defaultPollIntervalMillis = 250
	defaultLogFormat          = "auto"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			RuntimeDir: defaultRuntimeDir,
			LogDir:     defaultLogDir,
		},
		Viewer: Viewer{
			Tonemap:            defaultTonemap,
			Metric:             defaultMetric,
			PollIntervalMillis: defaultPollIntervalMillis,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
