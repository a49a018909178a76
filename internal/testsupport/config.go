package testsupport

import (
	"path/filepath"
	"testing"

	"prism/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.RuntimeDir = filepath.Join(base, "runtime")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.LockFile = filepath.Join(base, "runtime", "prism.lock")
	cfgVal.Paths.Socket = filepath.Join(base, "runtime", "prism.sock")
	cfgVal.Viewer.PollIntervalMillis = 10
	cfgVal.Loader.Workers = 1

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithWorkers overrides the decode pool size on the test config.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Loader.Workers = n
	}
}

// WithFilter sets the viewer's image filter on the test config.
func WithFilter(filter string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Viewer.Filter = filter
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.RuntimeDir)
}
