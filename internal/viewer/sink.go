package viewer

import (
	"log/slog"

	"prism/internal/imageio"
	"prism/internal/logging"
	"prism/internal/textutil"
)

// ImageAddition is one completed load handed from a worker to the
// viewer. Produced once, consumed once; ownership moves through the
// shared queue.
type ImageAddition struct {
	// ShouldSelect makes the image the focused one. True for images
	// delivered over IPC: double-clicking a file in a file manager
	// should bring that image to the front.
	ShouldSelect bool
	Image        *imageio.Image
}

// Sink receives decoded images, one at a time, from the loop
// goroutine only. The GUI surface implements this.
type Sink interface {
	AddImage(img *imageio.Image, shouldSelect bool)
}

// LogSink is the headless sink used when no viewing surface is
// attached: it records each arrival. Useful for scripted runs and as
// the stand-in surface in tests.
type LogSink struct {
	logger *slog.Logger
	filter string
}

// NewLogSink builds a sink logging through logger. filter mirrors the
// viewer's image/layer filter; arrivals report whether they are
// visible through it.
func NewLogSink(logger *slog.Logger, filter string) *LogSink {
	return &LogSink{
		logger: logging.NewComponentLogger(logger, "viewer"),
		filter: filter,
	}
}

func (s *LogSink) AddImage(img *imageio.Image, shouldSelect bool) {
	size := img.Size()
	attrs := []logging.Attr{
		logging.String("name", img.Name),
		logging.String("format", img.Format),
		logging.Int("width", size.X),
		logging.Int("height", size.Y),
		logging.Bool("selected", shouldSelect),
	}
	if s.filter != "" {
		attrs = append(attrs, logging.Bool("visible", textutil.Matches(img.Name, s.filter)))
	}
	s.logger.Info("image added", logging.Args(attrs...)...)
}
