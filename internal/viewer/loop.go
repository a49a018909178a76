package viewer

import (
	"context"
	"log/slog"
	"time"

	"prism/internal/imageio"
	"prism/internal/ipc"
	"prism/internal/logging"
	"prism/internal/pool"
	"prism/internal/queue"
)

// LoadFunc decodes one image. Swappable in tests.
type LoadFunc func(path, selector string) (*imageio.Image, error)

// Loop is the viewer's consumer side: one goroutine polling the shared
// image queue and the IPC inbox at a fixed idle interval.
type Loop struct {
	images   *queue.Queue[ImageAddition]
	coord    *ipc.IPC
	decoders *pool.Pool
	sink     Sink
	load     LoadFunc
	interval time.Duration
	logger   *slog.Logger
}

// NewLoop wires the consumer loop. decoders receives the load tasks
// for IPC-delivered paths; pass the wide decode pool, not the startup
// single-worker pool.
func NewLoop(images *queue.Queue[ImageAddition], coord *ipc.IPC, decoders *pool.Pool, sink Sink, interval time.Duration, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Loop{
		images:   images,
		coord:    coord,
		decoders: decoders,
		sink:     sink,
		load:     imageio.Load,
		interval: interval,
		logger:   logging.NewComponentLogger(logger, "viewer"),
	}
}

// SetLoadFunc overrides the image decoder. Tests use this to avoid
// real file I/O.
func (l *Loop) SetLoadFunc(fn LoadFunc) {
	if fn != nil {
		l.load = fn
	}
}

// Run polls until ctx is canceled. Each tick drains every ready image
// and every pending IPC message before sleeping again, so a burst of
// completed loads appears in one refresh.
func (l *Loop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		l.Tick()
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Tick performs one poll iteration: queue drain, then IPC drain.
// Exposed so tests can step the loop deterministically.
func (l *Loop) Tick() {
	l.drainImages()
	l.drainMessages()
}

func (l *Loop) drainImages() {
	for {
		addition, ok := l.images.TryPop()
		if !ok {
			return
		}
		l.sink.AddImage(addition.Image, addition.ShouldSelect)
	}
}

// drainMessages turns each pending IPC message into a background load.
// The decoded image arrives through the same queue as command-line
// images, but selected: the user just asked for this file.
func (l *Loop) drainMessages() {
	for {
		msg, ok := l.coord.TryReceive()
		if !ok {
			return
		}
		path, selector := msg.Path, msg.Selector
		err := l.decoders.Enqueue(func() {
			img, err := l.load(path, selector)
			if err != nil {
				l.logger.Error("failed to load image",
					logging.String(logging.FieldPath, path),
					logging.Error(err))
				return
			}
			l.images.Push(ImageAddition{ShouldSelect: true, Image: img})
		})
		if err != nil {
			l.logger.Warn("dropping message during shutdown",
				logging.String(logging.FieldPath, path),
				logging.Error(err))
		}
	}
}
