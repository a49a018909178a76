package startup

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"prism/internal/imageio"
	"prism/internal/ipc"
	"prism/internal/logging"
	"prism/internal/pool"
	"prism/internal/queue"
	"prism/internal/viewer"
)

// Entry is one image request parsed from the command line.
type Entry struct {
	Path     string
	Selector string
}

// ClassifyArgs splits positional arguments into image entries. An
// argument of the form ":name" names no file; it sets the channel
// selector applied to every following file until the next selector
// argument. Files before the first selector argument carry an empty
// selector.
func ClassifyArgs(args []string) []Entry {
	var entries []Entry
	selector := ""
	for _, arg := range args {
		if strings.HasPrefix(arg, ":") {
			selector = arg[1:]
			continue
		}
		if arg == "" {
			continue
		}
		entries = append(entries, Entry{Path: arg, Selector: selector})
	}
	return entries
}

// ForwardToPrimary hands each entry to the running primary instance.
// Paths are made absolute first: the primary resolves them from its own
// working directory, which is not ours. A failure is reported on stderr
// for the offending file and forwarding continues with the next; a
// partially delivered batch is still a successful secondary run.
func ForwardToPrimary(coord *ipc.IPC, entries []Entry, stderr io.Writer, logger *slog.Logger) {
	if stderr == nil {
		stderr = os.Stderr
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "startup")

	for _, entry := range entries {
		path, err := filepath.Abs(entry.Path)
		if err != nil {
			fmt.Fprintf(stderr, "prism: cannot resolve %s: %v\n", entry.Path, err)
			continue
		}
		msg := ipc.Message{Path: path, Selector: entry.Selector}
		if err := coord.SendToPrimary(msg); err != nil {
			fmt.Fprintf(stderr, "prism: cannot forward %s: %v\n", entry.Path, err)
			logger.Warn("forward failed",
				logging.String(logging.FieldPath, path),
				logging.Error(err))
			continue
		}
		logger.Debug("forwarded image",
			logging.String(logging.FieldPath, path),
			logging.String(logging.FieldSelector, entry.Selector))
	}
}

// Options configures a primary run.
type Options struct {
	// Entries are the command-line images loaded at startup.
	Entries []Entry
	// Sink receives every decoded image.
	Sink viewer.Sink
	// PollInterval is the viewer loop's idle tick. Zero means 250ms.
	PollInterval time.Duration
	// Workers sizes the decode pool serving IPC-delivered images.
	// Zero means one worker per CPU.
	Workers int
	Stdout  io.Writer
	Stderr  io.Writer
}

// Primary owns the resources of the elected primary instance for the
// duration of one run.
type Primary struct {
	coord  *ipc.IPC
	opts   Options
	load   viewer.LoadFunc
	logger *slog.Logger
}

// NewPrimary prepares a primary run on top of an election already won.
func NewPrimary(coord *ipc.IPC, opts Options, logger *slog.Logger) *Primary {
	if opts.PollInterval <= 0 {
		opts.PollInterval = 250 * time.Millisecond
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Primary{
		coord:  coord,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "startup"),
	}
}

// SetLoadFunc overrides the image decoder used for startup entries and
// IPC-delivered paths alike. Tests use this to avoid real file I/O.
func (p *Primary) SetLoadFunc(fn viewer.LoadFunc) {
	if fn != nil {
		p.load = fn
	}
}

// Run boots the viewer and blocks until ctx is canceled. Startup
// entries load on a dedicated single worker so they surface in
// command-line order even while the wider decode pool serves IPC
// requests concurrently. On cancelation the loop stops first, then the
// pools drain and join, then the queue closes; the caller releases the
// election lock afterwards.
func (p *Primary) Run(ctx context.Context) error {
	fmt.Fprintln(p.opts.Stdout, "Loading window...")

	images := queue.New[viewer.ImageAddition]()
	loaders := pool.NewSingleWorker(p.logger)
	decoders := pool.New(p.opts.Workers, p.logger)

	loop := viewer.NewLoop(images, p.coord, decoders, p.opts.Sink, p.opts.PollInterval, p.logger)
	if p.load != nil {
		loop.SetLoadFunc(p.load)
	}

	if err := p.enqueueEntries(images, loaders); err != nil {
		loaders.Shutdown()
		decoders.Shutdown()
		images.Close()
		return err
	}

	loop.Run(ctx)

	loaders.Shutdown()
	decoders.Shutdown()

	// Hand the last drained loads to the sink before the queue closes.
	loop.Tick()
	images.Close()
	return nil
}

// enqueueEntries schedules every startup entry on the load worker. A
// file that fails to decode is reported and skipped; the rest of the
// batch still loads.
func (p *Primary) enqueueEntries(images *queue.Queue[viewer.ImageAddition], loaders *pool.Pool) error {
	load := p.load
	if load == nil {
		load = imageio.Load
	}

	for _, entry := range p.opts.Entries {
		path, err := filepath.Abs(entry.Path)
		if err != nil {
			fmt.Fprintf(p.opts.Stderr, "prism: cannot resolve %s: %v\n", entry.Path, err)
			continue
		}
		selector := entry.Selector
		err = loaders.Enqueue(func() {
			img, err := load(path, selector)
			if err != nil {
				fmt.Fprintf(p.opts.Stderr, "prism: cannot load %s: %v\n", path, err)
				p.logger.Error("failed to load image",
					logging.String(logging.FieldPath, path),
					logging.Error(err))
				return
			}
			images.Push(viewer.ImageAddition{Image: img})
		})
		if err != nil {
			return fmt.Errorf("schedule startup load: %w", err)
		}
	}
	return nil
}
