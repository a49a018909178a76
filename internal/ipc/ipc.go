package ipc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"prism/internal/logging"
	"prism/internal/queue"
)

// Role identifies the outcome of instance election, decided exactly
// once at construction.
type Role int

const (
	RolePrimary Role = iota
	RoleSecondary
)

func (r Role) String() string {
	if r == RolePrimary {
		return "primary"
	}
	return "secondary"
}

// ErrNotSecondary is returned when SendToPrimary is called on the
// primary instance.
var ErrNotSecondary = errors.New("ipc: send requires the secondary role")

const (
	dialTimeout   = 2 * time.Second
	dialAttempts  = 5
	dialRetryWait = 200 * time.Millisecond
)

// IPC owns the process-wide election lock and, for the primary, the
// receiving socket. Create exactly one per process and close it last,
// after all background workers have drained.
type IPC struct {
	role       Role
	lock       *flock.Flock
	socketPath string
	logger     *slog.Logger

	// primary
	listener net.Listener
	inbox    *queue.Queue[Message]
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	// secondary
	connMu sync.Mutex
	conn   net.Conn
}

// New performs instance election. Claiming the lock file at lockPath
// decides the role: the winner binds socketPath and starts accepting
// before New returns, so no secondary started afterwards can race the
// listener; losers hold no resources until the first send.
func New(lockPath, socketPath string, logger *slog.Logger) (*IPC, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "ipc")

	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create runtime directory: %w", err)
	}

	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire instance lock: %w", err)
	}

	i := &IPC{
		lock:       lock,
		socketPath: socketPath,
		logger:     logger,
	}

	if !locked {
		// Contention is the expected path to the secondary role, not
		// an error. Another process owns the lock and its socket.
		i.role = RoleSecondary
		logger.Debug("another instance is primary", logging.String(logging.FieldRole, i.role.String()))
		return i, nil
	}

	i.role = RolePrimary
	if err := i.listen(); err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	logger.Debug("elected primary", logging.String("socket", socketPath))
	return i, nil
}

// listen binds the receiving socket and starts the accept loop. Runs
// in the same construction step as the lock claim so there is no
// window in which the lock is held but the endpoint missing.
func (i *IPC) listen() error {
	// A stale socket from a crashed primary would block the bind; the
	// lock proves no live primary owns it.
	if err := os.RemoveAll(i.socketPath); err != nil {
		return fmt.Errorf("remove stale socket: %w", err)
	}
	listener, err := net.Listen("unix", i.socketPath)
	if err != nil {
		return fmt.Errorf("listen on socket: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	i.listener = listener
	i.inbox = queue.New[Message]()
	i.cancel = cancel

	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return
				default:
				}
				i.logger.Warn("accept failed", logging.Error(err),
					logging.String(logging.FieldEventType, "ipc_accept_failed"))
				continue
			}
			i.wg.Add(1)
			go func(c net.Conn) {
				defer i.wg.Done()
				i.receive(c)
			}(conn)
		}
	}()
	return nil
}

// receive reads newline-delimited messages from one secondary
// connection into the inbox, preserving their order.
func (i *IPC) receive(conn net.Conn) {
	defer conn.Close()
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		raw := scanner.Text()
		if raw == "" {
			continue
		}
		msg := ParseMessage(raw)
		i.inbox.Push(msg)
		i.logger.Debug("message received",
			logging.String(logging.FieldPath, msg.Path),
			logging.String(logging.FieldSelector, msg.Selector))
	}
	if err := scanner.Err(); err != nil {
		i.logger.Warn("connection read failed", logging.Error(err),
			logging.String(logging.FieldEventType, "ipc_read_failed"))
	}
}

// Role returns the elected role.
func (i *IPC) Role() Role {
	return i.role
}

// IsPrimary reports whether this process won the election.
func (i *IPC) IsPrimary() bool {
	return i.role == RolePrimary
}

// SendToPrimary delivers one message to the primary instance,
// fire-and-forget. The connection is established lazily on first send
// and reused, so messages from this process arrive in send order. A
// failure is recoverable: the caller reports it for the offending file
// and continues with the next.
func (i *IPC) SendToPrimary(msg Message) error {
	if i.role != RoleSecondary {
		return ErrNotSecondary
	}

	i.connMu.Lock()
	defer i.connMu.Unlock()

	if i.conn == nil {
		conn, err := dialPrimary(i.socketPath)
		if err != nil {
			return fmt.Errorf("connect to primary instance: %w", err)
		}
		i.conn = conn
	}

	if _, err := i.conn.Write([]byte(msg.Encode() + "\n")); err != nil {
		i.conn.Close()
		i.conn = nil
		return fmt.Errorf("send to primary instance: %w", err)
	}
	return nil
}

// dialPrimary retries briefly: a primary still binding its socket is a
// normal state during concurrent startup, not a failure.
func dialPrimary(socketPath string) (net.Conn, error) {
	var lastErr error
	for attempt := 0; attempt < dialAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(dialRetryWait)
		}
		conn, err := net.DialTimeout("unix", socketPath, dialTimeout)
		if err == nil {
			return conn, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// TryReceive returns the next pending message without blocking. The
// viewer loop polls this every tick.
func (i *IPC) TryReceive() (Message, bool) {
	if i.inbox == nil {
		return Message{}, false
	}
	return i.inbox.TryPop()
}

// Close releases every resource the election claimed: the listener and
// socket file, open connections, and (for the primary) the lock. Call
// after all worker pools have been shut down, so no in-flight task can
// observe a released endpoint.
func (i *IPC) Close() error {
	if i.role == RoleSecondary {
		i.connMu.Lock()
		defer i.connMu.Unlock()
		if i.conn != nil {
			err := i.conn.Close()
			i.conn = nil
			return err
		}
		return nil
	}

	if i.cancel != nil {
		i.cancel()
	}
	if i.listener != nil {
		_ = i.listener.Close()
	}
	i.wg.Wait()
	if i.inbox != nil {
		i.inbox.Close()
	}
	if err := os.RemoveAll(i.socketPath); err != nil {
		i.logger.Warn("failed to remove socket",
			logging.String("socket", i.socketPath), logging.Error(err),
			logging.String(logging.FieldEventType, "ipc_socket_cleanup_failed"))
	}
	if err := i.lock.Unlock(); err != nil {
		return fmt.Errorf("release instance lock: %w", err)
	}
	return nil
}
