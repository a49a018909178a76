package startup_test

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"prism/internal/imageio"
	"prism/internal/ipc"
	"prism/internal/logging"
	"prism/internal/startup"
)

type testSink struct {
	mu       sync.Mutex
	names    []string
	selected []bool
}

func (s *testSink) AddImage(img *imageio.Image, shouldSelect bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.names = append(s.names, img.Name)
	s.selected = append(s.selected, shouldSelect)
}

func (s *testSink) snapshot() ([]string, []bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.names...), append([]bool(nil), s.selected...)
}

func fakeLoad(path, selector string) (*imageio.Image, error) {
	return &imageio.Image{
		Path:     path,
		Name:     filepath.Base(path),
		Selector: selector,
		Format:   "png",
	}, nil
}

func TestClassifyArgs(t *testing.T) {
	cases := []struct {
		args []string
		want []startup.Entry
	}{
		{nil, nil},
		{[]string{"a.png"}, []startup.Entry{{Path: "a.png"}}},
		{
			[]string{":depth", "a.png", "b.png", ":normal", "c.png"},
			[]startup.Entry{
				{Path: "a.png", Selector: "depth"},
				{Path: "b.png", Selector: "depth"},
				{Path: "c.png", Selector: "normal"},
			},
		},
		{
			[]string{"a.png", ":depth", "b.png"},
			[]startup.Entry{
				{Path: "a.png"},
				{Path: "b.png", Selector: "depth"},
			},
		},
		{[]string{":depth"}, nil},
	}

	for _, tc := range cases {
		got := startup.ClassifyArgs(tc.args)
		if len(got) != len(tc.want) {
			t.Errorf("ClassifyArgs(%v) = %v, want %v", tc.args, got, tc.want)
			continue
		}
		for n := range got {
			if got[n] != tc.want[n] {
				t.Errorf("ClassifyArgs(%v)[%d] = %v, want %v", tc.args, n, got[n], tc.want[n])
			}
		}
	}
}

func newPrimaryIPC(t *testing.T) *ipc.IPC {
	t.Helper()
	dir := t.TempDir()
	coord, err := ipc.New(filepath.Join(dir, "prism.lock"), filepath.Join(dir, "prism.sock"), logging.NewNop())
	if err != nil {
		t.Fatalf("ipc.New: %v", err)
	}
	t.Cleanup(func() { coord.Close() })
	if !coord.IsPrimary() {
		t.Fatal("expected primary role")
	}
	return coord
}

func waitForImages(t *testing.T, sink *testSink, n int) ([]string, []bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		names, selected := sink.snapshot()
		if len(names) >= n {
			return names, selected
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d images, have %v", n, names)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestPrimaryLoadsEntriesInOrder(t *testing.T) {
	coord := newPrimaryIPC(t)
	sink := &testSink{}
	var stdout bytes.Buffer

	p := startup.NewPrimary(coord, startup.Options{
		Entries: []startup.Entry{
			{Path: "/img/one.png", Selector: "depth"},
			{Path: "/img/two.png"},
			{Path: "/img/three.png"},
		},
		Sink:         sink,
		PollInterval: 10 * time.Millisecond,
		Workers:      2,
		Stdout:       &stdout,
	}, logging.NewNop())
	p.SetLoadFunc(fakeLoad)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	names, selected := waitForImages(t, sink, 3)
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"one.png", "two.png", "three.png"}
	for n := range want {
		if names[n] != want[n] {
			t.Fatalf("position %d: got %q, want %q", n, names[n], want[n])
		}
		if selected[n] {
			t.Fatalf("startup image %d unexpectedly selected", n)
		}
	}
	if !strings.Contains(stdout.String(), "Loading window...") {
		t.Fatalf("missing startup message, stdout %q", stdout.String())
	}
}

func TestPrimarySkipsFailedLoads(t *testing.T) {
	coord := newPrimaryIPC(t)
	sink := &testSink{}
	var stderr bytes.Buffer

	p := startup.NewPrimary(coord, startup.Options{
		Entries: []startup.Entry{
			{Path: "/img/good.png"},
			{Path: "/img/corrupt.png"},
			{Path: "/img/fine.png"},
		},
		Sink:         sink,
		PollInterval: 10 * time.Millisecond,
		Workers:      1,
		Stdout:       &bytes.Buffer{},
		Stderr:       &stderr,
	}, logging.NewNop())
	p.SetLoadFunc(func(path, selector string) (*imageio.Image, error) {
		if strings.Contains(path, "corrupt") {
			return nil, fmt.Errorf("decode %s: truncated data", path)
		}
		return fakeLoad(path, selector)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	names, _ := waitForImages(t, sink, 2)
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}

	if names[0] != "good.png" || names[1] != "fine.png" {
		t.Fatalf("unexpected images %v", names)
	}
	if !strings.Contains(stderr.String(), "corrupt.png") {
		t.Fatalf("failure not reported, stderr %q", stderr.String())
	}
}

func TestForwardToPrimaryDeliversAbsolutePaths(t *testing.T) {
	dir := t.TempDir()
	lockPath := filepath.Join(dir, "prism.lock")
	socketPath := filepath.Join(dir, "prism.sock")

	primary, err := ipc.New(lockPath, socketPath, logging.NewNop())
	if err != nil {
		t.Fatalf("primary ipc.New: %v", err)
	}
	t.Cleanup(func() { primary.Close() })

	secondary, err := ipc.New(lockPath, socketPath, logging.NewNop())
	if err != nil {
		t.Fatalf("secondary ipc.New: %v", err)
	}
	t.Cleanup(func() { secondary.Close() })

	var stderr bytes.Buffer
	startup.ForwardToPrimary(secondary, []startup.Entry{
		{Path: "photo.png", Selector: "depth"},
	}, &stderr, logging.NewNop())

	deadline := time.Now().Add(5 * time.Second)
	for {
		if msg, ok := primary.TryReceive(); ok {
			if !filepath.IsAbs(msg.Path) {
				t.Fatalf("forwarded path %q is not absolute", msg.Path)
			}
			if filepath.Base(msg.Path) != "photo.png" || msg.Selector != "depth" {
				t.Fatalf("unexpected message %+v", msg)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("message never arrived")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if stderr.Len() != 0 {
		t.Fatalf("unexpected errors: %q", stderr.String())
	}
}

func TestForwardToPrimaryContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	lockPath := filepath.Join(dir, "prism.lock")
	socketPath := filepath.Join(dir, "prism.sock")

	primary, err := ipc.New(lockPath, socketPath, logging.NewNop())
	if err != nil {
		t.Fatalf("primary ipc.New: %v", err)
	}
	secondary, err := ipc.New(lockPath, socketPath, logging.NewNop())
	if err != nil {
		t.Fatalf("secondary ipc.New: %v", err)
	}
	t.Cleanup(func() { secondary.Close() })

	// No primary left: every send fails, but the batch still runs to
	// the end with one report per file.
	if err := primary.Close(); err != nil {
		t.Fatalf("close primary: %v", err)
	}

	var stderr bytes.Buffer
	startup.ForwardToPrimary(secondary, []startup.Entry{
		{Path: "a.png"},
		{Path: "b.png"},
	}, &stderr, logging.NewNop())

	out := stderr.String()
	if !strings.Contains(out, "a.png") || !strings.Contains(out, "b.png") {
		t.Fatalf("expected a report per file, got %q", out)
	}
}
