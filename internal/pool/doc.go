// Package pool runs queued tasks on a fixed set of worker goroutines.
//
// Image decoding happens off the viewer goroutine: startup submits one
// load task per command-line image to a dedicated single-worker pool,
// and IPC-delivered paths are decoded on a wider pool sized to the
// machine. Tasks run in submission order but may run on any worker.
// Shutdown drains every queued and in-flight task before joining the
// workers, so no task can outlive the resources it captured.
package pool
