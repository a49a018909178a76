// Package viewer contains the display parameter model and the poll
// loop that feeds decoded images into the viewing surface.
//
// The loop is the single consumer of the shared image queue. It runs
// on one goroutine, never blocks on I/O, and on every tick drains all
// ready images plus any pending IPC messages before yielding, so
// images appear as soon as they are decoded rather than once all
// loads complete.
package viewer
