// Package queue provides a generic thread-safe FIFO used to hand work
// results from background loader goroutines to the single viewer
// consumer.
//
// Pushes never block. Pop blocks until an item is available or the
// queue is closed; TryPop is the non-blocking variant used by the
// viewer poll loop, which must never stall on I/O. Items are consumed
// in push order.
package queue
