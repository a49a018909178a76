// Package ipc elects a single primary prism instance per user and
// carries open-file requests from secondary invocations to it.
//
// Election claims an exclusive file lock; the OS guarantees atomicity,
// so exactly one process wins. The winner becomes the primary, binds a
// Unix domain socket in the same construction step, and accepts
// newline-delimited messages into an inbox that the viewer loop polls
// without blocking. Losers become secondaries: they dial the primary's
// socket (retrying briefly, since a primary mid-startup is a normal
// state) and send one encoded message per file, fire-and-forget.
//
// The role is decided exactly once per process; there is no
// re-election. Messages from one secondary arrive in send order; no
// ordering holds across concurrent secondaries.
package ipc
