// Package startup turns command-line image arguments into running
// work: it classifies positional arguments into image entries, forwards
// them to an already-running primary instance, or boots the primary's
// queue, pools, and viewer loop.
package startup
