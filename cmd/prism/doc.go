// Package main hosts the prism CLI entrypoint and command graph.
//
// The Cobra-based command tree resolves configuration, performs
// instance election, and either boots the viewer or forwards the
// requested images to the instance already running. Utility commands
// cover image inspection and configuration scaffolding.
//
// Keep this package lean: add new functionality by extending the
// internal packages first, then surface it through dedicated commands
// or flags here.
package main
