// Package fixapi exposes the engine behind opaque handles, mirroring the
// entry-point surface an external MIP solver calls into: set a problem up
// from a file, run fix-and-propagate on a continuous solution, run the
// one-opt pass, run the simple bound heuristic, and tear the instance
// down.
//
// A Handle bundles the parsed problem, its heuristic orchestrator and all
// persistent buffers; the registry behind the handles is the only mutable
// shared state in the module and is mutex-guarded.  Handles are safe to
// use from any goroutine, one call at a time per handle.
package fixapi
