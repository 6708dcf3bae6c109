// Package trace records spans and instant events of the vela toolchain.
//
// A Tracer travels in the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "check", 0)
//	defer span.End("")
//
// Scopes order events from coarse to fine (driver, session, pass, module);
// the Level decides which scopes are emitted. Tracing is off unless the CLI
// is started with --trace.
package trace
