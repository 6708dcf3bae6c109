// Package driver loads a vela project from disk and runs the check
// pipeline over it for the command line.
//
// LoadUnit resolves what to check (a vela.toml project, a directory or a
// single file), reads the sources into one FileSet and parses them in
// parallel. Check builds fresh Engines for the unit and optionally serves
// the verdict from an on-disk cache.
package driver
