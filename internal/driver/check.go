package driver

import (
	"context"
	"fmt"

	"vela/internal/check"
	"vela/internal/diag"
	"vela/internal/engines"
	"vela/internal/observ"
	"vela/internal/trace"
)

// Outcome is the verdict for a unit.
type Outcome struct {
	Unit        *Unit
	OK          bool
	Diagnostics []diag.Diagnostic
	// Result is nil when the verdict came from the cache.
	Result *check.Result
	Cached bool
}

// Errors counts error-severity diagnostics.
func (o *Outcome) Errors() int {
	n := 0
	for i := range o.Diagnostics {
		if o.Diagnostics[i].Severity == diag.SevError {
			n++
		}
	}
	return n
}

// Warnings counts warning-severity diagnostics.
func (o *Outcome) Warnings() int {
	n := 0
	for i := range o.Diagnostics {
		if o.Diagnostics[i].Severity == diag.SevWarning {
			n++
		}
	}
	return n
}

// ApplyManifest fills options the command line left at their zero value
// from the unit's [build] section. Flags always win.
func ApplyManifest(unit *Unit, opts check.Options, targetSet bool) (check.Options, error) {
	if unit.Manifest == nil {
		return opts, nil
	}
	if !targetSet && unit.Manifest.Build.Target != "" {
		t, err := check.ParseBuildTarget(unit.Manifest.Build.Target)
		if err != nil {
			return opts, fmt.Errorf("%s: [build].target: %w", unit.Manifest.Path, err)
		}
		opts.BuildTarget = t
	}
	if unit.Manifest.Build.DisableTests {
		opts.DisableTests = true
	}
	return opts, nil
}

// Check runs the pipeline over unit on fresh Engines. With a non-nil cache
// an unchanged unit is answered from disk and fresh verdicts are stored.
func Check(ctx context.Context, unit *Unit, opts check.Options, cache *Cache, timer *observ.Timer) (*Outcome, error) {
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "driver.check", trace.ParentID(ctx))
	defer span.End("")

	key := CacheKey(unit, opts)
	if cache != nil {
		var payload CachePayload
		hit, err := cache.Get(key, &payload)
		if err != nil {
			// a corrupt entry is recomputed and overwritten
			span.WithExtra("cache", "corrupt")
		} else if hit {
			span.WithExtra("cache", "hit")
			return &Outcome{Unit: unit, OK: payload.OK, Diagnostics: payload.Diagnostics, Cached: true}, nil
		}
	}

	eng := engines.New(unit.Files)
	var res *check.Result
	err := timer.Measure("check", func() error {
		var err error
		res, err = check.Run(trace.WithParent(ctx, span.ID()), eng, unit.ASTs, unit.Syntax, opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	for _, st := range res.Steps {
		timer.Record(observ.Phase{Name: st.Name, Dur: st.Dur, Depth: 1})
	}
	out := &Outcome{Unit: unit, OK: res.OK, Diagnostics: res.Diagnostics, Result: res}
	if cache != nil {
		if err := cache.Put(key, &CachePayload{Schema: cacheSchema, OK: res.OK, Diagnostics: res.Diagnostics}); err != nil {
			return out, fmt.Errorf("failed to write check cache: %w", err)
		}
	}
	return out, nil
}
