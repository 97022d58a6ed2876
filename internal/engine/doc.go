// Package engine coordinates a cfnslim run: load -> split/optimize -> write.
//
// # Basic Usage
//
//	eng, err := engine.New(cfg, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	stats, err := eng.Run(ctx, engine.ModeAll, engine.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = engine.WriteSummary(os.Stdout, stats)
//
// # Run Phases
//
//  1. Load: the source is read once. A missing source is fatal.
//  2. Transform: the splitter and the optimizer each run over the same
//     source document. Neither sees the other's output.
//  3. Probe: the output directory and the optimized file's directory are
//     created and checked for writability, and no target may be the source.
//  4. Write: artifacts are written atomically.
//
// Phases 1–3 complete before any file is written, so a failing run leaves
// previous artifacts in place.
//
// # Modes
//
// Mode is a closed enumeration (split, optimize, all). ParseMode rejects any
// other name.
//
// # Concurrency
//
// A run is synchronous. RunLock makes a second concurrent Run on the same
// Engine return ErrRunInProgress; this matters for the MCP server and watch
// mode, which can both trigger runs.
package engine
