// Package internal provides the search engine behind sas.
//
// The engine holds a set of named, compiled queries and runs them over
// source files. Each file is parsed once by the backend registered for its
// extension, and every active query is matched against the resulting
// cursor tree concurrently.
//
// Key components:
//
// Engine: coordinates parsing and matching. Queries can be disabled with
// IgnoreQuery and files skipped with IgnorePath.
//
// Suppression: "//nosas" comments in a source hide matches, see package
// suppress.
//
// Watch mode: StartWatching re-searches files as they are written and
// reports the matches through the engine's logger or a match handler.
//
// Usage:
//
//	p, err := query.Compile("Foo::Bar::get:int(...)")
//	if err != nil {
//	    // handle error
//	}
//
//	engine, err := internal.NewEngine(map[string]query.Pattern{"getters": p},
//	    internal.WithMode(matcher.Declaration))
//	if err != nil {
//	    // handle error
//	}
//
//	matches, err := engine.Run(ctx, "path/to/file.cpp")
//	if err != nil {
//	    // handle error
//	}
//
//	for _, m := range matches {
//	    fmt.Printf("%s: %s %s\n", m.Start, m.Kind, m.Spelling)
//	}
//
// This package is intended for internal use within sas and should not be
// imported by external packages.
package internal
