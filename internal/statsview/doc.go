// Package statsview serves runtime statistics of a running board over HTTP.
// It is only built with the statsview build tag; without it Launch reports
// that the server is unavailable.
//
// After launch, graphs are at
//
//	localhost:12600/debug/statsview
//
// and the standard pprof pages at
//
//	localhost:12600/debug/pprof/
package statsview
