// Package hashjob orchestrates concurrent fingerprinting of a path set.
//
// An Engine runs at most one Job at a time. A Job fans paths out to a bounded
// worker pool and funnels completions through a single collector goroutine,
// which keeps the result stream and the progress counter paired: a consumer
// that has observed progress (k, total) can already receive exactly k results.
// Cancellation is cooperative; in-flight files abort at their next chunk
// boundary and undispatched files are never started.
package hashjob
