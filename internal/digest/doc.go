// Package digest computes MD5 content fingerprints for single files with
// chunk-granular cancellation and partial byte accounting on failure.
package digest
