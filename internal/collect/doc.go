// Package collect expands file and directory inputs into the flat,
// deduplicated list of absolute file paths a hashing job operates on.
package collect
