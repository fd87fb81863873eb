// Package dupes maintains the mapping from content fingerprint to the set of
// paths sharing it, and assigns the compact group numbers used for display.
package dupes
