// Package trash relocates files into a holding directory instead of deleting
// them, so a prune can be undone by hand.
package trash
