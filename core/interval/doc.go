// Package interval normalizes raw calendar busy intervals into a
// canonical, merged, non-overlapping per-day representation.
package interval
