// Package dialect names the three data-file formats and decides which one a
// document is written in.
//
// The host usually knows the answer (an editor language id, a CLI flag, a
// config glob). When it does not, Classify sniffs the content and scores the
// evidence; callers apply their own thresholds.
package dialect
