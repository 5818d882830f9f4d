// Package diag renders bridge diagnostics as human-readable lines, one per
// diagnostic, with the severity colorized on capable terminals.
package diag
