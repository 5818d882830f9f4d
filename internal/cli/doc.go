// Package cli defines the unityhook command tree. It parses flags, loads
// configuration, builds the logger, and translates command outcomes into
// process exit codes via ExitError.
package cli
