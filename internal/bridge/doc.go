// Package bridge implements the JSON-over-HTTP client for the local Unity
// bridge service. The bridge owns the request/response schema; this package
// only formats requests, issues one synchronous POST per call, and decodes
// the diagnostics payload.
package bridge
