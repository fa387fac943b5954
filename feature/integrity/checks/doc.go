// Package checks implements the individual integrity checks: bucket contents,
// catalog schema and per-record asset references.
package checks
