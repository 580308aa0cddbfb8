// Package filesystem provides the small set of filesystem utilities the
// engine needs beyond what the standard library offers directly: atomic
// file writes for cache persistence and resolution of the default cache
// file location.
package filesystem
