// Package api exposes the download service, metadata lookups and the
// analytics scorer over HTTP.
package api
