// Package source fetches the published tournament sheet and turns it into
// raw rows.
//
// The sheet is read over HTTP or from a local file, as CSV or as a published
// HTML table; the header row names the columns. Loader caches the normalized
// data set for a configurable TTL and collapses concurrent loads into one
// fetch.
package source
