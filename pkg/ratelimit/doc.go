// Package ratelimit paces outbound API requests.
//
// History retrieval uses one Interval per run, so different retrievals
// never share limiter state.
package ratelimit
