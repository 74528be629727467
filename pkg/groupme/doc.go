// Package groupme implements a client for the GroupMe REST API v3.
//
// The client covers the two endpoints the downloader needs: the bounded
// group listing and backward-paginated message history pages. All requests
// are authenticated by appending the API token as a query parameter.
// Transport and schema failures are fatal to the calling operation; the
// client performs no retries.
package groupme
