package ports

import "net/http"

// HTTPClient is a minimal HTTP client interface for making requests.
// The protocol core defines what is sent; connection pooling, timeouts
// and retry policy all live behind this boundary.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}
