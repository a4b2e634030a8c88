// Package delivery defines the contract every transport front-end fulfils.
package delivery

import "context"

// Delivery is a long-running entry point such as an HTTP server.
// Serve blocks until the delivery stops or the context is cancelled.
type Delivery interface {
	Serve(ctx context.Context) error
}
