package middleware

import "github.com/aretw0/framecast/pkg/ports"

// Middleware allows wrapping a SessionStore to add behavior.
type Middleware func(ports.SessionStore) ports.SessionStore

// Chain composes middlewares. The first one is the outermost wrapper.
func Chain(mws ...Middleware) Middleware {
	return func(next ports.SessionStore) ports.SessionStore {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
