package repo

import "context"

// LoginThrottle caps login attempts per client key over a fixed window.
// The counter lives in a store shared by all service instances, so the cap
// holds under horizontal scale-out.
type LoginThrottle interface {
	// Admit counts one attempt and reports whether it is allowed.
	Admit(ctx context.Context, clientKey string) (bool, error)
}
