package signal

import "golang.org/x/time/rate"

// newInboundLimiter caps frames per second read from one socket.
// A non-positive limit disables limiting.
func newInboundLimiter(perSecond float64, burst int) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}
