package services

import (
	"math"

	"golang.org/x/time/rate"
)

// newThrottle limits files hashed per second. Zero or negative means no limit.
func newThrottle(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := int(math.Ceil(perSecond))
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}
