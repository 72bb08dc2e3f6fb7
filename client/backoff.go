package client

import (
	"math"
	"time"
)

// Delay computes the reconnect delay from the current retry interval and
// the configured exponent: ((retry/1s)^exponent) * 1s. With the default
// exponent of 1 this is simply the retry interval itself, i.e. a constant
// delay; the exponent is config-visible but never incremented per attempt.
func Delay(retry time.Duration, exponent uint32) time.Duration {
	if retry <= 0 {
		return 0
	}
	secs := retry.Seconds()
	d := time.Duration(math.Pow(secs, float64(exponent)) * float64(time.Second))
	if d < 0 {
		return 0
	}
	return d
}
