package fetch

import "time"

const (
	DefaultMaxRetries  = 3
	DefaultTimeout     = 10 * time.Second
	DefaultBackoffUnit = time.Second
)

// Backoff returns the wait after failed attempt n (0-indexed): unit * 2^n.
func Backoff(attempt int, unit time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	return time.Duration(1<<uint(attempt)) * unit
}
