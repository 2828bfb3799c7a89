package monitoring

import "fmt"

// StatusClass buckets an HTTP status code into a coarse label ("2xx", "4xx"...).
// Zero or negative codes map to "error" (network-level failures).
func StatusClass(code int) string {
	if code <= 0 {
		return "error"
	}
	return fmt.Sprintf("%dxx", code/100)
}
