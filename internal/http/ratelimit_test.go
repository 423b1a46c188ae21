package http

import "testing"

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()

	for i := 0; i < requestsPerMinute; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d denied below the limit", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Fatalf("request above the limit allowed")
	}
	// Other clients are tracked separately.
	if !rl.allow("10.0.0.2") {
		t.Fatalf("unrelated client denied")
	}
}
