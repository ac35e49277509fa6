package http

import (
	"testing"
	"time"
)

func TestAuthRateLimiterWindow(t *testing.T) {
	rl := NewAuthRateLimiter(3, 50*time.Millisecond)

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("attempt %d should be allowed", i)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Error("fourth attempt inside the window should be blocked")
	}
	if !rl.Allow("5.6.7.8") {
		t.Error("other keys have their own budget")
	}

	time.Sleep(60 * time.Millisecond)
	if !rl.Allow("1.2.3.4") {
		t.Error("budget should refill after the window passes")
	}
}
