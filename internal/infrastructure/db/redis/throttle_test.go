package redis

import (
	"testing"
	"time"
)

func TestThrottleKey_NormalisesEmail(t *testing.T) {
	tests := map[string]string{
		"a@b.com":       "login:fail:a@b.com",
		"  A@B.com ":    "login:fail:a@b.com",
		"Admin@CSE.COM": "login:fail:admin@cse.com",
	}
	for in, want := range tests {
		if got := throttleKey(in); got != want {
			t.Errorf("throttleKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewLoginThrottle_Defaults(t *testing.T) {
	th := NewLoginThrottle(nil, 0, 0)
	if th.maxAttempts != defaultMaxAttempts {
		t.Errorf("maxAttempts = %d, want %d", th.maxAttempts, defaultMaxAttempts)
	}
	if th.lockout != defaultLockout {
		t.Errorf("lockout = %s, want %s", th.lockout, defaultLockout)
	}

	th = NewLoginThrottle(nil, 3, time.Minute)
	if th.maxAttempts != 3 || th.lockout != time.Minute {
		t.Errorf("explicit limits ignored: %d / %s", th.maxAttempts, th.lockout)
	}
}
