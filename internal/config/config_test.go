package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "RATE_LIMIT_MS", "JWT_EXPIRES_DAYS", "NODE_ENV"} {
		t.Setenv(k, "")
	}
	c := FromEnv()
	if c.Port != "5175" || c.RateLimit != 100*time.Millisecond || c.JWTExpires != 14*24*time.Hour || c.Production {
		t.Fatalf("unexpected defaults %+v", c)
	}
}

func TestOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("RATE_LIMIT_MS", "250")
	t.Setenv("JWT_EXPIRES_DAYS", "bogus")
	t.Setenv("NODE_ENV", "production")
	c := FromEnv()
	if c.Port != "9000" || c.RateLimit != 250*time.Millisecond || !c.Production {
		t.Fatalf("overrides not applied %+v", c)
	}
	if c.JWTExpires != 14*24*time.Hour {
		t.Fatalf("bad int should fall back, got %v", c.JWTExpires)
	}
}
