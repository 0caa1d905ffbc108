package utils

import (
	"testing"
	"time"
)

func TestPostgresPoolConfig_Defaults(t *testing.T) {
	c := PostgresPoolConfig{}.withDefaults()
	if c.MaxOpenConns <= 0 || c.MaxIdleConns <= 0 {
		t.Fatalf("expected positive pool defaults, got %+v", c)
	}
	if c.PingTimeout <= 0 {
		t.Fatalf("expected positive ping timeout default")
	}
}

func TestPostgresPoolConfig_PreservesExplicitValues(t *testing.T) {
	c := PostgresPoolConfig{MaxOpenConns: 3, PingTimeout: time.Second}.withDefaults()
	if c.MaxOpenConns != 3 {
		t.Fatalf("expected explicit MaxOpenConns to survive, got %d", c.MaxOpenConns)
	}
	if c.PingTimeout != time.Second {
		t.Fatalf("expected explicit PingTimeout to survive, got %v", c.PingTimeout)
	}
}
