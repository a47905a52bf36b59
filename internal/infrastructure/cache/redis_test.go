package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func TestOpenRedis_Success(t *testing.T) {
	s := miniredis.RunT(t)
	defer s.Close()

	// non-zero DB to verify it is passed through
	c, err := OpenRedis(s.Addr(), 2)
	if err != nil {
		t.Fatalf("OpenRedis returned error: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	if got := c.Options().DB; got != 2 {
		t.Fatalf("client DB = %d, want 2", got)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := c.SetNX(ctx, "idemp:probe", "1", time.Minute).Err(); err != nil {
		t.Fatalf("SETNX err: %v", err)
	}
	v, err := c.Get(ctx, "idemp:probe").Result()
	if err != nil || v != "1" {
		t.Fatalf("GET = %q, %v", v, err)
	}
}

func TestOpenRedis_Failure(t *testing.T) {
	// unresolvable host: the ping must fail, bounded by pingTimeout
	if _, err := OpenRedis("not-a-real-host:6379", 0); err == nil {
		t.Fatal("expected error, got nil")
	}
}
