package redisad

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"review_insights/internal/domain"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_SetGetRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	var miss domain.Report
	if ok, err := c.Get(ctx, "run:1:latest", &miss); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	in := domain.Report{RunID: 7, ProductID: "1", Stop: domain.StopSourceExhausted,
		Insights: domain.Insights{TotalReviews: 2, PositiveDrivers: []domain.AspectCount{{Aspect: "camera", Count: 2}}}}
	if err := c.Set(ctx, "run:1:latest", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	var out domain.Report
	ok, err := c.Get(ctx, "run:1:latest", &out)
	if !ok || err != nil {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if out.RunID != 7 || out.Insights.PositiveDrivers[0].Aspect != "camera" {
		t.Fatalf("unexpected %+v", out)
	}
}

func TestCache_TTLAndDel(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	_ = c.Set(ctx, "a", 1, 10)
	_ = c.Set(ctx, "b", 2, 0)
	_ = c.Set(ctx, "c", 3, 10)

	if ttl := mr.TTL("a"); ttl != 10*time.Second {
		t.Fatalf("ttl=%s", ttl)
	}
	if ttl := mr.TTL("b"); ttl != 0 {
		t.Fatalf("zero ttl should persist, got %s", ttl)
	}

	mr.FastForward(11 * time.Second)
	var v int
	if ok, _ := c.Get(ctx, "a", &v); ok {
		t.Fatalf("expired key still served")
	}

	if err := c.Del(ctx, "b", "c"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if mr.Exists("b") || mr.Exists("c") {
		t.Fatalf("keys not deleted")
	}
	if err := c.Del(ctx); err != nil {
		t.Fatalf("empty del: %v", err)
	}
}

func TestCache_UndecodableIsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	if err := mr.Set("k", "not json"); err != nil {
		t.Fatal(err)
	}
	var out domain.Report
	ok, err := c.Get(context.Background(), "k", &out)
	if ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
}

func TestCache_IncrReadableByGet(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := c.Incr(ctx, "run:1:gen")
		if err != nil || got != want {
			t.Fatalf("Incr=%d err=%v, want %d", got, err, want)
		}
	}
	if ttl := mr.TTL("run:1:gen"); ttl != 0 {
		t.Fatalf("counter must not expire, ttl=%s", ttl)
	}
	var gen int64
	if ok, err := c.Get(ctx, "run:1:gen", &gen); !ok || err != nil || gen != 3 {
		t.Fatalf("Get=%d ok=%v err=%v", gen, ok, err)
	}

	_ = c.Set(ctx, "run:1:latest", "x", 0)
	if _, err := c.Incr(ctx, "run:1:latest"); err == nil {
		t.Fatalf("expected error incrementing a non-integer value")
	}
}
