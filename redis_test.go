package main

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestNewRedisClientParsesURL(t *testing.T) {
	rdb, err := newRedisClient("redis://:hunter2@cache.internal:6380/3")
	if err != nil {
		t.Fatalf("newRedisClient error: %v", err)
	}
	defer rdb.Close()

	opts := rdb.Options()
	if opts.Addr != "cache.internal:6380" || opts.Password != "hunter2" || opts.DB != 3 {
		t.Fatalf("unexpected options: addr=%q password=%q db=%d", opts.Addr, opts.Password, opts.DB)
	}
}

func TestNewRedisClientRejectsBadURL(t *testing.T) {
	for _, raw := range []string{"http://localhost:6379", "redis://localhost/zero"} {
		if _, err := newRedisClient(raw); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestPopJob(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	payload := `{"class":"GoWorker","args":[7]}`
	if _, err := mr.Lpush("queue:default", payload); err != nil {
		t.Fatalf("seed queue: %v", err)
	}

	got, err := popJob(context.Background(), rdb, "queue:default", time.Second)
	if err != nil {
		t.Fatalf("popJob error: %v", err)
	}
	if got != payload {
		t.Fatalf("unexpected payload: %q", got)
	}
}

func TestPopJobTimeout(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	got, err := popJob(context.Background(), rdb, "queue:empty", time.Second)
	if err != nil {
		t.Fatalf("popJob error: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty payload on timeout, got %q", got)
	}
}
