package redis_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/ZP-ING/reportebuenaventura-backend/infrastructure/redis"
)

func TestNewClient_EmptyAddress(t *testing.T) {
	t.Helper()

	client, err := redis.NewClient(context.Background(), redis.Config{})
	if !errors.Is(err, redis.ErrEmptyAddress) {
		t.Errorf("err = %v, want ErrEmptyAddress", err)
	}
	if client != nil {
		t.Error("expected nil client")
	}
}

func TestNewClient_Connects(t *testing.T) {
	t.Helper()

	srv := miniredis.RunT(t)
	client, err := redis.NewClient(context.Background(), redis.Config{Address: srv.Addr()})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer client.Close()

	if setErr := client.Set(context.Background(), "k", "v", 0).Err(); setErr != nil {
		t.Fatalf("set: %v", setErr)
	}
	srv.CheckGet(t, "k", "v")
}

func TestNewClient_PingFailure(t *testing.T) {
	t.Helper()

	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	if _, err := redis.NewClient(context.Background(), redis.Config{Address: addr}); err == nil {
		t.Error("expected ping error against closed server")
	}
}

func TestConfig_SetDefaults(t *testing.T) {
	t.Helper()

	var cfg redis.Config
	cfg.SetDefaults()
	if cfg.Address != redis.DefaultAddress {
		t.Errorf("Address = %q", cfg.Address)
	}
}
