package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reelmates/backend/internal/config"
)

type fakePool struct{}

func (fakePool) Acquire(context.Context) (*pgxpool.Conn, error) {
	return nil, errors.New("not implemented")
}

func (fakePool) Close() {}

func TestBuildDependencies(t *testing.T) {
	cfg := config.Config{
		ReferenceDataTTL: time.Minute,
		RateLimitRPS:     10,
		RateLimitBurst:   20,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	deps := buildDependencies(context.Background(), fakePool{}, cfg, logger)

	if deps.Films == nil {
		t.Fatal("expected film service to be configured")
	}
	if deps.Users == nil {
		t.Fatal("expected user service to be configured")
	}
	if deps.Catalog == nil {
		t.Fatal("expected catalog service to be configured")
	}
	if deps.Recommendations == nil {
		t.Fatal("expected recommendation engine to be configured")
	}
	if deps.Limiter == nil {
		t.Fatal("expected rate limiter to be configured")
	}
}
