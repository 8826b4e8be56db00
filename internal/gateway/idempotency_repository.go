package gateway

import (
	"context"
	"time"
)

// CachedResponse é a resposta HTTP congelada que devolvemos em replays da
// mesma Idempotency-Key (retry de POST /reservations, cancelamentos etc).
type CachedResponse struct {
	StatusCode int
	Body       []byte
	Headers    map[string][]string
}

type IdempotencyRepository interface {
	// Get devolve a resposta cacheada ou nil em cache miss.
	Get(ctx context.Context, key string) (*CachedResponse, error)

	// Save grava a resposta com TTL; depois disso a chave expira e a
	// operação volta a ser executável.
	Save(ctx context.Context, key string, response CachedResponse, ttl time.Duration) error
}
