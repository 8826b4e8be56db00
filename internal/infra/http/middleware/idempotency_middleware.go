package middleware

import (
	"bytes"
	"net/http"
	"time"

	"github.com/Cjota221/C4franquiaas-sub006/internal/gateway"
	"github.com/rs/zerolog/log"
)

// Retries dentro dessa janela recebem a resposta original sem re-executar
const idempotencyTTL = 24 * time.Hour

// responseRecorder espiona o que o handler escreve para poder cachear
type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// Idempotency devolve a resposta cacheada quando o cliente repete a mesma
// Idempotency-Key. A chave é escopada por método+rota: a MESMA key usada em
// POST /reservations e num cancelamento são operações distintas e não podem
// colidir no cache.
func Idempotency(store gateway.IdempotencyRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get("Idempotency-Key")
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			scopedKey := r.Method + ":" + r.URL.Path + ":" + key

			ctx := r.Context()

			cached, err := store.Get(ctx, scopedKey)
			if err != nil {
				// Fail open: Redis fora do ar não pode derrubar a API
				log.Error().Err(err).Msg("Falha ao buscar chave de idempotência")
				next.ServeHTTP(w, r)
				return
			}

			if cached != nil {
				log.Info().Str("key", key).Str("path", r.URL.Path).Msg("Idempotency cache hit")
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Idempotency-Hit", "true")
				w.WriteHeader(cached.StatusCode)
				if _, err := w.Write(cached.Body); err != nil {
					log.Error().Err(err).Msg("Falha ao escrever resposta cacheada")
				}
				return
			}

			recorder := &responseRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
				body:           &bytes.Buffer{},
			}

			next.ServeHTTP(recorder, r)

			// 5xx fica de fora do cache para o cliente poder tentar de novo;
			// 2xx e 4xx são respostas definitivas da operação
			if recorder.statusCode < 500 {
				err := store.Save(ctx, scopedKey, gateway.CachedResponse{
					StatusCode: recorder.statusCode,
					Body:       recorder.body.Bytes(),
				}, idempotencyTTL)
				if err != nil {
					log.Error().Err(err).Msg("Falha ao salvar chave de idempotência")
				}
			}
		})
	}
}
