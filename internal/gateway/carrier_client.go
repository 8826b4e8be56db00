package gateway

import (
	"context"

	"github.com/Cjota221/C4franquiaas-sub006/internal/domain"
)

// CarrierClient é o cliente de poll da API de rastreio da transportadora.
type CarrierClient interface {
	Track(ctx context.Context, carrierRef string) ([]domain.TrackingEvent, error)
}
