package gateway

import (
	"context"

	"github.com/Cjota221/C4franquiaas-sub006/internal/domain"
)

type ShipmentRepository interface {
	Create(ctx context.Context, shipment *domain.Shipment) error
	GetByID(ctx context.Context, id string) (*domain.Shipment, error)
	GetByCarrierRef(ctx context.Context, carrierRef string) (*domain.Shipment, error)

	// Update grava o documento inteiro condicionado à versão lida
	// (concorrência otimista entre os canais webhook e poll).
	// Retorna domain.ErrVersionConflict se outro canal ganhou a corrida.
	Update(ctx context.Context, shipment *domain.Shipment, expectedVersion int64) error

	// ListActive retorna os shipments fora de status terminal,
	// candidatos ao poll periódico.
	ListActive(ctx context.Context) ([]domain.Shipment, error)
}
