package gateway

import (
	"context"

	"github.com/Cjota221/C4franquiaas-sub006/internal/domain"
)

// OrderRepository cobre só o que o cancelamento precisa: o checkout que cria
// pedidos é um colaborador externo.
type OrderRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)

	// GetByIDForUpdate carrega o pedido COM os itens, travando a linha do
	// pedido: dois cancelamentos concorrentes do mesmo pedido serializam aqui.
	GetByIDForUpdate(ctx context.Context, id string) (*domain.Order, error)

	MarkCancelled(ctx context.Context, id string) error

	WithTx(tx TransactionObject) OrderRepository
}
