package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Cjota221/C4franquiaas-sub006/internal/domain"
	"github.com/Cjota221/C4franquiaas-sub006/internal/gateway"
	"github.com/rs/zerolog/log"
)

type CancelOrderInput struct {
	OrderID string
	Reason  string
	Actor   string
}

type RestoredItem struct {
	Product     string `json:"product"`
	Variation   string `json:"variation"`
	Quantity    int32  `json:"quantity"`
	StockBefore int32  `json:"stock_before"`
	StockAfter  int32  `json:"stock_after"`
}

type FailedItem struct {
	Product   string `json:"product"`
	Variation string `json:"variation"`
	Quantity  int32  `json:"quantity"`
	Error     string `json:"error"`
}

type CancelOrderOutput struct {
	Success       bool
	ItemsRestored []RestoredItem
	ItemsFailed   []FailedItem
}

// CancelOrderUseCase devolve o estoque dos itens e fecha o pedido.
//
// Política de sucesso parcial: falha ao devolver UM item não aborta os
// demais — o pedido é cancelado de qualquer forma e os itens que falharam
// voltam para o chamador resolver manualmente. Deixar uma venda
// eternamente incancelável é pior do que um estoque sub-devolvido
// sinalizado para reconciliação manual.
type CancelOrderUseCase struct {
	orderRepository    gateway.OrderRepository
	productRepository  gateway.ProductRepository
	transactionManager gateway.TransactionManager
	eventPublisher     gateway.EventPublisher
}

func NewCancelOrder(
	orderRepo gateway.OrderRepository,
	productRepo gateway.ProductRepository,
	txManager gateway.TransactionManager,
	publisher gateway.EventPublisher,
) *CancelOrderUseCase {
	return &CancelOrderUseCase{
		orderRepository:    orderRepo,
		productRepository:  productRepo,
		transactionManager: txManager,
		eventPublisher:     publisher,
	}
}

func (u *CancelOrderUseCase) Execute(ctx context.Context, input CancelOrderInput) (*CancelOrderOutput, error) {
	restored := make([]RestoredItem, 0)
	failed := make([]FailedItem, 0)

	err := u.transactionManager.Run(ctx, func(contextWithTx context.Context) error {
		transactionObject := contextWithTx.Value(gateway.TransactionKey)
		if transactionObject == nil {
			return fmt.Errorf("erro crítico: transação não encontrada no contexto")
		}

		orderRepoTx := u.orderRepository.WithTx(transactionObject)

		// Trava a linha do pedido: dois cancelamentos concorrentes do mesmo
		// pedido serializam aqui, o segundo cai na guarda de idempotência
		order, err := orderRepoTx.GetByIDForUpdate(contextWithTx, input.OrderID)
		if err != nil {
			return err
		}
		if order.IsCancelled() {
			return domain.ErrOrderAlreadyCancelled
		}

		// Devolução item a item. Cada devolução é um $inc atômico no
		// documento do produto, endereçado pelo SKU — devoluções
		// concorrentes de variações diferentes do MESMO produto não se
		// atropelam mais.
		for _, item := range order.Items {
			result, err := u.productRepository.RestoreStock(
				contextWithTx, item.ProductID, item.VariationKey, item.Quantity)
			if err != nil {
				log.Warn().
					Err(err).
					Str("order_id", order.ID).
					Str("product_id", item.ProductID).
					Str("sku", item.VariationKey).
					Msg("Falha ao devolver estoque do item, seguindo para os demais")
				failed = append(failed, FailedItem{
					Product:   item.ProductID,
					Variation: item.VariationKey,
					Quantity:  item.Quantity,
					Error:     err.Error(),
				})
				continue
			}
			restored = append(restored, RestoredItem{
				Product:     item.ProductID,
				Variation:   item.VariationKey,
				Quantity:    item.Quantity,
				StockBefore: result.StockBefore,
				StockAfter:  result.StockAfter,
			})
		}

		// O pedido fecha mesmo com itens falhos (política de sucesso parcial)
		if err := orderRepoTx.MarkCancelled(contextWithTx, order.ID); err != nil {
			return fmt.Errorf("falha ao marcar pedido como cancelado: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if u.eventPublisher != nil {
		event := map[string]interface{}{
			"order_id":       input.OrderID,
			"items_restored": restored,
			"items_failed":   failed,
			"reason":         input.Reason,
			"actor":          input.Actor,
			"timestamp":      time.Now().UTC().Format(time.RFC3339),
		}
		if err := u.eventPublisher.Publish(ctx, "commerce_events", "order.cancelled", event); err != nil {
			log.Error().Err(err).Str("order_id", input.OrderID).Msg("Falha ao publicar order.cancelled")
		}
	}

	return &CancelOrderOutput{
		Success:       true,
		ItemsRestored: restored,
		ItemsFailed:   failed,
	}, nil
}
