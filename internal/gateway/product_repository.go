package gateway

import "context"

// RestockResult é o antes/depois de uma devolução de estoque, para compor a
// resposta do cancelamento de pedido.
type RestockResult struct {
	StockBefore int32
	StockAfter  int32
}

// ProductRepository muta o catálogo (documentos com variações embutidas).
type ProductRepository interface {
	// RestoreStock devolve `quantity` unidades à variação identificada por
	// (productID, sku) em UMA operação atômica no documento ($inc endereçado
	// pelo SKU) e marca a variação como disponível. Nunca reescreve o array
	// de variações inteiro: era assim que updates concorrentes se perdiam.
	RestoreStock(ctx context.Context, productID, sku string, quantity int32) (RestockResult, error)
}
