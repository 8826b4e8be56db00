package domain

import "time"

// PaymentStatus do pedido. O cancelamento é a única transição que este
// serviço executa; aprovação/rejeição chegam de fora (gateway de pagamento).
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusApproved  PaymentStatus = "approved"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusRejected  PaymentStatus = "rejected"
)

type Order struct {
	ID            string
	PaymentStatus PaymentStatus
	Items         []OrderItem
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// OrderItem referencia a variação comprada (produto + chave da variação,
// ex: tamanho 37) e quanto estoque o cancelamento precisa devolver.
type OrderItem struct {
	ProductID    string
	VariationKey string
	Quantity     int32
	UnitPrice    int64 // Centavos
}

// IsCancelled é a guarda de idempotência do cancelamento.
func (o *Order) IsCancelled() bool {
	return o.PaymentStatus == PaymentStatusCancelled
}
