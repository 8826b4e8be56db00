package gateway

import "context"

// EventPublisher emite os eventos de auditoria do domínio (reservas,
// cancelamentos de pedido, rastreio, violações de integridade). A
// implementação de produção publica na exchange "commerce_events" do
// RabbitMQ; publicar acontece DEPOIS do commit, então um evento perdido é
// tolerável, um evento de algo não comitado não é.
type EventPublisher interface {
	Publish(ctx context.Context, exchange, routingKey string, body interface{}) error
}
