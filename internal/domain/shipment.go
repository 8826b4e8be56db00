package domain

import "time"

// ShipmentStatus são os status normalizados internos. A transportadora manda
// códigos próprios; o que não mapear aqui fica no histórico como registro
// bruto, mas nunca vira status derivado.
type ShipmentStatus string

const (
	ShipmentStatusCreated        ShipmentStatus = "created"
	ShipmentStatusPaid           ShipmentStatus = "paid"
	ShipmentStatusLabelGenerated ShipmentStatus = "label_generated"
	ShipmentStatusPosted         ShipmentStatus = "posted"
	ShipmentStatusDelivered      ShipmentStatus = "delivered"
	ShipmentStatusCanceled       ShipmentStatus = "canceled"
)

// EventSource identifica por qual canal o evento chegou. Em empate de
// timestamp, webhook ganha do poll (entrega push é tratada como mais
// confiável que a varredura periódica).
type EventSource string

const (
	EventSourceWebhook EventSource = "webhook"
	EventSourcePoll    EventSource = "poll"
)

// TrackingEvent é uma linha do histórico de rastreio. Identidade natural
// para deduplicação: (EventTime, Status) dentro do mesmo shipment.
type TrackingEvent struct {
	Status    string // Código cru da transportadora
	Message   string
	Location  string
	EventTime time.Time
	Source    EventSource
}

// carrierStatusMap normaliza os códigos da transportadora.
var carrierStatusMap = map[string]ShipmentStatus{
	"pending":   ShipmentStatusCreated,
	"paid":      ShipmentStatusPaid,
	"generated": ShipmentStatusLabelGenerated,
	"released":  ShipmentStatusLabelGenerated,
	"posted":    ShipmentStatusPosted,
	"delivered": ShipmentStatusDelivered,
	"canceled":  ShipmentStatusCanceled,
	"cancelled": ShipmentStatusCanceled,
}

// MapCarrierStatus converte o código cru em status normalizado.
// ok=false para códigos desconhecidos.
func MapCarrierStatus(code string) (ShipmentStatus, bool) {
	s, ok := carrierStatusMap[code]
	return s, ok
}

// Shipment é o objeto de rastreio da transportadora associado a um pedido.
// O Status é sempre uma projeção do History: recalculado inteiro a cada
// ingestão, o que torna replays e reordenação seguros.
type Shipment struct {
	ID          string
	OrderID     string
	CarrierRef  string
	Secret      string // Segredo pré-compartilhado do canal de webhook
	Status      ShipmentStatus
	History     []TrackingEvent
	DeliveredAt *time.Time
	Version     int64 // Concorrência otimista entre webhook e poll
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasEvent checa a identidade natural (EventTime, Status) no histórico.
func (s *Shipment) HasEvent(eventTime time.Time, status string) bool {
	for _, e := range s.History {
		if e.Status == status && e.EventTime.Equal(eventTime) {
			return true
		}
	}
	return false
}

// AppendEvent insere o evento mantendo o History ordenado por EventTime.
// Duplicatas são responsabilidade do chamador (HasEvent).
func (s *Shipment) AppendEvent(ev TrackingEvent) {
	i := len(s.History)
	for i > 0 && s.History[i-1].EventTime.After(ev.EventTime) {
		i--
	}
	s.History = append(s.History, TrackingEvent{})
	copy(s.History[i+1:], s.History[i:])
	s.History[i] = ev
}

// DeriveStatus recalcula o status a partir do histórico completo: vale a
// entrada mapeável de maior EventTime; empate exato de timestamp é decidido
// a favor do webhook. Eventos com código desconhecido não participam.
// ok=false quando nenhum evento do histórico é mapeável.
func (s *Shipment) DeriveStatus() (ShipmentStatus, time.Time, bool) {
	var (
		best      ShipmentStatus
		bestTime  time.Time
		bestIsWeb bool
		found     bool
	)
	for _, e := range s.History {
		mapped, ok := MapCarrierStatus(e.Status)
		if !ok {
			continue
		}
		isWeb := e.Source == EventSourceWebhook
		switch {
		case !found,
			e.EventTime.After(bestTime),
			e.EventTime.Equal(bestTime) && isWeb && !bestIsWeb:
			best, bestTime, bestIsWeb, found = mapped, e.EventTime, isWeb, true
		}
	}
	return best, bestTime, found
}

// IsTerminal indica que o shipment não precisa mais de poll.
func (s *Shipment) IsTerminal() bool {
	return s.Status == ShipmentStatusDelivered || s.Status == ShipmentStatusCanceled
}
