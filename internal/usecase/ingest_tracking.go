package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/Cjota221/C4franquiaas-sub006/internal/domain"
	"github.com/Cjota221/C4franquiaas-sub006/internal/gateway"
	"github.com/rs/zerolog/log"
)

// Tentativas contra conflito de versão entre os canais webhook e poll
const ingestMaxRetries = 3

type TrackingEventInput struct {
	Status    string
	Message   string
	Location  string
	EventTime time.Time
}

type IngestTrackingInput struct {
	CarrierRef string
	Source     domain.EventSource
	Secret     string // Só checado quando Source == webhook
	RawPayload []byte // Guardado na auditoria quando o segredo é inválido
	Events     []TrackingEventInput
}

type IngestTrackingOutput struct {
	Success   bool   `json:"success"`
	Processed bool   `json:"processed"`
	Appended  int    `json:"appended"`
	Status    string `json:"status"`
}

// IngestTrackingUseCase normaliza eventos da transportadora vindos de dois
// canais independentes (webhook push e poll periódico) num histórico
// append-only único. Deduplicação pela identidade natural
// (event_time, status), status sempre recalculado do histórico completo:
// replay e reordenação são inofensivos, os canais não precisam se coordenar.
type IngestTrackingUseCase struct {
	shipmentRepository gateway.ShipmentRepository
	eventPublisher     gateway.EventPublisher
}

func NewIngestTracking(shipmentRepo gateway.ShipmentRepository, publisher gateway.EventPublisher) *IngestTrackingUseCase {
	return &IngestTrackingUseCase{
		shipmentRepository: shipmentRepo,
		eventPublisher:     publisher,
	}
}

func (u *IngestTrackingUseCase) Execute(ctx context.Context, input IngestTrackingInput) (*IngestTrackingOutput, error) {
	shipment, err := u.shipmentRepository.GetByCarrierRef(ctx, input.CarrierRef)
	if err != nil {
		return nil, err
	}

	// Autenticidade do webhook: segredo pré-compartilhado por canal.
	// Payload rejeitado vai para auditoria com token_valid=false e NUNCA
	// encosta no estado do shipment.
	if input.Source == domain.EventSourceWebhook {
		if subtle.ConstantTimeCompare([]byte(input.Secret), []byte(shipment.Secret)) != 1 {
			log.Warn().
				Str("carrier_ref", input.CarrierRef).
				Str("shipment_id", shipment.ID).
				Msg("Webhook de rastreio com segredo inválido")

			if u.eventPublisher != nil {
				event := map[string]interface{}{
					"shipment_id": shipment.ID,
					"carrier_ref": input.CarrierRef,
					"token_valid": false,
					"payload":     string(input.RawPayload),
				}
				if err := u.eventPublisher.Publish(ctx, "commerce_events", "shipment.webhook_rejected", event); err != nil {
					log.Error().Err(err).Str("shipment_id", shipment.ID).Msg("Falha ao publicar shipment.webhook_rejected")
				}
			}
			return nil, domain.ErrWebhookAuthFailed
		}
	}

	var (
		appended      int
		statusChanged bool
	)

	for attempt := 0; ; attempt++ {
		appended = u.apply(shipment, input)
		previous := shipment.Status

		if derived, derivedAt, ok := shipment.DeriveStatus(); ok {
			shipment.Status = derived
			// delivered_at é carimbado na primeira vez e nunca sobrescrito
			if derived == domain.ShipmentStatusDelivered && shipment.DeliveredAt == nil {
				shipment.DeliveredAt = &derivedAt
			}
		}
		statusChanged = shipment.Status != previous

		if appended == 0 && !statusChanged {
			// Replay puro: nada a gravar
			return &IngestTrackingOutput{
				Success:   true,
				Processed: true,
				Appended:  0,
				Status:    string(shipment.Status),
			}, nil
		}

		err = u.shipmentRepository.Update(ctx, shipment, shipment.Version)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrVersionConflict) {
			return nil, fmt.Errorf("falha ao gravar shipment: %w", err)
		}
		if attempt+1 >= ingestMaxRetries {
			return nil, fmt.Errorf("shipment %s: %w", shipment.ID, err)
		}

		// O outro canal ganhou a corrida: recarrega e reaplica por cima
		// do histórico novo (a deduplicação torna isso seguro)
		shipment, err = u.shipmentRepository.GetByCarrierRef(ctx, input.CarrierRef)
		if err != nil {
			return nil, err
		}
	}

	if statusChanged && u.eventPublisher != nil {
		event := map[string]interface{}{
			"shipment_id": shipment.ID,
			"order_id":    shipment.OrderID,
			"status":      string(shipment.Status),
			"source":      string(input.Source),
		}
		if err := u.eventPublisher.Publish(ctx, "commerce_events", "shipment.status_changed", event); err != nil {
			log.Error().Err(err).Str("shipment_id", shipment.ID).Msg("Falha ao publicar shipment.status_changed")
		}
	}

	return &IngestTrackingOutput{
		Success:   true,
		Processed: true,
		Appended:  appended,
		Status:    string(shipment.Status),
	}, nil
}

// apply deduplica e insere os eventos no histórico, devolvendo quantos
// entraram de fato.
func (u *IngestTrackingUseCase) apply(shipment *domain.Shipment, input IngestTrackingInput) int {
	appended := 0
	for _, ev := range input.Events {
		if shipment.HasEvent(ev.EventTime, ev.Status) {
			continue
		}
		if _, known := domain.MapCarrierStatus(ev.Status); !known {
			// Código desconhecido entra no histórico mas não deriva status
			log.Warn().
				Str("shipment_id", shipment.ID).
				Str("carrier_status", ev.Status).
				Msg("Código de status desconhecido da transportadora, guardado sem efeito no status")
		}
		shipment.AppendEvent(domain.TrackingEvent{
			Status:    ev.Status,
			Message:   ev.Message,
			Location:  ev.Location,
			EventTime: ev.EventTime,
			Source:    input.Source,
		})
		appended++
	}
	return appended
}
