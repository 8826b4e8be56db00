package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/Cjota221/C4franquiaas-sub006/internal/domain"
	"github.com/Cjota221/C4franquiaas-sub006/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Header com o segredo pré-compartilhado do canal de webhook
const trackingSecretHeader = "X-Tracking-Secret"

type ShipmentHandler struct {
	createUC *usecase.CreateShipmentUseCase
	getUC    *usecase.GetShipmentUseCase
	ingestUC *usecase.IngestTrackingUseCase
}

func NewShipmentHandler(
	createUC *usecase.CreateShipmentUseCase,
	getUC *usecase.GetShipmentUseCase,
	ingestUC *usecase.IngestTrackingUseCase,
) *ShipmentHandler {
	return &ShipmentHandler{
		createUC: createUC,
		getUC:    getUC,
		ingestUC: ingestUC,
	}
}

type CreateShipmentRequest struct {
	OrderID    string `json:"order_id"`
	CarrierRef string `json:"carrier_ref"`
	Secret     string `json:"secret"`
}

// WebhookEnvelope é o formato que a transportadora envia no push:
// um evento por chamada, entrega at-least-once.
type WebhookEnvelope struct {
	Event string `json:"event"`
	Data  struct {
		Tracking   string    `json:"tracking"`
		Status     string    `json:"status"`
		Message    string    `json:"message"`
		Location   string    `json:"location"`
		OccurredAt time.Time `json:"occurred_at"`
	} `json:"data"`
}

func (h *ShipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateShipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Payload inválido")
		return
	}

	output, err := h.createUC.Execute(r.Context(), usecase.CreateShipmentInput{
		OrderID:    req.OrderID,
		CarrierRef: req.CarrierRef,
		Secret:     req.Secret,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, output)
}

func (h *ShipmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	shipmentID := chi.URLParam(r, "id")

	output, err := h.getUC.Execute(r.Context(), shipmentID)
	if err != nil {
		if errors.Is(err, domain.ErrShipmentNotFound) {
			respondError(w, http.StatusNotFound, "Shipment não encontrado")
			return
		}
		log.Error().Err(err).Str("shipment_id", shipmentID).Msg("Falha ao buscar shipment")
		respondError(w, http.StatusInternalServerError, "Erro interno")
		return
	}

	respondJSON(w, http.StatusOK, output)
}

// Webhook recebe o push da transportadora. O endpoint SEMPRE responde de
// forma determinística — payload malformado ou segredo inválido nunca viram
// panic nem 5xx sem controle.
func (h *ShipmentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	// O corpo cru vai junto para a auditoria em caso de rejeição
	rawBody, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Falha ao ler payload")
		return
	}

	var envelope WebhookEnvelope
	if err := json.NewDecoder(bytes.NewReader(rawBody)).Decode(&envelope); err != nil {
		respondError(w, http.StatusBadRequest, "Payload inválido")
		return
	}
	if envelope.Data.Tracking == "" || envelope.Data.Status == "" {
		respondError(w, http.StatusBadRequest, "Campos tracking e status são obrigatórios")
		return
	}

	output, err := h.ingestUC.Execute(r.Context(), usecase.IngestTrackingInput{
		CarrierRef: envelope.Data.Tracking,
		Source:     domain.EventSourceWebhook,
		Secret:     r.Header.Get(trackingSecretHeader),
		RawPayload: rawBody,
		Events: []usecase.TrackingEventInput{{
			Status:    envelope.Data.Status,
			Message:   envelope.Data.Message,
			Location:  envelope.Data.Location,
			EventTime: envelope.Data.OccurredAt,
		}},
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrWebhookAuthFailed):
			// A auditoria com token_valid=false já foi registrada no usecase
			respondJSON(w, http.StatusUnauthorized, map[string]interface{}{
				"success":   false,
				"processed": false,
			})
		case errors.Is(err, domain.ErrShipmentNotFound):
			respondError(w, http.StatusNotFound, "Shipment não encontrado para esse rastreio")
		default:
			log.Error().Err(err).Str("carrier_ref", envelope.Data.Tracking).Msg("Erro interno no webhook de rastreio")
			respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   output.Success,
		"processed": output.Processed,
	})
}
