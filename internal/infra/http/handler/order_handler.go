package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Cjota221/C4franquiaas-sub006/internal/domain"
	"github.com/Cjota221/C4franquiaas-sub006/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type OrderHandler struct {
	cancelOrderUC *usecase.CancelOrderUseCase
}

func NewOrderHandler(cancelOrderUC *usecase.CancelOrderUseCase) *OrderHandler {
	return &OrderHandler{cancelOrderUC: cancelOrderUC}
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

type CancelOrderResponse struct {
	Success       bool                    `json:"success"`
	ItemsRestored []usecase.RestoredItem  `json:"items_restored"`
	ItemsFailed   []usecase.FailedItem    `json:"items_failed"`
}

// Cancel devolve o estoque dos itens e fecha o pedido. Resposta 200 mesmo
// com itens falhos: a lista items_failed é o sinal para follow-up manual.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")

	var req CancelOrderRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Payload inválido")
			return
		}
	}

	// O ator vem do header por enquanto (a camada de sessão é externa)
	actor := r.Header.Get("X-Actor")
	if actor == "" {
		actor = "system"
	}

	output, err := h.cancelOrderUC.Execute(r.Context(), usecase.CancelOrderInput{
		OrderID: orderID,
		Reason:  req.Reason,
		Actor:   actor,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			respondError(w, http.StatusNotFound, "Pedido não encontrado")
		case errors.Is(err, domain.ErrOrderAlreadyCancelled):
			respondError(w, http.StatusConflict, "Pedido já está cancelado")
		default:
			log.Error().Err(err).Str("order_id", orderID).Msg("Erro interno ao cancelar pedido")
			respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		}
		return
	}

	respondJSON(w, http.StatusOK, CancelOrderResponse{
		Success:       output.Success,
		ItemsRestored: output.ItemsRestored,
		ItemsFailed:   output.ItemsFailed,
	})
}
