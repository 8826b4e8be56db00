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

// ReservationHandler expõe o ciclo de vida da reserva:
// criar (trava saldo), cancelar (libera) e confirmar (debita de vez).
type ReservationHandler struct {
	reserveUC *usecase.ReserveFundsUseCase
	cancelUC  *usecase.CancelReservationUseCase
	confirmUC *usecase.ConfirmReservationUseCase
}

func NewReservationHandler(
	reserveUC *usecase.ReserveFundsUseCase,
	cancelUC *usecase.CancelReservationUseCase,
	confirmUC *usecase.ConfirmReservationUseCase,
) *ReservationHandler {
	return &ReservationHandler{
		reserveUC: reserveUC,
		cancelUC:  cancelUC,
		confirmUC: confirmUC,
	}
}

// DTOs (Data Transfer Objects) para Request/Response
type CreateReservationRequest struct {
	WalletID int64 `json:"wallet_id"`
	Amount   int64 `json:"amount"` // Valor em centavos
}

type CreateReservationResponse struct {
	ReservationID    string `json:"reservation_id"`
	Status           string `json:"status"`
	AvailableBalance int64  `json:"available_balance"`
}

type CancelReservationRequest struct {
	Reason string `json:"reason"`
}

type CancelReservationResponse struct {
	Success          bool   `json:"success"`
	AmountUnlocked   int64  `json:"amount_unlocked"`
	AvailableBalance int64  `json:"available_balance"`
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Payload inválido")
		return
	}

	output, err := h.reserveUC.Execute(r.Context(), usecase.ReserveFundsInput{
		WalletID: req.WalletID,
		Amount:   req.Amount,
	})
	if err != nil {
		// Mapeamento de Erros de Domínio -> HTTP Status Code
		switch {
		case errors.Is(err, domain.ErrWalletNotFound):
			respondError(w, http.StatusNotFound, "Carteira não encontrada")
		case errors.Is(err, domain.ErrInsufficientFunds):
			respondError(w, http.StatusUnprocessableEntity, "Saldo disponível insuficiente")
		case errors.Is(err, domain.ErrInvalidAmount):
			respondError(w, http.StatusBadRequest, "Valor inválido")
		default:
			log.Error().Err(err).Msg("Erro interno ao criar reserva")
			respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		}
		return
	}

	respondJSON(w, http.StatusCreated, CreateReservationResponse{
		ReservationID:    output.ReservationID,
		Status:           output.Status,
		AvailableBalance: output.AvailableBalance,
	})
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	reservationID := chi.URLParam(r, "id")

	var req CancelReservationRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Payload inválido")
			return
		}
	}

	output, err := h.cancelUC.Execute(r.Context(), usecase.CancelReservationInput{
		ReservationID: reservationID,
		Reason:        req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrReservationNotFound):
			respondError(w, http.StatusNotFound, "Reserva não encontrada")
		case errors.Is(err, domain.ErrInvalidReservationState):
			respondError(w, http.StatusConflict, "Reserva não está mais RESERVED")
		default:
			log.Error().Err(err).Str("reservation_id", reservationID).Msg("Erro interno ao cancelar reserva")
			respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		}
		return
	}

	respondJSON(w, http.StatusOK, CancelReservationResponse{
		Success:          output.Success,
		AmountUnlocked:   output.AmountUnlocked,
		AvailableBalance: output.AvailableBalance,
	})
}

func (h *ReservationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	reservationID := chi.URLParam(r, "id")

	output, err := h.confirmUC.Execute(r.Context(), usecase.ConfirmReservationInput{
		ReservationID: reservationID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrReservationNotFound):
			respondError(w, http.StatusNotFound, "Reserva não encontrada")
		case errors.Is(err, domain.ErrInvalidReservationState):
			respondError(w, http.StatusConflict, "Reserva não está mais RESERVED")
		case errors.Is(err, domain.ErrInsufficientFunds):
			respondError(w, http.StatusUnprocessableEntity, "Saldo insuficiente para confirmar")
		default:
			log.Error().Err(err).Str("reservation_id", reservationID).Msg("Erro interno ao confirmar reserva")
			respondError(w, http.StatusInternalServerError, "Erro interno do servidor")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": output.Success,
		"status":  output.Status,
	})
}
