package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Cjota221/C4franquiaas-sub006/internal/domain"
	"github.com/Cjota221/C4franquiaas-sub006/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// WalletHandler expõe criação e leitura de carteiras (snapshot + histórico
// paginado do razão).
type WalletHandler struct {
	createWalletUC *usecase.CreateWalletUseCase
	getWalletUC    *usecase.GetWalletUseCase
}

func NewWalletHandler(createWalletUC *usecase.CreateWalletUseCase, getWalletUC *usecase.GetWalletUseCase) *WalletHandler {
	return &WalletHandler{
		createWalletUC: createWalletUC,
		getWalletUC:    getWalletUC,
	}
}

func (h *WalletHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OwnerID int64 `json:"owner_id"`
		Balance int64 `json:"balance"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Payload inválido")
		return
	}

	output, err := h.createWalletUC.Execute(r.Context(), usecase.CreateWalletInput{
		OwnerID: req.OwnerID,
		Balance: req.Balance,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidAmount) {
			respondError(w, http.StatusUnprocessableEntity, "Saldo inicial não pode ser negativo")
			return
		}
		log.Error().Err(err).Msg("Falha ao criar carteira")
		respondError(w, http.StatusInternalServerError, "Erro interno")
		return
	}

	respondJSON(w, http.StatusCreated, output)
}

func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	walletID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "ID de carteira inválido")
		return
	}

	page := parseQueryInt32(r, "page", 1)
	pageSize := parseQueryInt32(r, "page_size", 20)

	output, err := h.getWalletUC.Execute(r.Context(), usecase.GetWalletInput{
		WalletID: walletID,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		if errors.Is(err, domain.ErrWalletNotFound) {
			respondError(w, http.StatusNotFound, "Carteira não encontrada")
			return
		}
		log.Error().Err(err).Int64("wallet_id", walletID).Msg("Falha ao buscar carteira")
		respondError(w, http.StatusInternalServerError, "Erro interno")
		return
	}

	respondJSON(w, http.StatusOK, output)
}

func parseQueryInt32(r *http.Request, name string, fallback int32) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return fallback
	}
	return int32(v)
}

// Helpers para resposta JSON
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("Falha ao codificar resposta JSON")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
