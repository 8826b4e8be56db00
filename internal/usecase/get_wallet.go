package usecase

import (
	"context"
	"fmt"

	"github.com/Cjota221/C4franquiaas-sub006/internal/domain"
	"github.com/Cjota221/C4franquiaas-sub006/internal/gateway"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type GetWalletInput struct {
	WalletID int64
	Page     int32
	PageSize int32
}

type LedgerEntryOutput struct {
	ID            string `json:"id"`
	Kind          string `json:"kind"`
	Amount        int64  `json:"amount"`
	ReferenceType string `json:"reference_type"`
	ReferenceID   string `json:"reference_id"`
	CreatedAt     string `json:"created_at"`
}

type GetWalletOutput struct {
	ID               int64               `json:"id"`
	OwnerID          int64               `json:"owner_id"`
	Balance          int64               `json:"balance"`
	LockedBalance    int64               `json:"locked_balance"`
	AvailableBalance int64               `json:"available_balance"`
	UpdatedAt        string              `json:"updated_at"`
	Page             int32               `json:"page"`
	PageSize         int32               `json:"page_size"`
	Transactions     []LedgerEntryOutput `json:"transactions"`
}

// GetWalletUseCase devolve o snapshot da carteira + uma página do histórico
// append-only do razão, para auditoria/exibição.
type GetWalletUseCase struct {
	walletRepository gateway.WalletRepository
	ledgerRepository gateway.LedgerRepository
}

func NewGetWallet(walletRepo gateway.WalletRepository, ledgerRepo gateway.LedgerRepository) *GetWalletUseCase {
	return &GetWalletUseCase{
		walletRepository: walletRepo,
		ledgerRepository: ledgerRepo,
	}
}

func (u *GetWalletUseCase) Execute(ctx context.Context, input GetWalletInput) (*GetWalletOutput, error) {
	wallet, err := u.walletRepository.GetByID(ctx, input.WalletID)
	if err != nil {
		if err == domain.ErrWalletNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("erro ao buscar carteira: %w", err)
	}

	page := input.Page
	if page < 1 {
		page = 1
	}
	pageSize := input.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	entries, err := u.ledgerRepository.ListByWallet(ctx, input.WalletID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar histórico do razão: %w", err)
	}

	transactions := make([]LedgerEntryOutput, 0, len(entries))
	for _, e := range entries {
		transactions = append(transactions, LedgerEntryOutput{
			ID:            e.ID,
			Kind:          string(e.Kind),
			Amount:        e.Amount,
			ReferenceType: e.ReferenceType,
			ReferenceID:   e.ReferenceID,
			CreatedAt:     e.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return &GetWalletOutput{
		ID:               wallet.ID,
		OwnerID:          wallet.OwnerID,
		Balance:          wallet.Balance,
		LockedBalance:    wallet.LockedBalance,
		AvailableBalance: wallet.Available(),
		UpdatedAt:        wallet.UpdatedAt.Format("2006-01-02 15:04:05"),
		Page:             page,
		PageSize:         pageSize,
		Transactions:     transactions,
	}, nil
}
