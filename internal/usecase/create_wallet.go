package usecase

import (
	"context"

	"github.com/Cjota221/C4franquiaas-sub006/internal/domain"
	"github.com/Cjota221/C4franquiaas-sub006/internal/gateway"
)

type CreateWalletInput struct {
	OwnerID int64
	Balance int64
}

type CreateWalletOutput struct {
	ID      int64 `json:"id"`
	OwnerID int64 `json:"owner_id"`
	Balance int64 `json:"balance"`
}

type CreateWalletUseCase struct {
	walletRepo gateway.WalletRepository
}

func NewCreateWallet(walletRepo gateway.WalletRepository) *CreateWalletUseCase {
	return &CreateWalletUseCase{
		walletRepo: walletRepo,
	}
}

func (uc *CreateWalletUseCase) Execute(ctx context.Context, input CreateWalletInput) (*CreateWalletOutput, error) {
	if input.Balance < 0 {
		return nil, domain.ErrInvalidAmount
	}

	// A criação de wallet é uma operação atômica simples (um insert),
	// então não precisamos abrir uma transação complexa (Begin/Commit) aqui.
	// A carteira nasce no onboarding da revendedora e nunca é deletada.
	wallet, err := uc.walletRepo.Create(ctx, input.OwnerID, input.Balance)
	if err != nil {
		return nil, err
	}

	return &CreateWalletOutput{
		ID:      wallet.ID,
		OwnerID: wallet.OwnerID,
		Balance: wallet.Balance,
	}, nil
}
