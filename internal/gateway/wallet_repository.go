package gateway

import (
	"context"

	"github.com/Cjota221/C4franquiaas-sub006/internal/domain"
)

// WalletRepository define o contrato para persistência de carteiras.
// O Usecase só interage com isso, sem saber se é Postgres ou MySQL.
type WalletRepository interface {
	Create(ctx context.Context, ownerID int64, balance int64) (*domain.Wallet, error)
	GetByID(ctx context.Context, id int64) (*domain.Wallet, error)

	// Lock Pessimista: Retorna a wallet travando a linha no banco.
	// Toda mutação de saldo começa por aqui para serializar chamadas
	// concorrentes contra a MESMA carteira.
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Wallet, error)

	// Métodos Atômicos (a cláusula de guarda roda no banco)
	Lock(ctx context.Context, id int64, amount int64) error   // locked += amount, se available >= amount
	Unlock(ctx context.Context, id int64, amount int64) error // locked -= amount, se locked >= amount
	Debit(ctx context.Context, id int64, amount int64) error  // balance e locked -= amount, se ambos comportam

	// ListIDs alimenta o job de reconciliação agendada.
	ListIDs(ctx context.Context) ([]int64, error)

	// WithTx permite que o repositório participe de uma transação iniciada
	// no nível superior. Retorna uma nova instância ligada àquela transação.
	WithTx(tx TransactionObject) WalletRepository
}
