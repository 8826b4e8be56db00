package gateway

import "context"

// TransactionObject carrega a transação ativa do banco de forma opaca: o
// usecase repassa para WithTx sem saber que por baixo é um pgx.Tx.
type TransactionObject interface{}

// TransactionManager abre a transação, injeta o TransactionObject no contexto
// sob TransactionKey, roda fn e comita; qualquer erro de fn vira rollback.
// Reserva, cancelamento e confirmação dependem disso para manter carteira,
// razão e reserva sempre no mesmo commit.
type TransactionManager interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// TransactionKeyType é um tipo próprio para não colidir com outras chaves de
// contexto.
type TransactionKeyType string

const TransactionKey TransactionKeyType = "transaction"
