package domain

import "time"

// LedgerKind é o tipo de movimentação registrada no livro-razão.
type LedgerKind string

const (
	LedgerKindLock   LedgerKind = "LOCK"   // Prendeu saldo disponível
	LedgerKindUnlock LedgerKind = "UNLOCK" // Liberou saldo travado
	LedgerKindDebit  LedgerKind = "DEBIT"  // Consumiu a trava (reserva confirmada)
)

// LedgerEntry é imutável depois de gravada: o razão é append-only e é a
// fonte de verdade do LockedBalance da carteira.
type LedgerEntry struct {
	ID            string
	WalletID      int64
	Kind          LedgerKind
	Amount        int64
	ReferenceType string
	ReferenceID   string
	CreatedAt     time.Time
}

// Reference identifica a operação de negócio que originou a movimentação
// (hoje, sempre uma reserva). É a chave natural de idempotência do UNLOCK.
type Reference struct {
	Type string
	ID   string
}

const ReferenceTypeReservation = "reservation"

// DeriveLockedBalance recalcula o saldo travado esperado a partir das somas
// do razão: tudo que foi preso, menos o que foi liberado, menos o que foi
// debitado de vez.
func DeriveLockedBalance(lockSum, unlockSum, debitSum int64) int64 {
	return lockSum - unlockSum - debitSum
}
