package domain

import (
	"time"
)

// Wallet representa a carteira da revendedora: saldo total + saldo travado
// por reservas em aberto. Clean Architecture: a entidade não sabe o que é
// JSON nem SQL.
type Wallet struct {
	ID            int64
	OwnerID       int64
	Balance       int64 // Valor em centavos
	LockedBalance int64 // Parcela do Balance presa por reservas RESERVED
	Version       int32 // Para controle de concorrência otimista (se necessário)
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Métodos de domínio (Lógica pura)

// Available é o que a carteira pode gastar agora: Balance - LockedBalance.
// Invariante: 0 <= LockedBalance <= Balance, logo Available >= 0.
func (w *Wallet) Available() int64 {
	return w.Balance - w.LockedBalance
}

// CanLock valida se a carteira comporta a trava antes mesmo de tocar no DB
func (w *Wallet) CanLock(amount int64) bool {
	return w.Available() >= amount
}

// Lock prende `amount` centavos do saldo disponível.
func (w *Wallet) Lock(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if !w.CanLock(amount) {
		return ErrInsufficientFunds
	}
	w.LockedBalance += amount
	return nil
}

// Unlock libera até `amount` centavos travados. O valor é sempre limitado ao
// LockedBalance atual para que o travado nunca fique negativo. Retorna quanto
// foi liberado de fato.
func (w *Wallet) Unlock(amount int64) int64 {
	if amount <= 0 {
		return 0
	}
	if amount > w.LockedBalance {
		amount = w.LockedBalance
	}
	w.LockedBalance -= amount
	return amount
}

// Debit consome uma trava confirmada: sai do Balance E do LockedBalance ao
// mesmo tempo (o dinheiro já estava preso, agora vai embora de vez).
func (w *Wallet) Debit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if amount > w.LockedBalance || amount > w.Balance {
		return ErrInsufficientFunds
	}
	w.Balance -= amount
	w.LockedBalance -= amount
	return nil
}
