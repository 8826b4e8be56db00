package domain

import "time"

// ReservationStatus segue uma máquina de estados de mão única:
// RESERVED -> CANCELED ou RESERVED -> CONFIRMED. Depois disso, imutável.
type ReservationStatus string

const (
	ReservationStatusReserved  ReservationStatus = "RESERVED"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusCanceled  ReservationStatus = "CANCELED"
)

// Reservation é uma trava temporária contra o saldo disponível da carteira.
type Reservation struct {
	ID           string
	WalletID     int64
	Amount       int64
	Status       ReservationStatus
	CreatedAt    time.Time
	CanceledAt   *time.Time
	CancelReason *string
}

// IsOpen indica se a reserva ainda segura saldo travado.
func (r *Reservation) IsOpen() bool {
	return r.Status == ReservationStatusReserved
}

// Reference devolve a identidade desta reserva dentro do razão.
func (r *Reservation) Reference() Reference {
	return Reference{Type: ReferenceTypeReservation, ID: r.ID}
}
