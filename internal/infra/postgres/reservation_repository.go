package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Cjota221/C4franquiaas-sub006/internal/domain"
	"github.com/Cjota221/C4franquiaas-sub006/internal/gateway"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationRepository struct {
	db dbtx
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{db: pool}
}

const reservationColumns = `id, wallet_id, amount, status, created_at, canceled_at, cancel_reason`

func (r *ReservationRepository) Create(ctx context.Context, reservation *domain.Reservation) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO reservations (id, wallet_id, amount, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		reservation.ID, reservation.WalletID, reservation.Amount, string(reservation.Status))

	if err := row.Scan(&reservation.CreatedAt); err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*domain.Reservation, error) {
	row := r.db.QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id)
	return scanReservation(row, "failed to get reservation")
}

func (r *ReservationRepository) GetByIDForUpdate(ctx context.Context, id string) (*domain.Reservation, error) {
	row := r.db.QueryRow(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1 FOR UPDATE`, id)
	return scanReservation(row, "failed to lock reservation")
}

// MarkCanceled fecha a reserva. A guarda de status na cláusula WHERE é a
// última linha de defesa contra transição ilegal.
func (r *ReservationRepository) MarkCanceled(ctx context.Context, id string, reason string, at time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE reservations
		SET status = $2, canceled_at = $3, cancel_reason = $4
		WHERE id = $1 AND status = $5`,
		id, string(domain.ReservationStatusCanceled), at, textOrNull(reason), string(domain.ReservationStatusReserved))
	if err != nil {
		return fmt.Errorf("failed to cancel reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidReservationState
	}
	return nil
}

func (r *ReservationRepository) MarkConfirmed(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE reservations
		SET status = $2
		WHERE id = $1 AND status = $3`,
		id, string(domain.ReservationStatusConfirmed), string(domain.ReservationStatusReserved))
	if err != nil {
		return fmt.Errorf("failed to confirm reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidReservationState
	}
	return nil
}

func (r *ReservationRepository) WithTx(tx gateway.TransactionObject) gateway.ReservationRepository {
	pgTx, ok := tx.(pgx.Tx)
	if !ok {
		return r
	}
	return &ReservationRepository{db: pgTx}
}

func scanReservation(row pgx.Row, failMsg string) (*domain.Reservation, error) {
	var (
		res        domain.Reservation
		status     string
		canceledAt pgtype.Timestamptz
		reason     pgtype.Text
	)
	err := row.Scan(&res.ID, &res.WalletID, &res.Amount, &status, &res.CreatedAt, &canceledAt, &reason)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReservationNotFound
		}
		return nil, fmt.Errorf("%s: %w", failMsg, err)
	}
	res.Status = domain.ReservationStatus(status)
	// pgtype.Timestamptz é uma struct, acessamos o valor .Time
	if canceledAt.Valid {
		t := canceledAt.Time
		res.CanceledAt = &t
	}
	if reason.Valid {
		s := reason.String
		res.CancelReason = &s
	}
	return &res, nil
}

// Helper para converter string vazia -> NULL
func textOrNull(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}
