package usecase

import (
	"context"
	"testing"

	"github.com/Cjota221/C4franquiaas-sub006/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestReconcileWallet(t *testing.T) {
	ctx := context.Background()

	t.Run("razão bate com o cache após qualquer sequência bem-sucedida", func(t *testing.T) {
		env := newReservationTestEnv()
		reconcile := NewReconcileWallet(env.walletRepo, env.ledgerRepo, env.publisher)

		wallet, err := env.walletRepo.Create(ctx, 10, 10_000)
		require.NoError(t, err)

		// Reserva -> cancela -> reserva -> confirma -> reserva aberta
		r1, err := env.reserve.Execute(ctx, ReserveFundsInput{WalletID: wallet.ID, Amount: 1_200})
		require.NoError(t, err)
		_, err = env.cancel.Execute(ctx, CancelReservationInput{ReservationID: r1.ReservationID})
		require.NoError(t, err)

		r2, err := env.reserve.Execute(ctx, ReserveFundsInput{WalletID: wallet.ID, Amount: 3_000})
		require.NoError(t, err)
		_, err = env.confirm.Execute(ctx, ConfirmReservationInput{ReservationID: r2.ReservationID})
		require.NoError(t, err)

		_, err = env.reserve.Execute(ctx, ReserveFundsInput{WalletID: wallet.ID, Amount: 500})
		require.NoError(t, err)

		out, err := reconcile.Execute(ctx, wallet.ID)
		require.NoError(t, err)
		require.True(t, out.Consistent)
		require.Equal(t, int64(500), out.DerivedLocked)
		require.Equal(t, out.StoredLocked, out.DerivedLocked)
	})

	t.Run("divergência é reportada, nunca corrigida", func(t *testing.T) {
		env := newReservationTestEnv()
		reconcile := NewReconcileWallet(env.walletRepo, env.ledgerRepo, env.publisher)

		wallet, err := env.walletRepo.Create(ctx, 10, 1_000)
		require.NoError(t, err)
		_, err = env.reserve.Execute(ctx, ReserveFundsInput{WalletID: wallet.ID, Amount: 300})
		require.NoError(t, err)

		// Corrompe o cache por fora do razão
		env.walletRepo.wallets[wallet.ID].LockedBalance = 999

		out, err := reconcile.Execute(ctx, wallet.ID)
		require.ErrorIs(t, err, domain.ErrLedgerMismatch)
		require.False(t, out.Consistent)
		require.Equal(t, int64(999), out.StoredLocked)
		require.Equal(t, int64(300), out.DerivedLocked)

		// O valor corrompido continua lá: correção é decisão humana
		require.Equal(t, int64(999), env.walletRepo.wallets[wallet.ID].LockedBalance)

		events := env.publisher.byRoutingKey("wallet.integrity_violation")
		require.Len(t, events, 1)
	})
}
