package aurum

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/solsins/aurum/internal/models"
)

func pendingDeposit(repo *mockRepo, id, userID, address string) *models.WalletDeposit {
	deposit := &models.WalletDeposit{
		ID:      id,
		UserID:  userID,
		Address: address,
		Status:  models.DepositStatusPending,
	}
	if err := repo.CreateDeposit(deposit); err != nil {
		panic(err)
	}
	return deposit
}

func TestSweepNoActivityLeavesDepositPending(t *testing.T) {
	repo := newMockRepo()
	pendingDeposit(repo, "dep-1", "user-1", testAddr(3))
	app, _ := newTestApp(repo, newMockChain(), &mockOracle{price: 140}, []string{testAddr(1)})

	processed, err := app.SweepDeposits(context.Background())
	require.NoError(t, err)
	require.Zero(t, processed)

	require.Equal(t, models.DepositStatusPending, repo.deposit("dep-1").Status)
	require.Zero(t, repo.walletBalance("user-1"))
}

func TestSweepCreditsBalanceDelta(t *testing.T) {
	addr := testAddr(3)
	repo := newMockRepo()
	pendingDeposit(repo, "dep-1", "user-1", addr)

	chain := newMockChain()
	chain.activity[addr] = []*models.TransactionInfo{
		{Signature: "sig-d1", BlockTime: 1700000000, ConfirmationStatus: "confirmed"},
	}
	// Pre-balance 1000, post-balance 1500: credited amount is the delta.
	chain.setDelta("sig-d1", addr, 500)

	app, _ := newTestApp(repo, chain, &mockOracle{price: 140}, []string{testAddr(1)})

	processed, err := app.SweepDeposits(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, processed)

	dep := repo.deposit("dep-1")
	require.Equal(t, models.DepositStatusConfirmed, dep.Status)
	require.Equal(t, int64(500), dep.AmountLamports)
	require.Equal(t, "sig-d1", dep.TxSignature)
	require.Equal(t, int64(1700000000), dep.ConfirmedAt)
	require.Equal(t, int64(500), repo.walletBalance("user-1"))
}

func TestSweepSameSignatureCreditsOnce(t *testing.T) {
	addr := testAddr(3)
	repo := newMockRepo()
	deposit := pendingDeposit(repo, "dep-1", "user-1", addr)
	// A partially-applied prior sweep recorded the signature but the status
	// guard must also hold on its own.
	deposit.TxSignature = "sig-d1"
	repo.deposits["dep-1"].TxSignature = "sig-d1"

	chain := newMockChain()
	chain.activity[addr] = []*models.TransactionInfo{
		{Signature: "sig-d1", ConfirmationStatus: "confirmed"},
	}
	chain.setDelta("sig-d1", addr, 500)

	app, _ := newTestApp(repo, chain, &mockOracle{price: 140}, []string{testAddr(1)})

	processed, err := app.SweepDeposits(context.Background())
	require.NoError(t, err)
	require.Zero(t, processed, "already-recorded signature must be skipped")
	require.Zero(t, repo.walletBalance("user-1"))
}

func TestSweepTwiceCreditsOnce(t *testing.T) {
	addr := testAddr(3)
	repo := newMockRepo()
	pendingDeposit(repo, "dep-1", "user-1", addr)

	chain := newMockChain()
	chain.activity[addr] = []*models.TransactionInfo{
		{Signature: "sig-d1", ConfirmationStatus: "confirmed"},
	}
	chain.setDelta("sig-d1", addr, 500)

	app, _ := newTestApp(repo, chain, &mockOracle{price: 140}, []string{testAddr(1)})

	processed, err := app.SweepDeposits(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, processed)

	processed, err = app.SweepDeposits(context.Background())
	require.NoError(t, err)
	require.Zero(t, processed)

	require.Equal(t, int64(500), repo.walletBalance("user-1"), "same signature across two sweeps credits once")
}

func TestSweepNonPositiveDeltaSkipped(t *testing.T) {
	addr := testAddr(3)
	repo := newMockRepo()
	pendingDeposit(repo, "dep-1", "user-1", addr)

	chain := newMockChain()
	chain.activity[addr] = []*models.TransactionInfo{
		{Signature: "sig-out", ConfirmationStatus: "confirmed"},
	}
	// Outbound transfer: the address lost lamports in its latest transaction.
	chain.setDelta("sig-out", addr, -200)

	app, _ := newTestApp(repo, chain, &mockOracle{price: 140}, []string{testAddr(1)})

	processed, err := app.SweepDeposits(context.Background())
	require.NoError(t, err)
	require.Zero(t, processed)
	require.Equal(t, models.DepositStatusPending, repo.deposit("dep-1").Status)
}

func TestSweepMalformedAddressSkippedPermanently(t *testing.T) {
	repo := newMockRepo()
	pendingDeposit(repo, "dep-bad", "user-1", "not-a-solana-address!")
	app, _ := newTestApp(repo, newMockChain(), &mockOracle{price: 140}, []string{testAddr(1)})

	processed, err := app.SweepDeposits(context.Background())
	require.NoError(t, err)
	require.Zero(t, processed)
	require.Equal(t, models.DepositStatusPending, repo.deposit("dep-bad").Status)
}

func TestSweepOneFailureDoesNotAbortBatch(t *testing.T) {
	badAddr := testAddr(4)
	goodAddr := testAddr(5)
	repo := newMockRepo()
	pendingDeposit(repo, "dep-bad", "user-1", badAddr)
	pendingDeposit(repo, "dep-good", "user-2", goodAddr)

	chain := newMockChain()
	// dep-bad has activity but its transaction lookup fails.
	chain.activity[badAddr] = []*models.TransactionInfo{
		{Signature: "sig-missing", ConfirmationStatus: "confirmed"},
	}
	chain.activity[goodAddr] = []*models.TransactionInfo{
		{Signature: "sig-good", ConfirmationStatus: "confirmed"},
	}
	chain.setDelta("sig-good", goodAddr, 900)

	app, _ := newTestApp(repo, chain, &mockOracle{price: 140}, []string{testAddr(1)})

	processed, err := app.SweepDeposits(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, processed, "healthy deposit credited despite the failing one")
	require.Equal(t, int64(900), repo.walletBalance("user-2"))
	require.Zero(t, repo.walletBalance("user-1"))
}
