package aurum

// In-memory mocks for Repository, ChainService, PriceOracle and the
// notificator. These let us test the real settlement logic without a
// database or an RPC node.

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/solsins/aurum/internal/config"
	"github.com/solsins/aurum/internal/models"
	"github.com/solsins/aurum/pkg/logger"
)

type mockRepo struct {
	mu sync.Mutex

	orders    map[string]*models.Order // keyed by reference
	deposits  map[string]*models.WalletDeposit
	accounts  map[string]*models.WalletAccount
	balances  map[string]*models.Balance
	media     map[string]*models.Media
	purchases []*models.MediaPurchase

	confirmOrderCalls int
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		orders:   make(map[string]*models.Order),
		deposits: make(map[string]*models.WalletDeposit),
		accounts: make(map[string]*models.WalletAccount),
		balances: make(map[string]*models.Balance),
		media:    make(map[string]*models.Media),
	}
}

func (m *mockRepo) CreateOrder(order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[order.Reference]; ok {
		return fmt.Errorf("duplicate reference %s", order.Reference)
	}
	cp := *order
	m.orders[order.Reference] = &cp
	return nil
}

func (m *mockRepo) GetOrderByReference(reference string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[reference]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *order
	return &cp, nil
}

func (m *mockRepo) OrderReferenceExists(reference string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.orders[reference]
	return ok, nil
}

func (m *mockRepo) ConfirmOrder(reference, signature string) (*models.Order, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmOrderCalls++

	order, ok := m.orders[reference]
	if !ok {
		return nil, false, models.ErrNotFound
	}
	if order.Status != models.OrderStatusPending {
		cp := *order
		return &cp, false, nil
	}

	order.Status = models.OrderStatusConfirmed
	order.Signature = signature
	order.ConfirmedAt = time.Now().Unix()

	if order.MediaID != "" {
		m.purchases = append(m.purchases, &models.MediaPurchase{
			ID:             uuid.NewString(),
			UserID:         order.BuyerID,
			MediaID:        order.MediaID,
			OrderID:        order.ID,
			AmountLamports: order.AmountLamports,
		})
	}

	balance, ok := m.balances[order.CreatorID]
	if !ok {
		balance = &models.Balance{UserID: order.CreatorID}
		m.balances[order.CreatorID] = balance
	}
	balance.UsdCents += order.AmountUsdCents

	cp := *order
	return &cp, true, nil
}

func (m *mockRepo) GetMedia(id string) (*models.Media, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	media, ok := m.media[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return media, nil
}

func (m *mockRepo) CreateDeposit(deposit *models.WalletDeposit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *deposit
	m.deposits[deposit.ID] = &cp
	return nil
}

func (m *mockRepo) GetPendingDeposits() ([]*models.WalletDeposit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var pending []*models.WalletDeposit
	for _, dep := range m.deposits {
		if dep.Status == models.DepositStatusPending {
			cp := *dep
			pending = append(pending, &cp)
		}
	}
	return pending, nil
}

func (m *mockRepo) ConfirmDeposit(id string, amountLamports int64, signature string, confirmedAt int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	dep, ok := m.deposits[id]
	if !ok {
		return false, models.ErrNotFound
	}
	if dep.Status != models.DepositStatusPending {
		return false, nil
	}
	dep.Status = models.DepositStatusConfirmed
	dep.AmountLamports = amountLamports
	dep.TxSignature = signature
	dep.ConfirmedAt = confirmedAt

	account, ok := m.accounts[dep.UserID]
	if !ok {
		account = &models.WalletAccount{UserID: dep.UserID}
		m.accounts[dep.UserID] = account
	}
	account.BalanceLamports += amountLamports
	return true, nil
}

func (m *mockRepo) GetOrCreateWalletAccount(userID string) (*models.WalletAccount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[userID]
	if !ok {
		account = &models.WalletAccount{UserID: userID}
		m.accounts[userID] = account
	}
	cp := *account
	return &cp, nil
}

func (m *mockRepo) GetCreditedDeposits(userID string, limit int) ([]*models.WalletDeposit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var credited []*models.WalletDeposit
	for _, dep := range m.deposits {
		if dep.UserID == userID && dep.AmountLamports > 0 {
			cp := *dep
			credited = append(credited, &cp)
		}
	}
	if len(credited) > limit {
		credited = credited[:limit]
	}
	return credited, nil
}

func (m *mockRepo) PurchaseWithWallet(userID, mediaID string, amountLamports int64) (*models.MediaPurchase, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[userID]
	if !ok || account.BalanceLamports < amountLamports {
		return nil, 0, models.ErrInsufficientFunds
	}
	account.BalanceLamports -= amountLamports
	purchase := &models.MediaPurchase{
		ID:             uuid.NewString(),
		UserID:         userID,
		MediaID:        mediaID,
		AmountLamports: amountLamports,
	}
	m.purchases = append(m.purchases, purchase)
	return purchase, account.BalanceLamports, nil
}

func (m *mockRepo) GetBalance(userID string) (*models.Balance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	balance, ok := m.balances[userID]
	if !ok {
		return &models.Balance{UserID: userID}, nil
	}
	cp := *balance
	return &cp, nil
}

func (m *mockRepo) Close() error { return nil }

func (m *mockRepo) creatorBalance(userID string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if balance, ok := m.balances[userID]; ok {
		return balance.UsdCents
	}
	return 0
}

func (m *mockRepo) walletBalance(userID string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if account, ok := m.accounts[userID]; ok {
		return account.BalanceLamports
	}
	return 0
}

func (m *mockRepo) purchaseCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.purchases)
}

func (m *mockRepo) deposit(id string) *models.WalletDeposit {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *m.deposits[id]
	return &cp
}

// ---

type mockChain struct {
	mu sync.Mutex

	// balances by address, probed by the pool selector
	balances map[string]int64
	// balanceErr addresses fail the probe
	balanceErr map[string]bool
	// txByReference maps a reference to its transaction info
	txByReference map[string]*models.TransactionInfo
	// activity maps an address to its recent signatures, newest first
	activity map[string][]*models.TransactionInfo
	// deltas maps signature -> address -> lamport delta
	deltas map[string]map[string]int64
	// queryErr makes every chain query fail, simulating an RPC outage
	queryErr error
}

func newMockChain() *mockChain {
	return &mockChain{
		balances:      make(map[string]int64),
		balanceErr:    make(map[string]bool),
		txByReference: make(map[string]*models.TransactionInfo),
		activity:      make(map[string][]*models.TransactionInfo),
		deltas:        make(map[string]map[string]int64),
	}
}

func (m *mockChain) setDelta(signature, address string, delta int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deltas[signature] == nil {
		m.deltas[signature] = make(map[string]int64)
	}
	m.deltas[signature][address] = delta
}

func (m *mockChain) GetBalance(_ context.Context, address string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.queryErr != nil {
		return 0, m.queryErr
	}
	if m.balanceErr[address] {
		return 0, fmt.Errorf("probe failed for %s", address)
	}
	return m.balances[address], nil
}

func (m *mockChain) FindTransactionByReference(_ context.Context, reference string) (*models.TransactionInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	tx, ok := m.txByReference[reference]
	if !ok {
		return nil, models.ErrNoTransaction
	}
	return tx, nil
}

func (m *mockChain) GetRecentActivity(_ context.Context, address string, limit int) ([]*models.TransactionInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	infos := m.activity[address]
	if len(infos) > limit {
		infos = infos[:limit]
	}
	return infos, nil
}

func (m *mockChain) TransferDelta(_ context.Context, signature, address string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.queryErr != nil {
		return 0, m.queryErr
	}
	byAddr, ok := m.deltas[signature]
	if !ok {
		return 0, models.ErrNoTransaction
	}
	return byAddr[address], nil
}

func (m *mockChain) ValidateTransfer(ctx context.Context, signature, recipient string, expectedLamports int64) error {
	delta, err := m.TransferDelta(ctx, signature, recipient)
	if err != nil {
		return err
	}
	if delta != expectedLamports {
		return fmt.Errorf("%w: credited %d, expected %d", models.ErrTransferInvalid, delta, expectedLamports)
	}
	return nil
}

// ---

type mockOracle struct {
	price float64
	err   error
}

func (m *mockOracle) SolUsd(context.Context) (float64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.price, nil
}

// ---

type mockNotificator struct {
	mu   sync.Mutex
	sent []*models.PaymentNotification
}

func (m *mockNotificator) SendPaymentNotification(n *models.PaymentNotification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, n)
}

func (m *mockNotificator) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

// ---

func newTestApp(repo *mockRepo, chain *mockChain, oracle *mockOracle, poolAddrs []string) (*Aurum, *mockNotificator) {
	log := logger.NewNop()
	notif := &mockNotificator{}
	cfg := &config.Config{SweepIntervalSeconds: 60, PayLabel: "SolSins"}
	pool := NewPoolSelector(poolAddrs, chain, log)
	app := New(repo, chain, oracle, pool, notif, log, cfg).(*Aurum)
	return app, notif
}
