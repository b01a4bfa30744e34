package aurum

import (
	"context"
	"time"

	"github.com/solsins/aurum/internal/config"
	"github.com/solsins/aurum/internal/models"
	"github.com/solsins/aurum/pkg/logger"
)

// Aurum is the main struct for the payment core.
// It contains all the necessary components to run the application
// and serves all payment business logic.
type Aurum struct {
	logger *logger.Logger
	config *config.Config

	repo        models.Repository
	chain       models.ChainService
	oracle      models.PriceOracle
	pool        *PoolSelector
	notificator models.NotificationService

	done chan struct{}
}

// New creates a new Aurum instance
func New(
	repo models.Repository,
	chain models.ChainService,
	oracle models.PriceOracle,
	pool *PoolSelector,
	notificator models.NotificationService,
	logger *logger.Logger,
	config *config.Config,
) models.AurumI {
	return &Aurum{
		repo:        repo,
		chain:       chain,
		oracle:      oracle,
		pool:        pool,
		notificator: notificator,
		logger:      logger,
		config:      config,
		done:        make(chan struct{}),
	}
}

// Start runs the deposit sweep loop. Blocks until Shutdown is called.
// Orders are reconciled on demand by status polls; deposits have no poller of
// their own, so the sweep runs on a ticker.
func (a *Aurum) Start() {
	interval := time.Duration(a.config.SweepIntervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	a.logger.Info("Deposit sweep loop started ", "interval ", interval)
	for {
		select {
		case <-a.done:
			a.logger.Info("Deposit sweep loop stopped")
			return
		case <-ticker.C:
			processed, err := a.SweepDeposits(context.Background())
			if err != nil {
				a.logger.Error("Deposit sweep failed ", "error ", err)
				continue
			}
			if processed > 0 {
				a.logger.Info("Deposit sweep done ", "processed ", processed)
			}
		}
	}
}

// Shutdown stops the sweep loop.
func (a *Aurum) Shutdown() {
	close(a.done)
}

// CurrentPrice returns the current SOL/USD quote.
func (a *Aurum) CurrentPrice(ctx context.Context) (float64, error) {
	return a.oracle.SolUsd(ctx)
}
