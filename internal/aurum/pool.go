package aurum

import (
	"context"
	"math/rand"

	"github.com/solsins/aurum/internal/models"
	"github.com/solsins/aurum/pkg/logger"
)

// PoolSelector picks receiving addresses from the platform wallet pool.
//
// For orders it prefers an address with a zero on-chain balance, so that the
// incoming transfer is unambiguous. This is a best-effort heuristic, not a
// guarantee: two concurrent checkouts can race onto the same clean address.
// Reference matching in the reconciler is the correctness backstop.
type PoolSelector struct {
	logger    *logger.Logger
	chain     models.ChainService
	addresses []string
}

func NewPoolSelector(addresses []string, chain models.ChainService, logger *logger.Logger) *PoolSelector {
	return &PoolSelector{addresses: addresses, chain: chain, logger: logger}
}

// SelectDestination returns a zero-balance pool address if one exists.
// Probe failures skip the candidate. When the pool has no clean address the
// selector falls back to a random one rather than blocking checkout.
func (p *PoolSelector) SelectDestination(ctx context.Context) string {
	shuffled := make([]string, len(p.addresses))
	copy(shuffled, p.addresses)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	for _, addr := range shuffled {
		balance, err := p.chain.GetBalance(ctx, addr)
		if err != nil {
			p.logger.Debug("Skipping pool address, balance probe failed ", "address ", addr, "error ", err)
			continue
		}
		if balance == 0 {
			p.logger.Debug("Picked empty pool address ", "address ", addr)
			return addr
		}
	}

	fallback := p.RandomAddress()
	p.logger.Warn("No empty pool address found, falling back to random ", "address ", fallback)
	return fallback
}

// RandomAddress returns a uniformly random pool address. Used for deposit
// issuance, where prior activity on the address is expected.
func (p *PoolSelector) RandomAddress() string {
	return p.addresses[rand.Intn(len(p.addresses))]
}
