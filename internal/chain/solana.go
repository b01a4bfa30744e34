// Package chain implements the read-only Solana JSON-RPC client the payment
// core reconciles against. All queries use "confirmed" commitment: a
// transaction the RPC node returns is final enough to settle an order.
package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/solsins/aurum/internal/models"
	"github.com/solsins/aurum/pkg/logger"
)

const (
	requestTimeout = 10 * time.Second

	// referenceScanLimit bounds the signature page when resolving a payment
	// reference. A reference key is used by exactly one intended transfer, so
	// a small page is enough; extra entries are unrelated or adversarial.
	referenceScanLimit = 10
)

type Solana struct {
	logger *logger.Logger
	rpcURL string
	client *resty.Client
}

// NewSolana creates a chain client against the given JSON-RPC endpoint.
func NewSolana(rpcURL string, logger *logger.Logger) *Solana {
	client := resty.New().SetTimeout(requestTimeout)
	return &Solana{rpcURL: rpcURL, logger: logger, client: client}
}

type rpcRequest struct {
	Jsonrpc string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcEnvelope struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// call performs one JSON-RPC request and unmarshals the result into out.
func (s *Solana) call(ctx context.Context, method string, params []interface{}, out interface{}) error {
	body := rpcRequest{Jsonrpc: "2.0", ID: 1, Method: method, Params: params}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(s.rpcURL)
	if err != nil {
		return fmt.Errorf("rpc %s request failed: %w", method, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("rpc %s status: %d", method, resp.StatusCode())
	}

	var envelope rpcEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return fmt.Errorf("rpc %s decode failed: %w", method, err)
	}
	if envelope.Error != nil {
		return fmt.Errorf("rpc %s error %d: %s", method, envelope.Error.Code, envelope.Error.Message)
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return fmt.Errorf("rpc %s result decode failed: %w", method, err)
		}
	}
	return nil
}

// GetBalance returns the confirmed lamport balance of an address.
func (s *Solana) GetBalance(ctx context.Context, address string) (int64, error) {
	var result struct {
		Value int64 `json:"value"`
	}
	params := []interface{}{address, map[string]interface{}{"commitment": "confirmed"}}
	if err := s.call(ctx, "getBalance", params, &result); err != nil {
		return 0, err
	}
	return result.Value, nil
}

type signatureInfo struct {
	Signature          string      `json:"signature"`
	Slot               uint64      `json:"slot"`
	BlockTime          *int64      `json:"blockTime"`
	Err                interface{} `json:"err"`
	ConfirmationStatus string      `json:"confirmationStatus"`
}

// GetRecentActivity returns the most recent signatures involving an address, newest first.
func (s *Solana) GetRecentActivity(ctx context.Context, address string, limit int) ([]*models.TransactionInfo, error) {
	var result []signatureInfo
	params := []interface{}{address, map[string]interface{}{"limit": limit, "commitment": "confirmed"}}
	if err := s.call(ctx, "getSignaturesForAddress", params, &result); err != nil {
		return nil, err
	}

	infos := make([]*models.TransactionInfo, 0, len(result))
	for _, sig := range result {
		info := &models.TransactionInfo{
			Signature:          sig.Signature,
			Slot:               sig.Slot,
			Failed:             sig.Err != nil,
			ConfirmationStatus: sig.ConfirmationStatus,
		}
		if sig.BlockTime != nil {
			info.BlockTime = *sig.BlockTime
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// FindTransactionByReference resolves a payment reference to a transaction.
// Wallets attach the reference as a read-only account key, so signatures for
// the reference address are exactly the transactions mentioning it. The oldest
// confirmed, successful signature wins: that is the payment, later ones are noise.
func (s *Solana) FindTransactionByReference(ctx context.Context, reference string) (*models.TransactionInfo, error) {
	infos, err := s.GetRecentActivity(ctx, reference, referenceScanLimit)
	if err != nil {
		return nil, err
	}

	// Newest first; walk backwards for the oldest usable one.
	for i := len(infos) - 1; i >= 0; i-- {
		info := infos[i]
		if info.Failed {
			continue
		}
		if info.ConfirmationStatus != "confirmed" && info.ConfirmationStatus != "finalized" {
			continue
		}
		return info, nil
	}
	return nil, models.ErrNoTransaction
}

// accountKey tolerates both encodings the RPC uses: a bare base58 string or a
// jsonParsed object {"pubkey": ..., "signer": ..., "writable": ...}.
type accountKey struct {
	Pubkey string
}

func (k *accountKey) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		k.Pubkey = plain
		return nil
	}
	var parsed struct {
		Pubkey string `json:"pubkey"`
	}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return err
	}
	k.Pubkey = parsed.Pubkey
	return nil
}

type parsedTransaction struct {
	Slot      uint64 `json:"slot"`
	BlockTime *int64 `json:"blockTime"`
	Meta      *struct {
		Err          interface{} `json:"err"`
		PreBalances  []int64     `json:"preBalances"`
		PostBalances []int64     `json:"postBalances"`
	} `json:"meta"`
	Transaction struct {
		Message struct {
			AccountKeys []accountKey `json:"accountKeys"`
		} `json:"message"`
	} `json:"transaction"`
}

func (s *Solana) getTransaction(ctx context.Context, signature string) (*parsedTransaction, error) {
	var result *parsedTransaction
	params := []interface{}{signature, map[string]interface{}{
		"encoding":                       "jsonParsed",
		"commitment":                     "confirmed",
		"maxSupportedTransactionVersion": 0,
	}}
	if err := s.call(ctx, "getTransaction", params, &result); err != nil {
		return nil, err
	}
	if result == nil || result.Meta == nil {
		return nil, models.ErrNoTransaction
	}
	return result, nil
}

// TransferDelta returns the lamport balance change of the address within the
// transaction, computed from the per-account pre/post balances. The claimed
// instruction amounts are never trusted: deposits are open-ended and unsigned
// by the platform, so the balance delta is the only honest measure.
func (s *Solana) TransferDelta(ctx context.Context, signature, address string) (int64, error) {
	tx, err := s.getTransaction(ctx, signature)
	if err != nil {
		return 0, err
	}
	return addressDelta(tx, address), nil
}

func addressDelta(tx *parsedTransaction, address string) int64 {
	idx := -1
	for i, key := range tx.Transaction.Message.AccountKeys {
		if key.Pubkey == address {
			idx = i
			break
		}
	}
	if idx == -1 || idx >= len(tx.Meta.PreBalances) || idx >= len(tx.Meta.PostBalances) {
		return 0
	}
	return tx.Meta.PostBalances[idx] - tx.Meta.PreBalances[idx]
}

// ValidateTransfer checks that the transaction executed successfully and
// credited the recipient with exactly the expected lamports. Partial payments
// and overpayments do not validate.
func (s *Solana) ValidateTransfer(ctx context.Context, signature, recipient string, expectedLamports int64) error {
	tx, err := s.getTransaction(ctx, signature)
	if err != nil {
		return err
	}

	if tx.Meta.Err != nil {
		return fmt.Errorf("%w: transaction %s failed on chain", models.ErrTransferInvalid, signature)
	}

	delta := addressDelta(tx, recipient)
	if delta != expectedLamports {
		return fmt.Errorf("%w: recipient %s credited %d lamports, expected %d",
			models.ErrTransferInvalid, recipient, delta, expectedLamports)
	}

	return nil
}
