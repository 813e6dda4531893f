package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	eos "github.com/eoscanada/eos-go"
	"github.com/eoscanada/eos-go/ecc"
	"go.uber.org/zap"

	apperrors "eosoracle/internal/errors"
	"eosoracle/internal/logger"
)

const (
	defaultExpireSeconds = 30
	operatorPermission   = "active"
)

// Gateway submits actions signed by one operator account and reads the
// tables of the contract deployed on that account. Submissions are
// at-most-once: nothing is retried.
type Gateway struct {
	api       *eos.API
	account   eos.AccountName
	publicKey string
	expire    time.Duration
	log       *zap.SugaredLogger

	mu  sync.Mutex
	abi *eos.ABI
}

// NewGateway validates cfg and creates a Gateway. When httpClient is nil the
// client of eos-go is kept with cfg.Timeout applied.
func NewGateway(cfg Config, httpClient *http.Client) (*Gateway, error) {
	if !validAccountName(cfg.Account) {
		return nil, fmt.Errorf("ledger: invalid operator account %q", cfg.Account)
	}

	api := eos.New(cfg.RPCURL)
	if httpClient != nil {
		api.HttpClient = httpClient
	} else if cfg.Timeout > 0 {
		api.HttpClient.Timeout = cfg.Timeout
	}

	g := &Gateway{
		api:     api,
		account: eos.AN(cfg.Account),
		expire:  time.Duration(cfg.ExpireSeconds) * time.Second,
		log:     logger.Named("ledger"),
	}
	if cfg.ExpireSeconds <= 0 {
		g.expire = defaultExpireSeconds * time.Second
	}

	if cfg.PrivateKey != "" {
		key, err := ecc.NewPrivateKey(cfg.PrivateKey)
		if err != nil {
			return nil, fmt.Errorf("ledger: invalid private key: %w", err)
		}
		keyBag := eos.NewKeyBag()
		if err := keyBag.Add(cfg.PrivateKey); err != nil {
			return nil, fmt.Errorf("ledger: loading private key: %w", err)
		}
		api.SetSigner(keyBag)

		// operator@active is the only authority used, so the required key is
		// always the operator key and get_required_keys is skipped.
		publicKey := key.PublicKey()
		api.SetCustomGetRequiredKeys(func(ctx context.Context, tx *eos.Transaction) ([]ecc.PublicKey, error) {
			return []ecc.PublicKey{publicKey}, nil
		})
		g.publicKey = publicKey.String()
	}

	return g, nil
}

func validAccountName(name string) bool {
	if name == "" || len(name) > 12 {
		return false
	}
	value, err := eos.StringToName(name)
	return err == nil && eos.NameToString(value) == name
}

// Account returns the operator account.
func (g *Gateway) Account() string { return string(g.account) }

// PublicKey returns the operator's public key, or "" for a read-only gateway.
func (g *Gateway) PublicKey() string { return g.publicKey }

// SubmitAction signs and pushes a transaction holding a single action on the
// operator's contract, authorized by operator@active.
func (g *Gateway) SubmitAction(ctx context.Context, action string, data map[string]interface{}) (*TransactionReceipt, error) {
	if g.publicKey == "" {
		return nil, apperrors.WithMessage(apperrors.ErrLedger, "No signing key configured")
	}

	abi, err := g.contractABI(ctx)
	if err != nil {
		return nil, ledgerError(err)
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, ledgerError(err)
	}
	encoded, err := abi.EncodeAction(eos.ActN(action), payload)
	if err != nil {
		return nil, ledgerError(fmt.Errorf("encoding %s: %w", action, err))
	}

	opts := &eos.TxOptions{}
	if err := opts.FillFromChain(ctx, g.api); err != nil {
		return nil, ledgerError(err)
	}

	tx := eos.NewTransaction([]*eos.Action{{
		Account:       g.account,
		Name:          eos.ActN(action),
		Authorization: []eos.PermissionLevel{{Actor: g.account, Permission: eos.PN(operatorPermission)}},
		ActionData:    eos.NewActionDataFromHexData(encoded),
	}}, opts)
	tx.SetExpiration(g.expire)

	_, packed, err := g.api.SignTransaction(ctx, tx, opts.ChainID, eos.CompressionNone)
	if err != nil {
		return nil, ledgerError(err)
	}

	resp, err := g.api.PushTransaction(ctx, packed)
	if err != nil {
		g.log.Warnw("transaction rejected", "action", action, "error", err.Error())
		return nil, ledgerError(err)
	}

	g.log.Infow("transaction submitted", "action", action, "transaction_id", resp.TransactionID)
	return &TransactionReceipt{TransactionID: resp.TransactionID}, nil
}

// QueryRows reads rows of a table of the operator's contract, scoped to the
// operator. The view is eventually consistent: a row written by a submission
// that just returned may not be visible yet.
func (g *Gateway) QueryRows(ctx context.Context, table string, q RowQuery) ([]json.RawMessage, error) {
	resp, err := g.api.GetTableRows(ctx, eos.GetTableRowsRequest{
		JSON:       true,
		Code:       string(g.account),
		Scope:      string(g.account),
		Table:      table,
		Index:      q.IndexPosition,
		KeyType:    q.KeyType,
		LowerBound: q.LowerBound,
		UpperBound: q.UpperBound,
		Limit:      uint32(q.Limit),
		Reverse:    q.Reverse,
	})
	if err != nil {
		return nil, ledgerError(err)
	}

	var rows []json.RawMessage
	if len(resp.Rows) > 0 {
		if err := json.Unmarshal(resp.Rows, &rows); err != nil {
			return nil, ledgerError(fmt.Errorf("decoding %s rows: %w", table, err))
		}
	}
	if rows == nil {
		return []json.RawMessage{}, nil
	}
	return rows, nil
}

// contractABI fetches the contract ABI once and keeps it for the lifetime of
// the gateway.
func (g *Gateway) contractABI(ctx context.Context) (*eos.ABI, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.abi != nil {
		return g.abi, nil
	}
	resp, err := g.api.GetABI(ctx, g.account)
	if err != nil {
		return nil, err
	}
	if len(resp.ABI.Actions) == 0 {
		return nil, fmt.Errorf("no contract deployed on %s", g.account)
	}
	abi := resp.ABI
	g.abi = &abi
	return g.abi, nil
}

// ledgerError maps a chain failure to LEDGER_ERROR. Contract assertion
// failures arrive in the first detail entry of the node's error body.
func ledgerError(err error) error {
	message := err.Error()
	var apiErr eos.APIError
	if errors.As(err, &apiErr) {
		switch {
		case len(apiErr.ErrorStruct.Details) > 0 && apiErr.ErrorStruct.Details[0].Message != "":
			message = apiErr.ErrorStruct.Details[0].Message
		case apiErr.ErrorStruct.What != "":
			message = apiErr.ErrorStruct.What
		}
	}
	return apperrors.WrapWithMessage(apperrors.ErrLedger, message, err)
}
