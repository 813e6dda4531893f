package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	apperrors "eosoracle/internal/errors"
	"eosoracle/internal/ledger"
	"eosoracle/internal/logger"
	"eosoracle/internal/models"
)

const (
	// securitiesPageSize bounds a securities listing.
	securitiesPageSize = 1000
	// typeIndexPosition is the secondary index of the securities table keyed by type.
	typeIndexPosition = "2"
	// priceLookupConcurrency bounds the parallel row reads of a price batch.
	priceLookupConcurrency = 8
)

// securityService handles security and price business logic against the ledger.
type securityService struct {
	gateway LedgerGateway
	now     func() time.Time
}

// NewSecurityService creates a new SecurityServicer.
func NewSecurityService(gateway LedgerGateway) SecurityServicer {
	return &securityService{gateway: gateway, now: time.Now}
}

// actionData starts the payload of a contract action paid for and received by
// the operator account.
func (s *securityService) actionData() map[string]interface{} {
	account := s.gateway.Account()
	return map[string]interface{}{
		"payer":    account,
		"receiver": account,
	}
}

// CreateSecurity submits a newsec action and recovers the id the contract
// assigned by reading the newest row of the table. The read is best effort:
// the newest row may belong to a concurrent insert, so it is only accepted
// when it matches the submitted fields.
func (s *securityService) CreateSecurity(ctx context.Context, input CreateSecurityInput) (*CreatedSecurity, error) {
	symbol := strings.TrimSpace(input.Symbol)
	quoteCurrency := strings.TrimSpace(input.QuoteCurrency)
	exchangeName := strings.TrimSpace(input.ExchangeName)

	if symbol == "" {
		return nil, apperrors.MissingParameter("symbol")
	}
	if quoteCurrency == "" {
		return nil, apperrors.MissingParameter("quoteCurrency")
	}
	securityType := models.SecurityType(strings.TrimSpace(input.SecurityType))
	typeIndex, err := securityType.Index()
	if err != nil {
		return nil, apperrors.MissingParameter("securityType")
	}
	if exchangeName == "" && securityType != models.SecurityTypeForex {
		return nil, apperrors.MissingParameter("exchangeName")
	}

	data := s.actionData()
	data["symbol"] = symbol
	data["exchange_name"] = exchangeName
	data["quote_currency"] = quoteCurrency
	data["security_type"] = typeIndex

	receipt, err := s.gateway.SubmitAction(ctx, "newsec", data)
	if err != nil {
		return nil, err
	}

	rows, err := s.gateway.QueryRows(ctx, models.SecuritiesTable, ledger.RowQuery{
		KeyType: "i64",
		Limit:   1,
		Reverse: true,
	})
	if err != nil {
		return nil, apperrors.WrapWithMessage(apperrors.ErrLedger,
			fmt.Sprintf("Security submitted in transaction %s but its id could not be read: %s",
				receipt.TransactionID, err.Error()), err)
	}
	if len(rows) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrLedger,
			fmt.Sprintf("No securities found after transaction %s", receipt.TransactionID))
	}

	var row models.SecurityRow
	if err := json.Unmarshal(rows[0], &row); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrLedger, err)
	}
	if row.Symbol != symbol || row.QuoteCurrency != quoteCurrency ||
		row.ExchangeName != exchangeName || uint64(row.SecurityType) != typeIndex {
		return nil, apperrors.WithMessage(apperrors.ErrLedger,
			fmt.Sprintf("Newest security does not match the one submitted in transaction %s", receipt.TransactionID))
	}

	return &CreatedSecurity{
		SecurityID:  uint64(row.Key),
		Transaction: receipt,
	}, nil
}

// EraseSecurity submits an erase action. Existence is left to the contract.
func (s *securityService) EraseSecurity(ctx context.Context, securityID uint64) (*ledger.TransactionReceipt, error) {
	data := s.actionData()
	data["security_id"] = securityID
	return s.gateway.SubmitAction(ctx, "erase", data)
}

// SetPrice submits a newprice action stamped with the current server time.
func (s *securityService) SetPrice(ctx context.Context, securityID uint64, price decimal.Decimal) (*ledger.TransactionReceipt, error) {
	if price.IsNegative() {
		return nil, apperrors.MissingParameter("price")
	}

	data := s.actionData()
	data["security_id"] = securityID
	data["price"] = price.String()
	data["time_stamp"] = uint64(s.now().UnixMilli())
	return s.gateway.SubmitAction(ctx, "newprice", data)
}

// ListSecurities returns up to one page of securities, optionally filtered by
// type through the table's secondary index.
func (s *securityService) ListSecurities(ctx context.Context, securityType string) ([]models.Security, error) {
	query := ledger.RowQuery{Limit: securitiesPageSize}
	if securityType != "" {
		index, err := models.SecurityType(securityType).Index()
		if err != nil {
			return nil, err
		}
		bound := strconv.FormatUint(index, 10)
		query.IndexPosition = typeIndexPosition
		query.KeyType = "i64"
		query.LowerBound = bound
		query.UpperBound = bound
	}

	rows, err := s.gateway.QueryRows(ctx, models.SecuritiesTable, query)
	if err != nil {
		return nil, err
	}

	securities := make([]models.Security, 0, len(rows))
	for _, raw := range rows {
		var row models.SecurityRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrLedger, err)
		}
		security, err := row.ToSecurity()
		if err != nil {
			return nil, err
		}
		securities = append(securities, security)
	}
	return securities, nil
}

// getPrice reads the row of one security and returns its last price.
func (s *securityService) getPrice(ctx context.Context, securityID uint64) (*models.Price, error) {
	bound := strconv.FormatUint(securityID, 10)
	rows, err := s.gateway.QueryRows(ctx, models.SecuritiesTable, ledger.RowQuery{
		KeyType:    "i64",
		LowerBound: bound,
		UpperBound: bound,
		Limit:      1,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.ErrSecurityNotFound
	}

	var row models.SecurityRow
	if err := json.Unmarshal(rows[0], &row); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrLedger, err)
	}
	if uint64(row.Key) != securityID {
		return nil, apperrors.ErrSecurityNotFound
	}

	price, err := row.ToPrice()
	if err != nil {
		return nil, err
	}
	return &price, nil
}

// GetPrices looks up every id independently. Results follow the input order
// and a failing id never fails the batch.
func (s *securityService) GetPrices(ctx context.Context, securityIDs []uint64) []PriceResult {
	results := make([]PriceResult, len(securityIDs))

	var g errgroup.Group
	g.SetLimit(priceLookupConcurrency)
	for i, id := range securityIDs {
		i, id := i, id
		g.Go(func() error {
			price, err := s.getPrice(ctx, id)
			if err != nil {
				logger.Get().Warnw("price lookup failed", "security_id", id, "error", err)
			}
			results[i] = PriceResult{SecurityID: id, Price: price, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// SecurityTypes returns the static security type registry.
func (s *securityService) SecurityTypes() []models.SecurityTypeInfo {
	return models.SecurityTypes()
}
