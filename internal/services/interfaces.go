package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"

	apperrors "eosoracle/internal/errors"
	"eosoracle/internal/ledger"
	"eosoracle/internal/models"
)

// LedgerGateway is the ledger capability the services depend on.
// *ledger.Gateway implements it; tests substitute an in-memory fake.
type LedgerGateway interface {
	Account() string
	SubmitAction(ctx context.Context, action string, data map[string]interface{}) (*ledger.TransactionReceipt, error)
	QueryRows(ctx context.Context, table string, query ledger.RowQuery) ([]json.RawMessage, error)
}

// CreateSecurityInput holds the fields of a new security.
type CreateSecurityInput struct {
	Symbol        string
	ExchangeName  string
	QuoteCurrency string
	SecurityType  string
}

// CreatedSecurity is the outcome of a successful createSecurity.
type CreatedSecurity struct {
	SecurityID  uint64
	Transaction *ledger.TransactionReceipt
}

// PriceResult is the outcome of one id of a batch price lookup: either Price
// or Err is set.
type PriceResult struct {
	SecurityID uint64
	Price      *models.Price
	Err        error
}

type priceError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	SecurityID uint64 `json:"securityId"`
}

// MarshalJSON renders the price, or an error object tagged with the id.
func (r PriceResult) MarshalJSON() ([]byte, error) {
	if r.Err == nil {
		return json.Marshal(r.Price)
	}

	pe := priceError{
		Code:       apperrors.ErrInternalServer.Code,
		Message:    apperrors.ErrInternalServer.Message,
		SecurityID: r.SecurityID,
	}
	var appErr *apperrors.AppError
	if errors.As(r.Err, &appErr) {
		pe.Code = appErr.Code
		pe.Message = appErr.Message
	}
	return json.Marshal(map[string]priceError{"error": pe})
}

// SecurityServicer defines the contract for security and price operations.
type SecurityServicer interface {
	CreateSecurity(ctx context.Context, input CreateSecurityInput) (*CreatedSecurity, error)
	EraseSecurity(ctx context.Context, securityID uint64) (*ledger.TransactionReceipt, error)
	SetPrice(ctx context.Context, securityID uint64, price decimal.Decimal) (*ledger.TransactionReceipt, error)
	ListSecurities(ctx context.Context, securityType string) ([]models.Security, error)
	GetPrices(ctx context.Context, securityIDs []uint64) []PriceResult
	SecurityTypes() []models.SecurityTypeInfo
}

// AuditServicer defines the contract for audit logging of ledger mutations.
type AuditServicer interface {
	Log(user, action string, securityID uint64, transactionID, ipAddress string, changes map[string]interface{})
}
