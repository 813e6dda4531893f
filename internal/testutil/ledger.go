// Package testutil provides test helpers: an in-memory ledger emulating the
// oracle contract, and assertions on application errors.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	apperrors "eosoracle/internal/errors"
	"eosoracle/internal/ledger"
	"eosoracle/internal/models"
)

// SubmittedAction records one SubmitAction call.
type SubmittedAction struct {
	Name string
	Data map[string]interface{}
}

// RowsQuery records one QueryRows call.
type RowsQuery struct {
	Table string
	Query ledger.RowQuery
}

// FakeLedger emulates the securities table of the oracle contract in memory.
// It applies newsec, erase and newprice the way the contract does and answers
// row queries by primary key or by the type index.
type FakeLedger struct {
	AccountName string

	// SubmitErr and QueryErr, when set, fail every call of that kind.
	SubmitErr error
	QueryErr  error

	// AfterSubmit runs after a successful submission, with the lock released.
	AfterSubmit func(action string)

	mu      sync.Mutex
	rows    []models.SecurityRow
	nextKey uint64
	txCount int
	actions []SubmittedAction
	queries []RowsQuery
}

// NewFakeLedger returns an empty ledger operated by "oracleacct".
func NewFakeLedger() *FakeLedger {
	return &FakeLedger{AccountName: "oracleacct"}
}

// Account returns the operator account.
func (f *FakeLedger) Account() string { return f.AccountName }

// Seed inserts a row as-is, assigning the next key when row.Key is zero.
func (f *FakeLedger) Seed(row models.SecurityRow) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	if row.Key == 0 {
		row.Key = ledger.Uint64(f.nextKey)
	}
	if uint64(row.Key) >= f.nextKey {
		f.nextKey = uint64(row.Key) + 1
	}
	f.rows = append(f.rows, row)
	sort.Slice(f.rows, func(i, j int) bool { return f.rows[i].Key < f.rows[j].Key })
	return uint64(row.Key)
}

// Row returns the stored row with the given key.
func (f *FakeLedger) Row(key uint64) (models.SecurityRow, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.find(key)
	if i < 0 {
		return models.SecurityRow{}, false
	}
	return f.rows[i], true
}

// Actions returns the submitted actions in call order.
func (f *FakeLedger) Actions() []SubmittedAction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]SubmittedAction(nil), f.actions...)
}

// Queries returns the row queries in call order.
func (f *FakeLedger) Queries() []RowsQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RowsQuery(nil), f.queries...)
}

// Calls returns the total number of ledger calls made.
func (f *FakeLedger) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.actions) + len(f.queries)
}

// SubmitAction applies the action to the in-memory table.
func (f *FakeLedger) SubmitAction(_ context.Context, action string, data map[string]interface{}) (*ledger.TransactionReceipt, error) {
	receipt, err := f.submit(action, data)
	if err != nil {
		return nil, err
	}
	if f.AfterSubmit != nil {
		f.AfterSubmit(action)
	}
	return receipt, nil
}

func (f *FakeLedger) submit(action string, data map[string]interface{}) (*ledger.TransactionReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.actions = append(f.actions, SubmittedAction{Name: action, Data: data})
	if f.SubmitErr != nil {
		return nil, f.SubmitErr
	}

	switch action {
	case "newsec":
		f.rows = append(f.rows, models.SecurityRow{
			Key:           ledger.Uint64(f.nextKey),
			Symbol:        fmt.Sprint(data["symbol"]),
			ExchangeName:  fmt.Sprint(data["exchange_name"]),
			QuoteCurrency: fmt.Sprint(data["quote_currency"]),
			SecurityType:  ledger.Uint64(asUint64(data["security_type"])),
			Price:         decimal.Zero,
		})
		f.nextKey++
	case "erase":
		i := f.find(asUint64(data["security_id"]))
		if i < 0 {
			return nil, assertionFailure("security not found")
		}
		f.rows = append(f.rows[:i], f.rows[i+1:]...)
	case "newprice":
		i := f.find(asUint64(data["security_id"]))
		if i < 0 {
			return nil, assertionFailure("security not found")
		}
		price, err := decimal.NewFromString(fmt.Sprint(data["price"]))
		if err != nil {
			return nil, assertionFailure("invalid price")
		}
		f.rows[i].Price = price
		f.rows[i].TimeStamp = ledger.Uint64(asUint64(data["time_stamp"]))
	default:
		return nil, assertionFailure("unknown action " + action)
	}

	f.txCount++
	return &ledger.TransactionReceipt{TransactionID: fmt.Sprintf("tx%04d", f.txCount)}, nil
}

// QueryRows answers a row query against the in-memory table.
func (f *FakeLedger) QueryRows(_ context.Context, table string, q ledger.RowQuery) ([]json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queries = append(f.queries, RowsQuery{Table: table, Query: q})
	if f.QueryErr != nil {
		return nil, f.QueryErr
	}
	if table != models.SecuritiesTable {
		return nil, apperrors.WithMessage(apperrors.ErrLedger, "unknown table "+table)
	}

	lower, upper := bound(q.LowerBound, 0), bound(q.UpperBound, ^uint64(0))

	var matched []models.SecurityRow
	for _, row := range f.rows {
		value := uint64(row.Key)
		if q.IndexPosition == "2" {
			value = uint64(row.SecurityType)
		}
		if value >= lower && value <= upper {
			matched = append(matched, row)
		}
	}
	if q.IndexPosition == "2" {
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].SecurityType < matched[j].SecurityType })
	}
	if q.Reverse {
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	out := make([]json.RawMessage, 0, len(matched))
	for _, row := range matched {
		raw, err := json.Marshal(row)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

func (f *FakeLedger) find(key uint64) int {
	for i, row := range f.rows {
		if uint64(row.Key) == key {
			return i
		}
	}
	return -1
}

func assertionFailure(message string) error {
	return apperrors.WithMessage(apperrors.ErrLedger, "assertion failure with message: "+message)
}

func bound(s string, fallback uint64) uint64 {
	if s == "" {
		return fallback
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func asUint64(v interface{}) uint64 {
	switch n := v.(type) {
	case uint64:
		return n
	case int:
		return uint64(n)
	case int64:
		return uint64(n)
	case float64:
		return uint64(n)
	case string:
		u, _ := strconv.ParseUint(n, 10, 64)
		return u
	default:
		return 0
	}
}
