// Package ledger talks to an EOSIO chain API node: it reads contract table
// rows and submits single-action transactions signed by one operator account.
package ledger

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Config holds the immutable settings of a Gateway.
type Config struct {
	RPCURL        string
	Account       string
	PrivateKey    string // WIF ("5...") or "PVT_K1_..."; empty means read-only
	Timeout       time.Duration
	ExpireSeconds int
}

// RowQuery holds the bound and pagination parameters of a table row query.
// Zero values are omitted from the request.
type RowQuery struct {
	LowerBound    string
	UpperBound    string
	IndexPosition string
	KeyType       string
	Limit         int
	Reverse       bool
}

// TransactionReceipt is the node's answer to a successful push_transaction.
type TransactionReceipt struct {
	TransactionID string `json:"transaction_id"`
}

// Uint64 decodes an unsigned integer column that nodeos may render either as a
// JSON number or as a quoted string.
type Uint64 uint64

// UnmarshalJSON implements json.Unmarshaler.
func (u *Uint64) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(data)), `"`)
	if s == "" || s == "null" {
		*u = 0
		return nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("ledger: invalid unsigned integer %q: %w", s, err)
	}
	*u = Uint64(n)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (u Uint64) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatUint(uint64(u), 10)), nil
}
