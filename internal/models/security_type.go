package models

import (
	"fmt"

	apperrors "eosoracle/internal/errors"
)

// SecurityType classifies a security. It is stored on the ledger as a small
// integer index and exposed by the API as its string key.
type SecurityType string

const (
	SecurityTypeSpotCryptos SecurityType = "spot_cryptos"
	SecurityTypeForex       SecurityType = "forex"
	SecurityTypeEquity      SecurityType = "equity"
	SecurityTypeIndex       SecurityType = "index"
)

// SecurityTypeInfo is one entry of the security type registry.
type SecurityTypeInfo struct {
	Type        SecurityType
	Description string
	Index       uint64
}

// securityTypes is the closed registry, in presentation order.
var securityTypes = [...]SecurityTypeInfo{
	{Type: SecurityTypeSpotCryptos, Description: "Spot Cryptos", Index: 0},
	{Type: SecurityTypeForex, Description: "Forex", Index: 1},
	{Type: SecurityTypeEquity, Description: "Equity", Index: 2},
	{Type: SecurityTypeIndex, Description: "Index", Index: 3},
}

// SecurityTypes returns the registry entries in presentation order.
func SecurityTypes() []SecurityTypeInfo {
	out := make([]SecurityTypeInfo, len(securityTypes))
	copy(out, securityTypes[:])
	return out
}

// Index returns the ledger index of the security type.
func (t SecurityType) Index() (uint64, error) {
	for _, info := range securityTypes {
		if info.Type == t {
			return info.Index, nil
		}
	}
	return 0, apperrors.WithMessage(apperrors.ErrUnknownSecurityType,
		fmt.Sprintf("Unknown security type %q", string(t)))
}

// IsValid reports whether t is a registered security type.
func (t SecurityType) IsValid() bool {
	_, err := t.Index()
	return err == nil
}

// SecurityTypeFromIndex maps a ledger index back to its security type.
func SecurityTypeFromIndex(index uint64) (SecurityType, error) {
	for _, info := range securityTypes {
		if info.Index == index {
			return info.Type, nil
		}
	}
	return "", apperrors.WithMessage(apperrors.ErrUnknownSecurityType,
		fmt.Sprintf("Security Type not found for index %d", index))
}
