package testutil_test

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"

	"github.com/shopspring/decimal"

	"eosoracle/internal/errors"
	"eosoracle/internal/ledger"
	"eosoracle/internal/models"
	"eosoracle/internal/testutil"
)

func TestFakeLedger_Lifecycle(t *testing.T) {
	ctx := context.Background()
	fake := testutil.NewFakeLedger()
	testutil.AssertNoLedgerCalls(t, fake)

	_, err := fake.SubmitAction(ctx, "newsec", map[string]interface{}{
		"symbol": "BTC", "exchange_name": "binance", "quote_currency": "USDT", "security_type": uint64(0),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = fake.SubmitAction(ctx, "newprice", map[string]interface{}{
		"security_id": uint64(0), "price": "64000.5", "time_stamp": uint64(1700000000000),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	row, ok := fake.Row(0)
	if !ok {
		t.Fatal("expected row 0 to exist")
	}
	if !row.Price.Equal(decimal.RequireFromString("64000.5")) {
		t.Errorf("expected price 64000.5, got %s", row.Price)
	}
	if uint64(row.TimeStamp) != 1700000000000 {
		t.Errorf("expected time stamp to be recorded, got %d", row.TimeStamp)
	}

	_, err = fake.SubmitAction(ctx, "erase", map[string]interface{}{"security_id": uint64(0)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := fake.Row(0); ok {
		t.Error("expected row 0 to be erased")
	}

	_, err = fake.SubmitAction(ctx, "erase", map[string]interface{}{"security_id": uint64(0)})
	if !stderrors.Is(err, errors.ErrLedger) {
		t.Errorf("expected LEDGER_ERROR for a missing security, got %v", err)
	}

	testutil.AssertSubmitted(t, fake, "newsec", "newprice", "erase", "erase")
}

func TestFakeLedger_QueryRows(t *testing.T) {
	ctx := context.Background()
	fake := testutil.NewFakeLedger()
	fake.Seed(models.SecurityRow{Key: 1, Symbol: "BTC", SecurityType: 0})
	fake.Seed(models.SecurityRow{Key: 2, Symbol: "EURUSD", SecurityType: 1})
	fake.Seed(models.SecurityRow{Key: 3, Symbol: "ETH", SecurityType: 0})

	decodeSymbols := func(rows []json.RawMessage) []string {
		t.Helper()
		var out []string
		for _, raw := range rows {
			var row models.SecurityRow
			if err := json.Unmarshal(raw, &row); err != nil {
				t.Fatalf("decode row: %v", err)
			}
			out = append(out, row.Symbol)
		}
		return out
	}

	tests := []struct {
		name  string
		query ledger.RowQuery
		want  []string
	}{
		{"all", ledger.RowQuery{Limit: 10}, []string{"BTC", "EURUSD", "ETH"}},
		{"newest", ledger.RowQuery{Limit: 1, Reverse: true}, []string{"ETH"}},
		{"by_key", ledger.RowQuery{LowerBound: "2", UpperBound: "2", Limit: 1}, []string{"EURUSD"}},
		{"by_type", ledger.RowQuery{IndexPosition: "2", LowerBound: "0", UpperBound: "0", Limit: 10}, []string{"BTC", "ETH"}},
		{"missing_key", ledger.RowQuery{LowerBound: "9", UpperBound: "9", Limit: 1}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rows, err := fake.QueryRows(ctx, models.SecuritiesTable, tc.query)
			if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

			got := decodeSymbols(rows)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("row %d: expected %s, got %s", i, tc.want[i], got[i])
				}
			}
		})
	}
}
