package testutil

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

// ErrorEnvelope is the decoded {"error":{"code","message"}} body of a failed
// request.
type ErrorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AssertErrorResponse checks that rec carries the error envelope with the
// expected HTTP status and error code, and returns the decoded error.
func AssertErrorResponse(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, wantCode string) ErrorEnvelope {
	t.Helper()

	if rec.Code != wantStatus {
		t.Errorf("expected status %d, got %d: %s", wantStatus, rec.Code, rec.Body.String())
	}

	var body struct {
		Error *ErrorEnvelope `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse error response: %v\nbody: %s", err, rec.Body.String())
	}
	if body.Error == nil {
		t.Fatalf("expected an error envelope, got %s", rec.Body.String())
	}
	if body.Error.Code != wantCode {
		t.Errorf("expected error code %q, got %q (message: %s)", wantCode, body.Error.Code, body.Error.Message)
	}
	if body.Error.Message == "" {
		t.Error("expected a non-empty error message")
	}
	return *body.Error
}

// AssertNoLedgerCalls fails the test when anything reached the ledger, which
// is what every rejected request must guarantee.
func AssertNoLedgerCalls(t *testing.T, fake *FakeLedger) {
	t.Helper()

	if n := fake.Calls(); n != 0 {
		t.Errorf("expected no ledger calls, got %d (actions: %v, queries: %d)", n, actionNames(fake.Actions()), len(fake.Queries()))
	}
}

// AssertSubmitted checks the names of the actions submitted to fake, in order.
func AssertSubmitted(t *testing.T, fake *FakeLedger, want ...string) {
	t.Helper()

	got := actionNames(fake.Actions())
	if len(got) != len(want) {
		t.Fatalf("expected actions %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("action %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func actionNames(actions []SubmittedAction) []string {
	names := make([]string, 0, len(actions))
	for _, a := range actions {
		names = append(names, a.Name)
	}
	return names
}
