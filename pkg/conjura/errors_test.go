package conjura

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorMessageCarriesCallSite(t *testing.T) {
	cause := errors.New("bad")
	e := &Error{Code: CodeInvalidPayload, Message: "Payload is not JSON serializable", CallSite: "orders.create", Cause: cause}

	if got := e.Error(); got != "[orders.create] INVALID_PAYLOAD: Payload is not JSON serializable (bad)" {
		t.Fatalf("unexpected message %q", got)
	}
	if !errors.Is(e, cause) {
		t.Fatalf("expected cause to be unwrapped")
	}
	if errors.Is(e, &Error{Code: CodeInvalidURL}) {
		t.Fatalf("different codes must not match")
	}
}

func TestHandleEnvelopeError(t *testing.T) {
	single := HandleEnvelopeError(&EnvelopeError{Errors: []ErrorDescriptor{{Code: "X", Message: "m", Status: 400}}}, "site")
	var be *BackendError
	if !errors.As(single, &be) || be.Code != "X" || be.CallSite != "site" {
		t.Fatalf("unexpected single error %v", single)
	}

	multi := HandleEnvelopeError(&EnvelopeError{Multiple: true, Errors: []ErrorDescriptor{
		{Code: "A", Message: "a", Status: 422},
		{Code: "B", Message: "b", Status: 422},
	}}, "site")
	if !strings.Contains(multi.Error(), "A: a") || !strings.Contains(multi.Error(), "B: b") {
		t.Fatalf("multi error message should list every entry: %q", multi.Error())
	}

	if err := HandleEnvelopeError(nil, "site"); !errors.Is(err, &Error{Code: CodeInvalidStructure}) {
		t.Fatalf("expected structural error for nil envelope, got %v", err)
	}
	if err := HandleEnvelopeError(&EnvelopeError{}, "site"); !errors.Is(err, &Error{Code: CodeInvalidStructure}) {
		t.Fatalf("expected structural error for empty envelope, got %v", err)
	}
}

func TestHTTPCode(t *testing.T) {
	if HTTPCode(503) != "HTTP_503" {
		t.Fatalf("unexpected code %s", HTTPCode(503))
	}
}
