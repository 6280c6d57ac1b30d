package client

import (
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/garnizeh/jobboard/pkg/repository"
)

type testTransport struct{ called int32 }

func (t *testTransport) RoundTrip(req *http.Request) (*http.Response, error) { panic("not used") }
func (t *testTransport) CloseIdleConnections()                               { atomic.StoreInt32(&t.called, 1) }

func TestClient_Close_IdempotentAndCallsTransport(t *testing.T) {
	tr := &testTransport{}
	c, err := NewClient(Config{BaseURL: "http://localhost:8080", Timeout: 1}, &http.Client{Transport: tr})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if atomic.LoadInt32(&tr.called) != 1 {
		t.Fatalf("expected CloseIdleConnections called once")
	}

	// second call should be a no-op
	if err := c.Close(); err != nil {
		t.Fatalf("Close second call error: %v", err)
	}
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	if _, err := NewClient(Config{BaseURL: "not a url"}, nil); err == nil {
		t.Fatalf("expected error for invalid base url")
	}
}

func TestAPIError_Unwrap(t *testing.T) {
	notFound := &APIError{StatusCode: http.StatusNotFound, Message: "not found"}
	if !errors.Is(notFound, repository.ErrNotFound) {
		t.Fatalf("404 should unwrap to ErrNotFound")
	}

	conflict := &APIError{StatusCode: http.StatusBadRequest, Message: "conflict: column still holds applications"}
	if !errors.Is(conflict, repository.ErrConflict) {
		t.Fatalf("conflict message should unwrap to ErrConflict")
	}

	invalid := &APIError{StatusCode: http.StatusBadRequest, Message: "company: is required", Field: "company"}
	var ve *repository.ValidationError
	if !errors.As(invalid, &ve) || ve.Field != "company" || ve.Message != "is required" {
		t.Fatalf("unexpected validation error: %+v", ve)
	}

	if (&APIError{StatusCode: http.StatusInternalServerError}).Unwrap() != nil {
		t.Fatalf("500 should not unwrap")
	}
}
