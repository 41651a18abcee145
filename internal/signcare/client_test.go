package signcare

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(url string) *ClientImpl {
	return &ClientImpl{
		BaseURL:    url,
		APIKey:     "test-key",
		AppID:      "test-app",
		HttpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestCreateRequestSendsCredentials(t *testing.T) {
	var gotKey, gotApp string
	var gotInput CreateRequestInput

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-KEY")
		gotApp = r.Header.Get("X-API-APP-ID")
		_ = json.NewDecoder(r.Body).Decode(&gotInput)

		_, _ = w.Write([]byte(`{"success":true,"data":{"documentId":"doc-1"}}`))
	}))
	defer srv.Close()

	input := CreateRequestInput{
		ReferenceId:       "SF-2026-00001",
		SequentialSigning: true,
		UserInfo: []UserInfo{
			{UserType: "Reviewer", Order: 1},
			{UserType: "Signer", Order: 2},
		},
	}
	out, err := newTestClient(srv.URL).CreateRequest(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateRequest: %v", err)
	}
	if out.Data.DocumentId != "doc-1" {
		t.Errorf("expected document id doc-1, got %q", out.Data.DocumentId)
	}
	if gotKey != "test-key" || gotApp != "test-app" {
		t.Errorf("credential headers missing: key=%q app=%q", gotKey, gotApp)
	}
	if gotInput.ReferenceId != "SF-2026-00001" || !gotInput.SequentialSigning {
		t.Errorf("request body mangled: %+v", gotInput)
	}
}

func TestCreateRequestRejectedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"invalid document"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CreateRequest(context.Background(), CreateRequestInput{})
	if !errors.Is(err, ErrProvider) {
		t.Errorf("expected ErrProvider, got %v", err)
	}
}

func TestCreateRequestIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).CreateRequest(context.Background(), CreateRequestInput{})
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("create must hit the provider exactly once, got %d", n)
	}
}

func TestGetStatusRetriesTransientFailure(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "upstream timeout", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"success":true,"data":{"documentStatus":"Pending","signerInfo":[{"signerRefId":"u1","signerStatus":"Pending"}]}}`))
	}))
	defer srv.Close()

	out, err := newTestClient(srv.URL).GetStatus(context.Background(), StatusInput{DocumentId: "doc-1"})
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if out.Data.DocumentStatus != DocumentStatusPending {
		t.Errorf("unexpected status %q", out.Data.DocumentStatus)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("expected 3 attempts, got %d", n)
	}
}

func TestGetStatusGivesUpAfterThreeAttempts(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetStatus(context.Background(), StatusInput{DocumentId: "doc-1"})
	if !errors.Is(err, ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", n)
	}
}

func TestGetStatusHonorsContextDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := newTestClient(srv.URL).GetStatus(ctx, StatusInput{DocumentId: "doc-1"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error, got %v", err)
	}
}
