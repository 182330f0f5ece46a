package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/trellisflow/trellis-go/client/internal/types"
)

func TestLogin_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("unexpected Content-Type: %s", ct)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.PostFormValue("username") != "alice" || r.PostFormValue("password") != "pw" {
			t.Errorf("unexpected form values: %v", r.PostForm)
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(types.Token{AccessToken: "at", RefreshToken: "rt", TokenType: "bearer"})
	}))
	defer srv.Close()
	got, err := Login(context.Background(), srv.Client(), srv.URL, "alice", "pw")
	if err != nil || got == nil || got.AccessToken != "at" {
		t.Fatalf("Login unexpected: got=%+v err=%v", got, err)
	}
}

// Rejected credentials are an ordinary state: non-200 yields (nil, nil).
func TestLogin_RejectedYieldsNil(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()
	got, err := Login(context.Background(), srv.Client(), srv.URL, "alice", "wrong")
	if err != nil || got != nil {
		t.Fatalf("expected (nil, nil) for rejected login: got=%+v err=%v", got, err)
	}
}

func TestAutoLogin_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/v1/auto_login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(types.Token{AccessToken: "at"})
	}))
	defer srv.Close()
	got, err := AutoLogin(context.Background(), srv.Client(), srv.URL)
	if err != nil || got == nil || got.AccessToken != "at" {
		t.Fatalf("AutoLogin unexpected: got=%+v err=%v", got, err)
	}
}

func TestAutoLogin_DisabledYieldsNil(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()
	got, err := AutoLogin(context.Background(), srv.Client(), srv.URL)
	if err != nil || got != nil {
		t.Fatalf("expected (nil, nil) when auto login is refused: got=%+v err=%v", got, err)
	}
}

func TestRenewToken_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/refresh" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.URL.Query().Get("token"); got != "old token" {
			t.Errorf("token not query-escaped round trip: %q", got)
		}
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(types.Token{AccessToken: "fresh"})
	}))
	defer srv.Close()
	got, err := RenewToken(context.Background(), srv.Client(), srv.URL, "old token")
	if err != nil || got == nil || got.AccessToken != "fresh" {
		t.Fatalf("RenewToken unexpected: got=%+v err=%v", got, err)
	}
}

// An empty token must not produce a request at all.
func TestRenewToken_EmptyTokenNoRequest(t *testing.T) {
	t.Parallel()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()
	got, err := RenewToken(context.Background(), srv.Client(), srv.URL, "")
	if err != nil || got != nil {
		t.Fatalf("expected (nil, nil) for empty token: got=%+v err=%v", got, err)
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Fatalf("expected no request, server saw %d", hits)
	}
}

// RenewToken asserts no status; a non-200 with a token body still decodes.
func TestRenewToken_DecodesRegardlessOfStatus(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(types.Token{AccessToken: "anyway"})
	}))
	defer srv.Close()
	got, err := RenewToken(context.Background(), srv.Client(), srv.URL, "rt")
	if err != nil || got == nil || got.AccessToken != "anyway" {
		t.Fatalf("RenewToken unexpected: got=%+v err=%v", got, err)
	}
}

func TestAuth_HTTPDoError(t *testing.T) {
	t.Parallel()
	hc := &http.Client{Transport: &errRT{}}
	if _, err := Login(context.Background(), hc, "http://example.com", "u", "p"); err == nil {
		t.Fatal("expected Do error for Login")
	}
	if _, err := AutoLogin(context.Background(), hc, "http://example.com"); err == nil {
		t.Fatal("expected Do error for AutoLogin")
	}
	if _, err := RenewToken(context.Background(), hc, "http://example.com", "rt"); err == nil {
		t.Fatal("expected Do error for RenewToken")
	}
}

func TestLogin_CtxCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	dummy := httptest.NewServer(http.NotFoundHandler())
	defer dummy.Close()
	if _, err := Login(ctx, dummy.Client(), dummy.URL, "u", "p"); err == nil {
		t.Fatal("expected context canceled for Login")
	}
}
