package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestCLI_ListTemplates(t *testing.T) {
	root := NewRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetArgs([]string{"list-templates"})
	if err := root.Execute(); err != nil {
		t.Fatalf("list-templates cmd failed: %v", err)
	}

	var out struct {
		Templates []string `json:"templates"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("CLI output is not valid JSON: %v", err)
	}
	want := map[string]bool{"blank": false, "basic_chat": false, "rag_pipeline": false}
	for _, name := range out.Templates {
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("template %q missing from output %v", name, out.Templates)
		}
	}
}

func TestCLI_Version(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/version" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]string{"version": "1.4.2"})
	}))
	defer srv.Close()

	root := NewRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetArgs([]string{"version", "--service-url", srv.URL, "--api-token", "secret"})
	if err := root.Execute(); err != nil {
		t.Fatalf("version cmd failed: %v", err)
	}

	if got := strings.TrimSpace(buf.String()); got != "1.4.2" {
		t.Errorf("version output = %q, want 1.4.2", got)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization = %q, want Bearer secret", gotAuth)
	}
}

func TestCLI_Health(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	root := NewRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetArgs([]string{"health", "--service-url", srv.URL})
	if err := root.Execute(); err != nil {
		t.Fatalf("health cmd failed: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "ok" {
		t.Errorf("health output = %q, want ok", got)
	}
}

func TestCLI_HealthUnhealthyFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "degraded"})
	}))
	defer srv.Close()

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"health", "--service-url", srv.URL})
	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "degraded") {
		t.Fatalf("expected unhealthy error, got %v", err)
	}
}

func TestCLI_HealthWaitRecovers(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := "starting"
		if atomic.AddInt32(&hits, 1) >= 3 {
			status = "ok"
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"status": status})
	}))
	defer srv.Close()

	root := NewRootCmd()
	buf := &bytes.Buffer{}
	root.SetOut(buf)
	root.SetArgs([]string{"health", "--wait", "--timeout", "15s", "--service-url", srv.URL})
	if err := root.Execute(); err != nil {
		t.Fatalf("health --wait failed: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "ok" {
		t.Errorf("health output = %q, want ok", got)
	}
	if n := atomic.LoadInt32(&hits); n < 3 {
		t.Errorf("backend probed %d times, want at least 3", n)
	}
}

func TestCLI_RejectsBadFlowID(t *testing.T) {
	var hit int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hit, 1)
	}))
	defer srv.Close()

	for _, args := range [][]string{
		{"get-flow", "--flow-id", "not-a-uuid"},
		{"delete-flow", "--flow-id", "also-bad"},
		{"build-status", "--flow-id", "12345"},
		{"start-build", "--flow-id", "zz"},
		{"delete-api-key", "--key-id", "nope"},
	} {
		root := NewRootCmd()
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		root.SetArgs(append(args, "--service-url", srv.URL))
		err := root.Execute()
		if err == nil || !strings.Contains(err.Error(), "must be a valid UUID") {
			t.Errorf("%v: expected UUID validation error, got %v", args, err)
		}
	}
	if n := atomic.LoadInt32(&hit); n != 0 {
		t.Errorf("backend was hit %d times before validation", n)
	}
}

func TestCLI_CreateFlowUnknownTemplate(t *testing.T) {
	var hit int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hit, 1)
	}))
	defer srv.Close()

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"create-flow", "--name", "demo", "--template", "no-such-starter", "--service-url", srv.URL})
	err := root.Execute()
	if err == nil || !strings.Contains(err.Error(), "unknown starter") {
		t.Fatalf("expected unknown starter error, got %v", err)
	}
	if n := atomic.LoadInt32(&hit); n != 0 {
		t.Errorf("backend was hit %d times for an invalid template", n)
	}
}
