//go:build integration
// +build integration

package client_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/trellisflow/trellis-go/client"
)

// TestFlowLifecycle covers end-to-end create, read, update, build and delete
// for a flow against a live backend.
func TestFlowLifecycle(t *testing.T) {
	baseURL := os.Getenv("TEST_BACKEND_URL")
	if baseURL == "" {
		baseURL = "http://localhost:7860"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := client.New(baseURL)
	defer c.Close()

	if _, err := c.Version(ctx); err != nil {
		t.Fatalf("Version: %v", err)
	}

	created, err := c.CreateFlow(ctx, client.Flow{
		Name:        "it-lifecycle",
		Description: "integration lifecycle flow",
		Data:        json.RawMessage(`{"nodes":[],"edges":[]}`),
	})
	if err != nil {
		t.Fatalf("CreateFlow: %v", err)
	}
	if created.ID == "" {
		t.Fatal("CreateFlow: empty flow ID")
	}
	defer func() { _ = c.DeleteFlow(context.Background(), created.ID) }()

	got, err := c.GetFlow(ctx, created.ID)
	if err != nil || got.Name != "it-lifecycle" {
		t.Fatalf("GetFlow: got=%+v err=%v", got, err)
	}

	got.Description = "updated"
	updated, err := c.UpdateFlow(ctx, *got)
	if err != nil || updated.Description != "updated" {
		t.Fatalf("UpdateFlow: updated=%+v err=%v", updated, err)
	}

	if _, err := c.StartBuild(ctx, *updated); err != nil {
		t.Fatalf("StartBuild: %v", err)
	}
	if _, err := c.BuildStatus(ctx, created.ID); err != nil {
		t.Fatalf("BuildStatus: %v", err)
	}

	flows, err := c.ListFlows(ctx)
	if err != nil {
		t.Fatalf("ListFlows: %v", err)
	}
	found := false
	for _, f := range flows {
		if f.ID == created.ID {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("created flow %s missing from listing", created.ID)
	}

	if err := c.DeleteFlow(ctx, created.ID); err != nil {
		t.Fatalf("DeleteFlow: %v", err)
	}
}

// TestSessionBootstrap exercises the auth surface against a live backend in
// whichever mode it runs: auto login when auth is off, otherwise a login with
// seeded credentials from the environment.
func TestSessionBootstrap(t *testing.T) {
	baseURL := os.Getenv("TEST_BACKEND_URL")
	if baseURL == "" {
		baseURL = "http://localhost:7860"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	c := client.New(baseURL)
	defer c.Close()

	tok, err := c.AutoLogin(ctx)
	if err != nil {
		t.Fatalf("AutoLogin: %v", err)
	}
	if tok == nil {
		user := os.Getenv("TEST_BACKEND_USER")
		pass := os.Getenv("TEST_BACKEND_PASSWORD")
		if user == "" {
			t.Skip("auth enabled and TEST_BACKEND_USER unset")
		}
		tok, err = c.Login(ctx, user, pass)
		if err != nil || tok == nil {
			t.Fatalf("Login: tok=%+v err=%v", tok, err)
		}
	}

	renewed, err := c.RenewToken(ctx, tok.RefreshToken)
	if err != nil {
		t.Fatalf("RenewToken: %v", err)
	}
	if renewed == nil && tok.RefreshToken != "" {
		t.Fatal("RenewToken returned nothing for a non-empty refresh token")
	}
}
