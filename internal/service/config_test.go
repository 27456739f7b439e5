package service_test

import (
	"testing"

	"github.com/saadjs/serenitree-cli/internal/service"
)

func TestConfigSetGetUnset(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	if err := service.SetConfig(db, "API_URL", "https://api.serenitree.example/api"); err != nil {
		t.Fatalf("set api_url: %v", err)
	}
	v, ok, err := service.GetConfig(db, "api_url")
	if err != nil || !ok || v != "https://api.serenitree.example/api" {
		t.Fatalf("unexpected api_url %q ok=%v err=%v", v, ok, err)
	}
	for key, bad := range map[string]string{
		"api_url":      "ftp://x",
		"timeout":      "-3s",
		"default_plan": "weekly",
		"color":        "blue",
	} {
		if err := service.SetConfig(db, key, bad); err == nil {
			t.Fatalf("expected %s=%s to be rejected", key, bad)
		}
	}
	if err := service.SetConfig(db, "default_plan", "yearly"); err != nil {
		t.Fatalf("set default_plan: %v", err)
	}
	all, err := service.ListConfig(db)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 keys, got %v", all)
	}
	if err := service.UnsetConfig(db, "api_url"); err != nil {
		t.Fatalf("unset: %v", err)
	}
	if _, ok, _ := service.GetConfig(db, "api_url"); ok {
		t.Fatalf("expected api_url unset")
	}
}

func TestResolvePrecedence(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	if err := service.SetConfig(db, service.ConfigTimeout, "30s"); err != nil {
		t.Fatalf("set timeout: %v", err)
	}
	cases := []struct {
		flag, env, want string
	}{
		{"5s", "10s", "5s"},
		{"", "10s", "10s"},
		{"", "", "30s"},
	}
	for _, tc := range cases {
		got, err := service.Resolve(db, service.ConfigTimeout, tc.flag, tc.env, "15s")
		if err != nil {
			t.Fatalf("resolve: %v", err)
		}
		if got != tc.want {
			t.Fatalf("flag=%q env=%q: expected %q, got %q", tc.flag, tc.env, tc.want, got)
		}
	}
	got, err := service.Resolve(db, service.ConfigAPIURL, "", "", "http://localhost:5000/api")
	if err != nil || got != "http://localhost:5000/api" {
		t.Fatalf("expected fallback, got %q (%v)", got, err)
	}
}
