package service_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/saadjs/serenitree-cli/internal/api"
	"github.com/saadjs/serenitree-cli/internal/api/apitest"
	"github.com/saadjs/serenitree-cli/internal/db"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "serenitree.db")
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return sqldb
}

func newTestClient(t *testing.T) (*apitest.Server, *api.Client) {
	t.Helper()
	srv := apitest.New(t)
	client := api.New(api.Config{BaseURL: srv.BaseURL(), Tokens: api.NewMemoryTokens(apitest.Token)})
	return srv, client
}
