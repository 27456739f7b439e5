package db_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/saadjs/serenitree-cli/internal/db"
)

func TestApplyMigrationsIdempotent(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "serenitree.db")
	sqldb, err := db.Open(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("first apply migrations: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("second apply migrations: %v", err)
	}

	var migrationCount int
	if err := sqldb.QueryRow(`SELECT COUNT(1) FROM schema_migrations`).Scan(&migrationCount); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if migrationCount != db.LatestVersion() {
		t.Fatalf("expected %d migration versions, got %d", db.LatestVersion(), migrationCount)
	}
	version, err := db.SchemaVersion(sqldb)
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if version != db.LatestVersion() {
		t.Fatalf("expected schema version %d, got %d", db.LatestVersion(), version)
	}

	for _, table := range []string{"app_config", "session", "insight_state", "chat_conversations", "chat_messages"} {
		var count int
		if err := sqldb.QueryRow(`SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&count); err != nil {
			t.Fatalf("check %s table: %v", table, err)
		}
		if count != 1 {
			t.Fatalf("expected %s table to exist", table)
		}
	}

	tables, err := db.Tables(sqldb)
	if err != nil {
		t.Fatalf("list tables: %v", err)
	}
	want := []string{"app_config", "chat_conversations", "chat_messages", "insight_state", "session"}
	if strings.Join(tables, ",") != strings.Join(want, ",") {
		t.Fatalf("expected tables %v, got %v", want, tables)
	}

	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected db file to exist: %v", err)
	}
}

func TestSessionTableHoldsSingleRow(t *testing.T) {
	t.Parallel()

	sqldb, err := db.Open(filepath.Join(t.TempDir(), "serenitree.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer sqldb.Close()
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	if _, err := sqldb.Exec(`INSERT INTO session(id, token) VALUES(1, 'a')`); err != nil {
		t.Fatalf("insert session: %v", err)
	}
	if _, err := sqldb.Exec(`INSERT INTO session(id, token) VALUES(2, 'b')`); err == nil {
		t.Fatalf("expected check constraint to reject a second session row")
	}
}

func TestChatMessagesRequireConversation(t *testing.T) {
	t.Parallel()

	sqldb, err := db.Open(filepath.Join(t.TempDir(), "serenitree.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer sqldb.Close()
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	_, err = sqldb.Exec(`INSERT INTO chat_messages(id, conversation_id, role, content, created_at) VALUES('m1', 'missing', 'user', 'hi', CURRENT_TIMESTAMP)`)
	if err == nil {
		t.Fatalf("expected foreign key failure for unknown conversation")
	}
}
