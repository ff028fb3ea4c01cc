package database

import (
	"strings"
	"testing"
)

func TestDialectSQLite(t *testing.T) {
	dialect := NewSQLiteDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "sqlite3"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "sqlite"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})

	t.Run("UpsertKV", func(t *testing.T) {
		result := dialect.UpsertKV("game")
		expected := "INSERT OR REPLACE INTO game (key, value) VALUES (?, ?)"
		if result != expected {
			t.Errorf("UpsertKV() = %v, want %v", result, expected)
		}
	})
}

func TestDialectPostgreSQL(t *testing.T) {
	dialect := NewPostgresDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "postgres"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "postgres"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})

	t.Run("UpsertKV", func(t *testing.T) {
		result := dialect.RewriteQuery(dialect.UpsertKV("game"))
		if !strings.Contains(result, "ON CONFLICT (key) DO UPDATE") {
			t.Errorf("UpsertKV() should use ON CONFLICT, got %v", result)
		}
		if !strings.Contains(result, "($1, $2)") {
			t.Errorf("UpsertKV() placeholders should be numbered after rewrite, got %v", result)
		}
	})
}

func TestDialectMySQL(t *testing.T) {
	dialect := NewMySQLDialect()

	t.Run("DriverName", func(t *testing.T) {
		result := dialect.DriverName()
		expected := "mysql"
		if result != expected {
			t.Errorf("DriverName() = %v, want %v", result, expected)
		}
	})

	t.Run("MigrationsSubdir", func(t *testing.T) {
		result := dialect.MigrationsSubdir()
		expected := "mysql"
		if result != expected {
			t.Errorf("MigrationsSubdir() = %v, want %v", result, expected)
		}
	})

	t.Run("UpsertKV", func(t *testing.T) {
		result := dialect.UpsertKV("game")
		if !strings.Contains(result, "ON DUPLICATE KEY UPDATE") {
			t.Errorf("UpsertKV() should use ON DUPLICATE KEY UPDATE, got %v", result)
		}
		if !strings.Contains(result, "`key`") {
			t.Errorf("UpsertKV() should quote the key column, got %v", result)
		}
	})
}

func TestRewriteQuery(t *testing.T) {
	tests := []struct {
		name     string
		dialect  Dialect
		query    string
		expected string
	}{
		{
			name:     "SQLite no change",
			dialect:  NewSQLiteDialect(),
			query:    "SELECT value FROM game WHERE key = ?",
			expected: "SELECT value FROM game WHERE key = ?",
		},
		{
			name:     "PostgreSQL single placeholder",
			dialect:  NewPostgresDialect(),
			query:    "SELECT value FROM game WHERE key = ?",
			expected: "SELECT value FROM game WHERE key = $1",
		},
		{
			name:     "PostgreSQL multiple placeholders",
			dialect:  NewPostgresDialect(),
			query:    "INSERT INTO words (id, word, hint) VALUES (?, ?, ?)",
			expected: "INSERT INTO words (id, word, hint) VALUES ($1, $2, $3)",
		},
		{
			name:     "MySQL no change",
			dialect:  NewMySQLDialect(),
			query:    "DELETE FROM messages_to_delete WHERE chat_id = ? AND message_id = ?",
			expected: "DELETE FROM messages_to_delete WHERE chat_id = ? AND message_id = ?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.dialect.RewriteQuery(tt.query)
			if result != tt.expected {
				t.Errorf("RewriteQuery() = %v, want %v", result, tt.expected)
			}
		})
	}
}
