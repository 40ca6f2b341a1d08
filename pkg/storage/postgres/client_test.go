package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"schwabstream/pkg/storage/postgres"
)

// testClient connects to the database named by SCHWABSTREAM_TEST_POSTGRES_DSN, or skips.
func testClient(t *testing.T) *postgres.PostgresClient {
	t.Helper()
	dsn := os.Getenv("SCHWABSTREAM_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SCHWABSTREAM_TEST_POSTGRES_DSN not set")
	}

	client, err := postgres.NewClient(dsn)
	if err != nil {
		t.Fatalf("failed to create Postgres client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if !client.IsHealthy(ctx) {
		t.Fatal("expected healthy DB connection")
	}
	if err := client.AutoMigrate(); err != nil {
		t.Fatalf("auto migration failed: %v", err)
	}
	return client
}

// go test -v --run ^TestPostgresInvalidDSN$
func TestPostgresInvalidDSN(t *testing.T) {
	invalidDSN := "host=invalid port=5432 user=fail password=fail dbname=fail sslmode=disable connect_timeout=1"

	_, err := postgres.NewClient(invalidDSN)
	if err == nil {
		t.Fatal("expected error for invalid DSN, got nil")
	}
}
