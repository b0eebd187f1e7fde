package db

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestNormalizeDSNForcesParseTimeAndUTC(t *testing.T) {
	out, err := NormalizeDSN("app:secret@tcp(db:3306)/transport")
	if err != nil {
		t.Fatalf("NormalizeDSN error: %v", err)
	}
	for _, want := range []string{"parseTime=true", "clientFoundRows=true", "timeout=5s"} {
		if !strings.Contains(out, want) {
			t.Fatalf("dsn %q missing %q", out, want)
		}
	}
	if strings.Contains(out, "loc=") {
		t.Fatalf("UTC location should be the driver default, got %q", out)
	}
}

func TestNormalizeDSNRejectsGarbage(t *testing.T) {
	if _, err := NormalizeDSN("not a dsn at all"); err == nil {
		t.Fatalf("expected error for malformed dsn")
	}
}

func TestHasTable(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer conn.Close()

	mock.ExpectQuery("information_schema\\.tables").WithArgs("bookings").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow("bookings"))
	mock.ExpectQuery("information_schema\\.tables").WithArgs("invoices").
		WillReturnRows(sqlmock.NewRows([]string{"table_name"}))
	mock.ExpectQuery("information_schema\\.tables").WithArgs("invoice_items").
		WillReturnError(errors.New("bad connection"))

	ctx := context.Background()
	if !HasTable(ctx, conn, "bookings") {
		t.Fatalf("bookings should exist")
	}
	if HasTable(ctx, conn, "invoices") {
		t.Fatalf("invoices should be missing")
	}
	if HasTable(ctx, conn, "invoice_items") {
		t.Fatalf("errors should read as missing")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMigrationsAreEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrations, "migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) < 2 {
		t.Fatalf("expected at least 2 migrations, got %d", len(entries))
	}
	for _, e := range entries {
		body, err := fs.ReadFile(migrations, "migrations/"+e.Name())
		if err != nil {
			t.Fatalf("read %s: %v", e.Name(), err)
		}
		if !strings.Contains(string(body), "-- +goose Up") {
			t.Fatalf("%s lacks goose Up annotation", e.Name())
		}
	}
}

func TestNullIfEmpty(t *testing.T) {
	if NullIfEmpty("") != nil {
		t.Fatalf("empty string should map to nil")
	}
	if NullIfEmpty("x") != "x" {
		t.Fatalf("non-empty string should pass through")
	}
}
