package repository_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/JaimeStill/agent-instances/pkg/repository"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("duplicate")
)

func TestMapError(t *testing.T) {
	other := errors.New("connection reset")
	otherPg := &pgconn.PgError{Code: "23503"}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, errNotFound},
		{"wrapped no rows", fmt.Errorf("query: %w", sql.ErrNoRows), errNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, errDuplicate},
		{"wrapped unique violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), errDuplicate},
		{"other pg error", otherPg, otherPg},
		{"other error", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := repository.MapError(tt.err, errNotFound, errDuplicate); got != tt.want {
				t.Errorf("MapError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsDuplicate(t *testing.T) {
	if !repository.IsDuplicate(&pgconn.PgError{Code: "23505"}) {
		t.Error("IsDuplicate(23505) = false, want true")
	}
	if repository.IsDuplicate(errors.New("23505")) {
		t.Error("IsDuplicate(plain error) = true, want false")
	}
}

func TestJSONMap_ScanValue(t *testing.T) {
	tests := []struct {
		name string
		src  any
		want int
	}{
		{"bytes", []byte(`{"a":1,"b":"x"}`), 2},
		{"string", `{"a":1}`, 1},
		{"null column", nil, 0},
		{"json null", []byte(`null`), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m repository.JSONMap
			if err := m.Scan(tt.src); err != nil {
				t.Fatalf("Scan() error = %v", err)
			}
			if m == nil {
				t.Fatal("Scan() left map nil")
			}
			if len(m) != tt.want {
				t.Errorf("len = %d, want %d", len(m), tt.want)
			}
		})
	}

	var m repository.JSONMap
	if err := m.Scan(42); err == nil {
		t.Error("Scan(int) should fail")
	}

	v, err := repository.JSONMap(nil).Value()
	if err != nil || v != "{}" {
		t.Errorf("Value() = %v, %v, want {}", v, err)
	}
}
