package main

import "testing"

func TestMaintenanceDSN(t *testing.T) {
	tests := []struct {
		dsn, admin, target string
		wantErr            bool
	}{
		{"postgres://u:p@localhost:5432/polyfluid?sslmode=disable", "postgres://u:p@localhost:5432/postgres?sslmode=disable", "polyfluid", false},
		{"postgresql://u@db/postgres", "postgresql://u@db/postgres", "postgres", false},
		{"postgres://u@db", "postgres://u@db/postgres", "", false},
		{"host=localhost dbname=x", "", "", true},
	}
	for _, tt := range tests {
		admin, target, err := maintenanceDSN(tt.dsn)
		if (err != nil) != tt.wantErr {
			t.Errorf("maintenanceDSN(%q) err = %v", tt.dsn, err)
			continue
		}
		if admin != tt.admin || target != tt.target {
			t.Errorf("maintenanceDSN(%q) = %q, %q; want %q, %q", tt.dsn, admin, target, tt.admin, tt.target)
		}
	}
}
