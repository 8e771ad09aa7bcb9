package database

import "testing"

func TestCreateDatabaseStatement(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"advisor_api", `CREATE DATABASE "advisor_api"`},
		{`advisor"api`, `CREATE DATABASE "advisor""api"`},
	}
	for _, tt := range tests {
		if got := createDatabaseStatement(tt.name); got != tt.want {
			t.Errorf("createDatabaseStatement(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestConnect_EmptyDSN(t *testing.T) {
	if _, err := Connect(Config{}); err == nil {
		t.Fatal("Connect() error = nil, want error for empty DSN")
	}
}
