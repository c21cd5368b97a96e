package db

import (
	"testing"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeDSN(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
	}{
		{"bare dsn", "user:pw@tcp(localhost:3306)/saleboard"},
		{"existing params survive", "user:pw@tcp(localhost:3306)/saleboard?charset=utf8mb4&parseTime=True&loc=Local"},
		{"already set", "user:pw@tcp(localhost:3306)/saleboard?clientFoundRows=true"},
		{"explicitly disabled gets overridden", "user:pw@tcp(localhost:3306)/saleboard?clientFoundRows=false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := normalizeDSN(tt.dsn)
			assert.NoError(t, err)

			cfg, err := mysqldriver.ParseDSN(out)
			assert.NoError(t, err)
			assert.True(t, cfg.ClientFoundRows)
		})
	}

	t.Run("other params survive", func(t *testing.T) {
		out, err := normalizeDSN("user:pw@tcp(localhost:3306)/saleboard?charset=utf8mb4&parseTime=True&loc=Local")
		assert.NoError(t, err)

		cfg, err := mysqldriver.ParseDSN(out)
		assert.NoError(t, err)
		assert.True(t, cfg.ParseTime)
		assert.Equal(t, "saleboard", cfg.DBName)
		assert.Equal(t, "utf8mb4", cfg.Params["charset"])
	})

	t.Run("invalid dsn", func(t *testing.T) {
		_, err := normalizeDSN("not a dsn")
		assert.Error(t, err)
	})
}
