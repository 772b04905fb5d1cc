package database

import (
	"errors"
	"testing"

	"github.com/technolab03/Technolab-dashboard/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	cfg := &config.MySQLConfig{
		Host:     "db.internal",
		Port:     3306,
		User:     "reader",
		Password: "s3cret",
		DB:       "technolab",
	}
	assert.Equal(t,
		"reader:s3cret@tcp(db.internal:3306)/technolab?parseTime=true&charset=utf8mb4",
		DSN(cfg))

	cfg.SSL = true
	assert.Equal(t,
		"reader:s3cret@tcp(db.internal:3306)/technolab?parseTime=true&charset=utf8mb4&tls=true",
		DSN(cfg))
}

func TestConnectError(t *testing.T) {
	underlying := errors.New("connection refused")
	err := &ConnectError{Stage: "ping", Err: underlying}

	// message carries the stage plus the driver error's type and text
	assert.Contains(t, err.Error(), "ping")
	assert.Contains(t, err.Error(), "*errors.errorString")
	assert.Contains(t, err.Error(), "connection refused")
	require.ErrorIs(t, err, underlying)
}
