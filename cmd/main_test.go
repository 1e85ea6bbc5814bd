package main

import (
	"flag"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// resetFlags resets the global flag.CommandLine to avoid "flag redefined" panic
func resetFlags() {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
}

// resetEnv clears env vars used by parseConfig
func resetEnv() {
	os.Clearenv()
}

func TestParseFlags_Default(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd"}
	configPath := parseFlags()
	assert.Equal(t, "config.env", configPath)
}

func TestParseFlags_Custom(t *testing.T) {
	resetFlags()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd", "-c", "custom.env"}
	configPath := parseFlags()
	assert.Equal(t, "custom.env", configPath)
}

func TestParseConfig_Defaults(t *testing.T) {
	resetEnv()

	appHost, appPort, pgHost, pgPort, pgUser, pgPassword, pgDB,
		pgMaxOpenConns, pgMaxIdleConns,
		logLevel, jwtSecret, jwtExp,
		err := parseConfig("nonexistent.env")

	assert.NoError(t, err)
	assert.Equal(t, "localhost", appHost)
	assert.Equal(t, "8080", appPort)
	assert.Equal(t, "localhost", pgHost)
	assert.Equal(t, 5432, pgPort)
	assert.Equal(t, "user", pgUser)
	assert.Equal(t, "password", pgPassword)
	assert.Equal(t, "messagely", pgDB)
	assert.Equal(t, 16, pgMaxOpenConns)
	assert.Equal(t, 8, pgMaxIdleConns)
	assert.Equal(t, "info", logLevel)
	assert.Equal(t, "my_super_secret_key", jwtSecret)
	assert.Equal(t, 0, jwtExp, "tokens carry no expiry by default")
}

func TestParseConfig_EnvOverrides(t *testing.T) {
	resetEnv()
	t.Setenv("APP_PORT", "9090")
	t.Setenv("POSTGRES_DB", "messagely_test")
	t.Setenv("JWT_SECRET_KEY", "another_secret")
	t.Setenv("JWT_EXP_SECOND", "3600")

	_, appPort, _, _, _, _, pgDB, _, _, _, jwtSecret, jwtExp, err := parseConfig("nonexistent.env")

	assert.NoError(t, err)
	assert.Equal(t, "9090", appPort)
	assert.Equal(t, "messagely_test", pgDB)
	assert.Equal(t, "another_secret", jwtSecret)
	assert.Equal(t, 3600, jwtExp)
}

func TestParseConfig_BadInt(t *testing.T) {
	resetEnv()
	t.Setenv("POSTGRES_PORT", "not-a-number")

	_, _, _, _, _, _, _, _, _, _, _, _, err := parseConfig("nonexistent.env")
	assert.Error(t, err)
}
