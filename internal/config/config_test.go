package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, time.Hour, cfg.JWT.AccessExpiry)
	assert.Equal(t, 240*time.Hour, cfg.JWT.RefreshExpiry)
	assert.True(t, cfg.Cookie.Secure)
	assert.Equal(t, "lost-and-found", cfg.Media.Folder)
	assert.Equal(t, 2, cfg.Notification.Workers)
	assert.Equal(t, 15*time.Second, cfg.Notification.SendTimeout)
	assert.Equal(t, 50, cfg.RateLimit.GeneralBurst)
	assert.Empty(t, cfg.MQTT.Broker)
}

func TestLoad_EnvFileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	env := "DB_HOST=db.internal\nDB_NAME=lostfound\nACCESS_TOKEN_SECRET=access\nREFRESH_TOKEN_SECRET=refresh\nACCESS_TOKEN_EXPIRY=15m\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))
	t.Chdir(dir)
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "lostfound", cfg.Database.DBName)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiry)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: DatabaseConfig{Host: "h", DBName: "d"},
			JWT: JWTConfig{
				AccessSecret:  "a",
				AccessExpiry:  time.Hour,
				RefreshSecret: "r",
				RefreshExpiry: time.Hour,
			},
		}
	}

	require.NoError(t, valid().Validate())

	noDB := valid()
	noDB.Database.Host = ""
	assert.Error(t, noDB.Validate())

	sameSecret := valid()
	sameSecret.JWT.RefreshSecret = "a"
	assert.Error(t, sameSecret.Validate())

	noExpiry := valid()
	noExpiry.JWT.AccessExpiry = 0
	assert.Error(t, noExpiry.Validate())
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{Host: "h", Port: "5432", User: "u", Password: "p", DBName: "d", SSLMode: "disable"}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=d sslmode=disable", c.DSN())
}
