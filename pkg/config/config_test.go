package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

const minimalConfig = `
environment: test
postgres:
  host: localhost
  database: captrack
redis:
  addr: localhost:6379
`

func TestLoadAppliesDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	require.Len(t, c.Scheduler.Windows, 2)
	require.Equal(t, "morning", c.Scheduler.Windows[0].Label)
	require.Equal(t, 14, c.Scheduler.Windows[0].StartHour)
	require.Equal(t, 19, c.Scheduler.Windows[1].StartHour)
	require.Equal(t, time.Minute, c.Scheduler.PollInterval)
	require.Equal(t, 5*time.Minute, c.Scheduler.LockTTL)
	require.Equal(t, 1, c.Scheduler.Workers)
	require.Equal(t, time.Minute, c.Projection.CacheTTL)
	require.Equal(t, "disable", c.Postgres.SSLMode)
	require.Equal(t, "captrack.trades", c.Events.Topic)
}

func TestLoadCustomWindows(t *testing.T) {
	c, err := Load(writeConfig(t, minimalConfig+`
scheduler:
  poll_interval: 30s
  workers: 4
  windows:
    - label: early
      start_hour: 9
      end_label: "09:30"
    - label: noon
      start_hour: 12
      end_label: "12:30"
    - label: late
      start_hour: 21
      end_label: "21:30"
`))
	require.NoError(t, err)
	require.Len(t, c.Scheduler.Windows, 3)
	require.Equal(t, 30*time.Second, c.Scheduler.PollInterval)
	require.Equal(t, 4, c.Scheduler.Workers)
	require.Equal(t, "12:30", c.Scheduler.Windows[1].EndLabel)
}

func TestLoadRejectsDuplicateWindowHours(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+`
scheduler:
  windows:
    - label: one
      start_hour: 14
      end_label: "14:30"
    - label: two
      start_hour: 14
      end_label: "14:45"
`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "start_hour")
}

func TestLoadRejectsMissingRequired(t *testing.T) {
	for name, body := range map[string]string{
		"environment": "postgres:\n  host: h\n  database: d\nredis:\n  addr: a\n",
		"postgres":    "environment: test\nredis:\n  addr: a\n",
		"redis":       "environment: test\npostgres:\n  host: h\n  database: d\n",
	} {
		_, err := Load(writeConfig(t, body))
		require.Error(t, err, "case %s", name)
	}
}

func TestLoadRejectsEventsWithoutBrokers(t *testing.T) {
	_, err := Load(writeConfig(t, minimalConfig+`
events:
  enabled: true
`))
	require.Error(t, err)
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("REDIS_ADDR", "redis.internal:6380")
	t.Setenv("SERVER_PORT", "9090")

	c, err := LoadWithEnv(writeConfig(t, minimalConfig))
	require.NoError(t, err)
	require.Equal(t, "db.internal", c.Postgres.Host)
	require.Equal(t, "redis.internal:6380", c.Redis.Addr)
	require.Equal(t, 9090, c.Server.Port)
}
