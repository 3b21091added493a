package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SanjoDeundiak/extui/pkg/lib/launch"
	"github.com/SanjoDeundiak/extui/pkg/lib/runner"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "extui.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, "tls:\n  insecure: true\n")

	cfg, err := loadConfig(newViper(path))
	require.NoError(t, err)

	assert.Equal(t, defaultAddress, cfg.Address)
	assert.Equal(t, launch.DefaultCommand, cfg.UI.Command)
	assert.Equal(t, string(runner.BackendExec), cfg.UI.Backend)
	assert.Equal(t, runner.DefaultTerminateTimeout, cfg.UI.TerminateTimeout)
	assert.Equal(t, defaultIdleInterval, cfg.UI.IdleInterval)
	assert.Equal(t, "info", cfg.LogLevel)

	_, ok := cfg.oscPort()
	assert.False(t, ok)
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
address: 127.0.0.1:6000
metrics_address: 127.0.0.1:9100
log_level: debug
osc_port: 7777
tls:
  insecure: true
ui:
  command: my-gui --verbose
  descriptor: http://zynaddsubfx.sourceforge.net/ext_gui#ui2_kx
  backend: raw
  terminate_timeout: 250ms
  idle_interval: 20ms
`)

	cfg, err := loadConfig(newViper(path))
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:6000", cfg.Address)
	assert.Equal(t, "127.0.0.1:9100", cfg.MetricsAddress)
	assert.Equal(t, "my-gui --verbose", cfg.UI.Command)
	assert.Equal(t, "raw", cfg.UI.Backend)
	assert.Equal(t, 250*time.Millisecond, cfg.UI.TerminateTimeout)
	assert.Equal(t, 20*time.Millisecond, cfg.UI.IdleInterval)

	port, ok := cfg.oscPort()
	assert.True(t, ok)
	assert.Equal(t, uint16(7777), port)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "osc_port: 1000\n")
	t.Setenv("EXTUI_OSC_PORT", "2000")
	t.Setenv("EXTUI_TLS_INSECURE", "true")
	t.Setenv("EXTUI_UI_COMMAND", "env-gui")

	cfg, err := loadConfig(newViper(path))
	require.NoError(t, err)

	port, ok := cfg.oscPort()
	assert.True(t, ok)
	assert.Equal(t, uint16(2000), port)
	assert.Equal(t, "env-gui", cfg.UI.Command)
	assert.True(t, cfg.TLS.Insecure)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing tls", "address: localhost:1\n"},
		{"port range", "tls:\n  insecure: true\nosc_port: 70000\n"},
		{"descriptor", "tls:\n  insecure: true\nui:\n  descriptor: urn:nope\n"},
		{"backend", "tls:\n  insecure: true\nui:\n  backend: fork\n"},
		{"idle interval", "tls:\n  insecure: true\nui:\n  idle_interval: 0s\n"},
		{"log level", "tls:\n  insecure: true\nlog_level: loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(newViper(writeConfig(t, tt.body)))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, err := loadConfig(newViper(filepath.Join(t.TempDir(), "absent.yaml")))
	assert.Error(t, err)
}
