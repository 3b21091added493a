package launch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    []string
	}{
		{"empty", "", []string{}},
		{"blanks only", " \t  ", []string{}},
		{"single", "zynaddsubfx-ext-gui", []string{"zynaddsubfx-ext-gui"}},
		{"runs of separators", "  cmd\t/c \t  gui  ", []string{"cmd", "/c", "gui"}},
		{"newline is not a separator", "a\nb c", []string{"a\nb", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.command)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildArgv_AppendsExtraLast(t *testing.T) {
	argv, err := BuildArgv("cmd /c zynaddsubfx-ext-gui", "osc.udp://localhost:9000")
	require.NoError(t, err)
	assert.Equal(t, []string{"cmd", "/c", "zynaddsubfx-ext-gui", "osc.udp://localhost:9000"}, argv)
}

func TestBuildArgv_EmptyCommandYieldsOnlyExtra(t *testing.T) {
	argv, err := BuildArgv("", "osc.udp://localhost:1")
	require.NoError(t, err)
	assert.Equal(t, []string{"osc.udp://localhost:1"}, argv)
}

func TestBuildArgv_RejectsNUL(t *testing.T) {
	_, err := BuildArgv("gui", "bad\x00uri")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = BuildArgv("g\x00ui", "uri")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewSpec(t *testing.T) {
	spec, err := NewSpec("zynaddsubfx-ext-gui --verbose", OSCURI(9000))
	require.NoError(t, err)

	assert.Equal(t, "zynaddsubfx-ext-gui", spec.Executable())
	assert.Equal(t, []string{"--verbose", "osc.udp://localhost:9000"}, spec.Args())
	assert.Equal(t, "osc.udp://localhost:9000", spec.URI())
	assert.Equal(t, "zynaddsubfx-ext-gui --verbose osc.udp://localhost:9000", spec.String())
}

func TestNewSpec_IsImmutable(t *testing.T) {
	spec, err := NewSpec("gui a", "uri")
	require.NoError(t, err)

	argv := spec.Argv()
	argv[0] = "other"
	args := spec.Args()
	args[0] = "changed"

	assert.Equal(t, []string{"gui", "a", "uri"}, spec.Argv())
}

func TestNewSpec_EmptyCommandUsesURIAsProgram(t *testing.T) {
	spec, err := NewSpec("", "/usr/bin/gui")
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/gui", spec.Executable())
	assert.Empty(t, spec.Args())
}

func TestNewSpec_EmptyExecutable(t *testing.T) {
	_, err := NewSpec("", "")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestOSCURI(t *testing.T) {
	assert.Equal(t, "osc.udp://localhost:0", OSCURI(0))
	assert.Equal(t, "osc.udp://localhost:65535", OSCURI(65535))
}
