// Package launch turns the configured UI command line and the connection URI
// into the argument vector used to start the external UI process.
package launch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument is returned when an argument cannot be handed to the OS.
// Callers treat it exactly like a failed spawn.
var ErrInvalidArgument = errors.New("invalid launch argument")

// Spec describes one launch of the external UI. It is immutable once built.
type Spec struct {
	argv []string
	uri  string
}

// Executable returns the program name, resolved later through PATH lookup.
func (s Spec) Executable() string {
	if len(s.argv) == 0 {
		return ""
	}
	return s.argv[0]
}

// URI returns the positional connection argument, always last in Argv.
func (s Spec) URI() string { return s.uri }

// Args returns a copy of the arguments following the executable.
func (s Spec) Args() []string {
	if len(s.argv) < 2 {
		return nil
	}
	return append([]string(nil), s.argv[1:]...)
}

// Argv returns a copy of the full argument vector, executable first.
func (s Spec) Argv() []string {
	return append([]string(nil), s.argv...)
}

func (s Spec) String() string {
	return strings.Join(s.Argv(), " ")
}

// Tokenize splits command on runs of spaces and tabs. Quoting is not
// interpreted.
func Tokenize(command string) []string {
	return strings.FieldsFunc(command, func(r rune) bool {
		return r == ' ' || r == '\t'
	})
}

// BuildArgv returns [token1, ..., tokenN, extra]. An empty command yields a
// vector holding only extra.
func BuildArgv(command, extra string) ([]string, error) {
	tokens := Tokenize(command)
	argv := make([]string, 0, len(tokens)+1)
	argv = append(argv, tokens...)
	argv = append(argv, extra)

	for i, arg := range argv {
		if strings.IndexByte(arg, 0) >= 0 {
			return nil, fmt.Errorf("%w: argument %d contains a NUL byte", ErrInvalidArgument, i)
		}
	}
	return argv, nil
}

// NewSpec builds the launch description for command with uri appended.
func NewSpec(command, uri string) (Spec, error) {
	argv, err := BuildArgv(command, uri)
	if err != nil {
		return Spec{}, err
	}
	if argv[0] == "" {
		return Spec{}, fmt.Errorf("%w: empty executable", ErrInvalidArgument)
	}

	return Spec{argv: argv, uri: uri}, nil
}

// OSCURI returns the address the external UI connects back to.
func OSCURI(port uint16) string {
	return fmt.Sprintf("osc.udp://localhost:%d", port)
}
