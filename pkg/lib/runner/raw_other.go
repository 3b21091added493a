//go:build !unix

package runner

func newRawRunner(...Option) (Supervisor, error) {
	return nil, ErrBackendUnsupported
}
