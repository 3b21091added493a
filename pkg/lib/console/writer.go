package console

// Write implements io.Writer so a Capture can be assigned directly to
// exec.Cmd.Stdout or Stderr. It stores a copy of p because os/exec reuses
// its copy buffer between writes.
//
// A nil receiver discards the data and reports success.
func (c *Capture) Write(p []byte) (int, error) {
	if c == nil {
		return len(p), nil
	}
	if len(p) == 0 {
		return 0, nil
	}

	c.Append(append([]byte(nil), p...))

	return len(p), nil
}
