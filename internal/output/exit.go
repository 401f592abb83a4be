package output

// ExitError carries a process exit code out of a command. When Reported is
// set the command has already printed the failure.
type ExitError struct {
	Code     int
	Err      error
	Reported bool
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }
