package writer

import (
	"fmt"
	"strings"
)

// Result classifies the outcome of a writer operation.
type Result int

const (
	// Unknown is the zero value and is never returned by a completed operation.
	Unknown Result = iota
	// Success means every requested write was applied and persisted.
	Success
	// Failure is an expected, locally handled I/O problem such as a document
	// that cannot be opened or parsed.
	Failure
	// Exception is an error raised while mutating or persisting the document,
	// including values that do not parse as their declared kind.
	Exception
	// ParamError is invalid caller input detected before any I/O.
	ParamError
	// AccessError is reserved.
	AccessError
	// Canceled is reserved.
	Canceled
)

var resultNames = [...]string{
	Unknown:     "unknown",
	Success:     "success",
	Failure:     "failure",
	Exception:   "exception",
	ParamError:  "param_error",
	AccessError: "access_error",
	Canceled:    "canceled",
}

func (r Result) String() string {
	if r < 0 || int(r) >= len(resultNames) {
		return fmt.Sprintf("result(%d)", int(r))
	}
	return resultNames[r]
}

// MarshalText encodes the result by name.
func (r Result) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a result name.
func (r *Result) UnmarshalText(b []byte) error {
	s := strings.ToLower(string(b))
	for i, name := range resultNames {
		if name == s {
			*r = Result(i)
			return nil
		}
	}
	return fmt.Errorf("unknown result %q", s)
}

// Report is the outcome of one public writer call. Err carries the failure
// detail for that call only.
type Report struct {
	Result  Result `json:"result"`
	Err     error  `json:"-"`
	Applied int    `json:"applied"`
	Path    string `json:"path,omitempty"`
}

// OK reports whether the call succeeded.
func (r Report) OK() bool {
	return r.Result == Success
}

// Message returns the failure detail, or "" on success.
func (r Report) Message() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

func (r Report) String() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: %v", r.Result, r.Err)
	}
	return r.Result.String()
}
