package diagnostics

import "fmt"

// Fault is the core's single error value. Per spec §7 every failure inside
// the core is fatal and a compiler bug, never a recoverable user error; a
// Fault is raised with panic and recovered exactly once, at the driver
// boundary (internal/compiler.Driver.Run).
type Fault struct {
	Code    string
	Message string
}

func (f *Fault) Error() string {
	if d := Describe(f.Code); d != "" {
		return fmt.Sprintf("[%s] %s: %s", f.Code, d, f.Message)
	}
	return fmt.Sprintf("[%s] %s", f.Code, f.Message)
}

// Raise panics with a Fault built from code and a formatted message. Every
// fatal condition in the core — a rejected typing rule, a verifier failure,
// an unsupported configuration, arena exhaustion — goes through Raise
// instead of being threaded through as a returned error, matching spec §7's
// "everything is fatal" policy.
func Raise(code, format string, args ...any) {
	panic(&Fault{Code: code, Message: fmt.Sprintf(format, args...)})
}

// Recover turns a panicking *Fault into a returned error. It must be called
// via defer, and is intended to run exactly once, at the top of
// Driver.Run — nowhere else in the core should call recover. A panic value
// that is not a *Fault is re-panicked: only Faults are part of the core's
// documented fatal-error contract.
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	fault, ok := r.(*Fault)
	if !ok {
		panic(r)
	}
	*err = fault
}
