package server

import "fmt"

// BindError reports that the listener could not be bound: the port is in
// use, not permitted, or the address is invalid.
type BindError struct {
	Addr string
	Err  error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("failed to bind %s: %v", e.Addr, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}
