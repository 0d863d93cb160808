package solana

import (
	"errors"
	"fmt"
)

// ErrTransport marks network-level failures: connection errors, timeouts,
// non-200 status codes, exhausted retries. Distinguished from RPCError so
// callers can tell "endpoint unreachable" from "endpoint said no".
var ErrTransport = errors.New("transport failure")

// RPCError is a well-formed JSON-RPC 2.0 error envelope from the endpoint.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("RPC error %d: %s", e.Code, e.Message)
}

// IsRPCError reports whether err carries an RPC error envelope.
func IsRPCError(err error) bool {
	var rpcErr *RPCError
	return errors.As(err, &rpcErr)
}
