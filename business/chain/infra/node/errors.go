package node

import (
	"errors"
	"net/http"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/fd1az/chain-explorer/internal/apperror"
	"github.com/fd1az/chain-explorer/internal/circuitbreaker"
)

// ErrCodeUnauthorized is the JSON-RPC error code the node uses for a
// missing or stale cookie.
const ErrCodeUnauthorized = -32001

// isBreakerSuccess keeps node-side application errors from tripping the
// breaker; only transport failures count.
func isBreakerSuccess(err error) bool {
	if err == nil {
		return true
	}
	var rpcErr rpc.Error
	return errors.As(err, &rpcErr)
}

// classify maps a raw call error onto the application error taxonomy.
func classify(method string, err error) error {
	if circuitbreaker.IsOpen(err) {
		return apperror.External(apperror.CodeCircuitOpen, method, err)
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		if rpcErr.ErrorCode() == ErrCodeUnauthorized {
			return apperror.New(apperror.CodeNodeUnauthorized,
				apperror.WithContext(method),
				apperror.WithCause(err),
				apperror.WithStatusCode(http.StatusUnauthorized))
		}
		return apperror.New(apperror.CodeNodeMethodFailed,
			apperror.WithContext(method),
			apperror.WithCause(err),
			apperror.WithStatusCode(http.StatusBadRequest))
	}

	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusUnauthorized {
		return apperror.New(apperror.CodeNodeUnauthorized,
			apperror.WithContext(method),
			apperror.WithCause(err),
			apperror.WithStatusCode(http.StatusUnauthorized))
	}

	return apperror.External(apperror.CodeNodeUnavailable, method, err)
}

// decodeError reports a result the node sent but we could not parse.
func decodeError(method string, err error) error {
	return apperror.New(apperror.CodeNodeMethodFailed,
		apperror.WithContext(method+": malformed result"),
		apperror.WithCause(err),
		apperror.WithStatusCode(http.StatusBadGateway))
}
