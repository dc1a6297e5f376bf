// Package interceptors provides ready-made proxy.Interceptor implementations.
package interceptors

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/toutaio/toutago-nasc-interception/proxy"
)

// Logging returns an interceptor that writes one log line per call: debug on
// success, error when the call returns a non-nil error.
func Logging(logger zerolog.Logger) proxy.Interceptor {
	return proxy.InterceptorFunc(func(inv *proxy.Invocation) {
		start := time.Now()
		inv.Proceed()
		elapsed := time.Since(start)

		if err := inv.Err(); err != nil {
			logger.Error().
				Err(err).
				Str("target", targetName(inv)).
				Str("method", inv.Method).
				Dur("elapsed", elapsed).
				Msg("call failed")
			return
		}

		logger.Debug().
			Str("target", targetName(inv)).
			Str("method", inv.Method).
			Dur("elapsed", elapsed).
			Msg("call")
	})
}

func targetName(inv *proxy.Invocation) string {
	return fmt.Sprintf("%T", inv.Target)
}
