package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/freshchoice/storefront/pkg/logger"
	"github.com/freshchoice/storefront/pkg/metrics"
	"github.com/freshchoice/storefront/pkg/response"
)

// Recovery turns a handler panic into the generic 500 body. It sits just
// inside the metrics middleware so the 500 is still counted.
//
// http.ErrAbortHandler is re-raised: net/http uses it to drop the
// connection without logging.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(v)
			}
			handlePanic(w, r, v)
		}()
		next.ServeHTTP(w, r)
	})
}

func handlePanic(w http.ResponseWriter, r *http.Request, v any) {
	metrics.PanicsRecovered.Inc()
	logger.WithCtx(r.Context()).Error("handler panicked",
		"panic", fmt.Sprint(v),
		"method", r.Method,
		"path", r.URL.Path,
		"stack", string(debug.Stack()),
	)
	response.Error(w, http.StatusInternalServerError, "Internal server error.")
}
