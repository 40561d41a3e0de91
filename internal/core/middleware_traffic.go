package core

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/klauspost/compress/gzhttp"

	"vibefinder/internal/types"
)

// rateLimitWindow is the window RATE_LIMIT_PER_MINUTE applies to.
const rateLimitWindow = time.Minute

// compressionMinSize skips gzip for small bodies such as error envelopes.
const compressionMinSize = 1024

// RateLimit limits each client IP to RATE_LIMIT_PER_MINUTE requests. Zero
// disables limiting. Rejections use the standard error envelope.
func (s *Server) RateLimit() func(http.Handler) http.Handler {
	limit := 0
	if s.Config != nil {
		limit = s.Config.Server.RateLimitPerMinute
	}
	if limit <= 0 {
		return passthrough
	}

	return httprate.Limit(
		limit,
		rateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			Error(w, r, types.NewAppError(types.ErrCodeRateLimit, "too many requests; retry later", nil))
		}),
	)
}

// Compression gzips responses for clients that accept it.
func (s *Server) Compression() func(http.Handler) http.Handler {
	wrap, err := gzhttp.NewWrapper(gzhttp.MinSize(compressionMinSize))
	if err != nil {
		s.Logger.Error("compression disabled", "error", err)
		return passthrough
	}
	return func(next http.Handler) http.Handler {
		return wrap(next)
	}
}

func passthrough(next http.Handler) http.Handler { return next }
