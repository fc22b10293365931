package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimit throttles clients with an in-memory store. The format is
// limiter's "<count>-<period>" notation, e.g. "60-M".
func RateLimit(formatted string) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		log.Fatalf("invalid rate limit %q: %v", formatted, err)
	}

	store := memory.NewStore()
	instance := limiter.New(store, rate)

	limiterMiddleware := stdlib.NewMiddleware(instance)

	return func(c *gin.Context) {
		limiterMiddleware.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.Next()
		})).ServeHTTP(c.Writer, c.Request)

		if c.Writer.Status() == http.StatusTooManyRequests {
			c.Abort()
			return
		}
	}
}
