package middleware

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSConfig configures CORS.
type CORSConfig struct {
	// PathPrefix limits CORS handling to matching paths, e.g. /api/.
	PathPrefix string

	// AllowedOrigins lists exact origins; "*" allows any. Empty disables CORS.
	AllowedOrigins []string

	// AllowedHeaders are echoed in preflight responses.
	AllowedHeaders []string

	MaxAge time.Duration
}

var corsAllowMethods = []string{
	http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
}

// CORS runs gin-contrib/cors for paths under PathPrefix. Preflights are
// answered with 204 and requests from unlisted origins are refused with
// 403. It is installed on the engine rather than a group so preflights for
// unknown methods still reach it.
func CORS(cfg CORSConfig) gin.HandlerFunc {
	if len(cfg.AllowedOrigins) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	conf := cors.Config{
		AllowMethods:              corsAllowMethods,
		AllowHeaders:              cfg.AllowedHeaders,
		MaxAge:                    cfg.MaxAge,
		OptionsResponseStatusCode: http.StatusNoContent,
	}

	if slices.Contains(cfg.AllowedOrigins, "*") {
		conf.AllowAllOrigins = true
	} else {
		// Exact matching; cors.Config.AllowOrigins would reject entries
		// without a scheme at startup.
		allowed := make(map[string]struct{}, len(cfg.AllowedOrigins))
		for _, o := range cfg.AllowedOrigins {
			allowed[o] = struct{}{}
		}

		conf.AllowOriginFunc = func(origin string) bool {
			_, ok := allowed[origin]
			return ok
		}
	}

	handle := cors.New(conf)

	return func(c *gin.Context) {
		if !strings.HasPrefix(c.Request.URL.Path, cfg.PathPrefix) {
			c.Next()
			return
		}

		handle(c)
	}
}
