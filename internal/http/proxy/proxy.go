// Package proxy forwards API traffic for domains that have moved out of the
// monolith. During the strangler migration the monolith keeps answering on
// its old URLs and relays user and auth requests to the extracted user
// service; clients never learn that the topology changed.
package proxy

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ServiceProxy relays requests for one upstream service. When the upstream
// cannot be reached the client receives a stable JSON error instead of a
// hung connection or a bare 502.
type ServiceProxy struct {
	name  string
	proxy *httputil.ReverseProxy
}

// New builds a ServiceProxy for the given upstream base URL. unavailableMsg
// is the exact message returned when the upstream is down.
func New(rawURL, name, unavailableMsg string, timeout time.Duration) (*ServiceProxy, error) {
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}

	rp := httputil.NewSingleHostReverseProxy(target)
	rp.Transport = &http.Transport{
		ResponseHeaderTimeout: timeout,
		Proxy:                 http.ProxyFromEnvironment,
	}
	rp.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Error().
			Err(err).
			Str("upstream", name).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("upstream request failed")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		// Keep the body identical to what the monolith always returned.
		_, _ = w.Write([]byte(`{"status":"error","message":"` + unavailableMsg + `"}`))
	}

	return &ServiceProxy{name: name, proxy: rp}, nil
}

// Handler adapts the proxy to a Gin handler. The response is written
// entirely by the upstream (or the error handler), so the chain is aborted.
func (p *ServiceProxy) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		p.proxy.ServeHTTP(c.Writer, c.Request)
		c.Abort()
	}
}
