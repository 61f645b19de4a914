package observability

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ordersbridge/go-order-backend/internal/sysutil"
)

// InitLogger configures the global zerolog logger: level, timestamp format,
// and optional pretty console output for development. It also installs the
// global logger as the context fallback so log.Ctx(ctx) works outside the
// request path.
func InitLogger(level string, pretty bool) {
	zerolog.TimeFieldFormat = time.RFC3339
	sysutil.SetLogLevel(level)

	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	zerolog.DefaultContextLogger = &log.Logger
}
