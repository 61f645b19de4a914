package repo

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/ordersbridge/go-order-backend/internal/schema"
)

// mirrorWrites counts best-effort secondary schema writes by outcome, so
// divergence between the legacy and per-service schemas is visible on a
// dashboard before anyone greps logs.
var mirrorWrites = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "schema_mirror_writes_total",
		Help: "Total number of mirror writes to the per-service schemas.",
	},
	[]string{"domain", "outcome"},
)

func init() {
	prometheus.MustRegister(mirrorWrites)
}

// MirrorResult reports the outcome of a single best-effort write into one
// of the per-service schemas. Mirror failures never fail the caller; they
// are surfaced here so they can be logged and, eventually, reconciled.
type MirrorResult struct {
	Domain  schema.Domain
	Op      string
	Skipped bool
	Err     error
}

// OK reports whether the mirror write either succeeded or was skipped
// because the dual-schema flag is off.
func (r MirrorResult) OK() bool { return r.Err == nil }

// mirrorExec runs one statement against the secondary schema for the given
// domain. The statement is written against the legacy table names and
// rewritten through the router, keeping a single source of truth for the
// SQL shape on both sides of the migration.
func mirrorExec(ctx context.Context, db *gorm.DB, rt *schema.Router, d schema.Domain, op, sqlText string, args ...any) MirrorResult {
	if !rt.Enabled() {
		mirrorWrites.WithLabelValues(string(d), "skipped").Inc()
		return MirrorResult{Domain: d, Op: op, Skipped: true}
	}
	err := db.WithContext(ctx).Exec(rt.Rewrite(sqlText, d), args...).Error
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	mirrorWrites.WithLabelValues(string(d), outcome).Inc()
	return MirrorResult{Domain: d, Op: op, Err: err}
}

// logMirror records a failed mirror write. The primary write has already
// committed at this point, so the row is retained in the legacy schema and
// the divergence is only observable through this log line.
func logMirror(ctx context.Context, res MirrorResult, id int) {
	if res.OK() {
		return
	}
	log.Ctx(ctx).Warn().
		Err(res.Err).
		Str("domain", string(res.Domain)).
		Str("op", res.Op).
		Int("id", id).
		Msg("mirror write to secondary schema failed")
}
