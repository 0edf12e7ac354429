package diagnostic

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/togglekit/pkg/feature"
	"github.com/dmitrymomot/togglekit/pkg/logger"
)

// LogReporter writes every fault as an error-level record.
type LogReporter struct {
	log *slog.Logger
}

// NewLogReporter creates a reporter. A nil logger falls back to slog.Default.
func NewLogReporter(log *slog.Logger) *LogReporter {
	if log == nil {
		log = slog.Default()
	}
	return &LogReporter{log: log.With(logger.Component("feature"))}
}

// ReportFault logs the fault at error level.
func (r *LogReporter) ReportFault(ctx context.Context, f *feature.CallbackError) {
	if f == nil {
		return
	}
	r.log.ErrorContext(ctx, "feature callback failed",
		logger.FaultID(FaultID(ctx).String()),
		logger.Feature(f.Feature),
		logger.Phase(f.Phase.Verb()),
		logger.Note(f.Note),
		logger.Error(f.Err),
	)
}

type multiReporter []feature.FaultReporter

// Multi fans a fault out to every reporter in order, after stamping the
// context with a single fault ID. Nil reporters are skipped.
func Multi(reporters ...feature.FaultReporter) feature.FaultReporter {
	m := make(multiReporter, 0, len(reporters))
	for _, r := range reporters {
		if r != nil {
			m = append(m, r)
		}
	}
	return m
}

func (m multiReporter) ReportFault(ctx context.Context, f *feature.CallbackError) {
	ctx = WithFaultID(ctx, FaultID(ctx))
	for _, r := range m {
		r.ReportFault(ctx, f)
	}
}
