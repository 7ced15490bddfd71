package sources

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ziadkadry99/filmguide/internal/glossary"
)

// Loader tries sources in order until one yields entries.
type Loader struct {
	sources []Source
	logger  *zap.Logger
}

// NewLoader creates a Loader over the given sources. A nil logger is
// replaced with a no-op one.
func NewLoader(logger *zap.Logger, sources ...Source) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{sources: sources, logger: logger}
}

// Load returns the result of the first source that produces at least one
// entry. Failures of earlier sources are logged and skipped. When every
// source fails the error wraps ErrFallbackUnavailable and each source's
// ErrSourceUnavailable.
func (l *Loader) Load(ctx context.Context) (Result, error) {
	var errs []error
	for _, src := range l.sources {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		res, err := src.Load(ctx)
		if err == nil && len(res.Entries) == 0 {
			err = ErrNoRows
		}
		if err != nil {
			l.logger.Warn("glossary source failed, trying next",
				zap.String("source", src.Name()),
				zap.Error(err),
			)
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, src.Name(), err))
			continue
		}

		if res.Skipped > 0 {
			l.logger.Warn("skipped malformed glossary rows",
				zap.String("source", src.Name()),
				zap.Int("skipped", res.Skipped),
			)
		}
		l.logger.Info("glossary loaded",
			zap.String("source", src.Name()),
			zap.Int("terms", len(res.Entries)),
		)
		return res, nil
	}

	if len(errs) == 0 {
		errs = append(errs, errors.New("no sources configured"))
	}
	return Result{}, fmt.Errorf("%w: %w", ErrFallbackUnavailable, errors.Join(errs...))
}

// LoadIndex loads the glossary and builds the matching index. A total
// failure is logged and yields an empty index, so pages still render
// without highlighting.
func (l *Loader) LoadIndex(ctx context.Context) (*glossary.Index, Result) {
	res, err := l.Load(ctx)
	if err != nil {
		l.logger.Error("glossary unavailable, highlighting disabled", zap.Error(err))
		return glossary.BuildIndex(nil), res
	}
	return glossary.BuildIndex(res.Entries), res
}
