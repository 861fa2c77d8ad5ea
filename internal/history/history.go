// Package history keeps a SQLite log of every attribute value transmitted
// to a central.
package history

import (
	"context"

	"codeberg.org/mutker/envsensed/internal/errors"
	"codeberg.org/mutker/envsensed/internal/logger"
	"codeberg.org/mutker/envsensed/internal/scheduler"
)

type service struct {
	repo Repository
}

type noopRecorder struct{}

// New returns a Recorder backed by SQLite, or a no-op Recorder when history
// is disabled.
func New(cfg Config, log logger.Logger) (Recorder, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	if !cfg.Enabled {
		log.Debug().Msg("Publish history disabled, using no-op recorder")
		return &noopRecorder{}, nil
	}

	repo, err := NewRepository(cfg, log)
	if err != nil {
		log.Debug().Err(err).Msg("Failed to create history repository")
		return nil, err
	}

	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, p *scheduler.Publication) error {
	errFactory := errors.New()

	if p == nil || p.Value == nil {
		return errFactory.New(ErrInvalidPublication)
	}

	select {
	case <-ctx.Done():
		return errFactory.Wrap(ErrOperationTimeout, ctx.Err())
	default:
	}

	if err := s.repo.Record(p); err != nil {
		return errFactory.Wrap(ErrRecordFailed, err)
	}
	return nil
}

func (s *service) Close() error {
	if err := s.repo.Close(); err != nil {
		return errors.New().Wrap(ErrStorageClose, err)
	}
	return nil
}

func (*noopRecorder) Record(context.Context, *scheduler.Publication) error {
	return nil
}

func (*noopRecorder) Close() error {
	return nil
}
