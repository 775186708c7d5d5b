package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// LeaderboardCache stores the rendered leaderboard between writes.
type LeaderboardCache interface {
	Get(ctx context.Context) ([]LeaderboardEntry, bool, error)
	Set(ctx context.Context, entries []LeaderboardEntry) error
	Invalidate(ctx context.Context) error
}

type options struct {
	now   func() time.Time
	log   logrus.FieldLogger
	cache LeaderboardCache
}

type Option func(*options)

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) { o.log = log }
}

func WithLeaderboardCache(c LeaderboardCache) Option {
	return func(o *options) { o.cache = c }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) invalidateLeaderboard(ctx context.Context) {
	if o.cache == nil {
		return
	}
	if err := o.cache.Invalidate(ctx); err != nil {
		o.log.WithError(err).Warn("leaderboard cache invalidation failed")
	}
}

func stringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
