package sovtoken

import (
	"github.com/sovrin-foundation/sovtoken/logger"
	"github.com/sovrin-foundation/sovtoken/metrics"
)

type Option func(*Sovtoken)

func WithLogger(l logger.Logger) Option {
	return func(s *Sovtoken) {
		s.log = l
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(s *Sovtoken) {
		s.metrics = r
	}
}
