// Package observability starts the optional tracing and profiling backends.
// Everything is off unless enabled in config.
package observability

import (
	"context"
	"errors"
	"net/http"

	"github.com/riskibarqy/matchcast/internal/config"
	"github.com/riskibarqy/matchcast/internal/platform/logging"
)

// Stack holds whatever Start brought up. Shutdown stops it in reverse order.
type Stack struct {
	logger          *logging.Logger
	shutdownTracing func(context.Context) error
	stopProfiling   func() error
	pprof           *http.Server
}

// Start brings up tracing, continuous profiling and the pprof listener. On
// error, anything already started is shut down before returning.
func Start(cfg config.Config, logger *logging.Logger) (*Stack, error) {
	s := &Stack{logger: logging.OrDefault(logger).Named("observability")}

	var err error
	if s.shutdownTracing, err = initTracing(cfg, s.logger); err != nil {
		return nil, err
	}
	if s.stopProfiling, err = initProfiling(cfg, s.logger); err != nil {
		_ = s.shutdownTracing(context.Background())
		return nil, err
	}
	if s.pprof, err = startPprof(cfg, s.logger); err != nil {
		_ = s.stopProfiling()
		_ = s.shutdownTracing(context.Background())
		return nil, err
	}
	return s, nil
}

// PprofAddr is the bound pprof address, empty when pprof is off.
func (s *Stack) PprofAddr() string {
	if s == nil || s.pprof == nil {
		return ""
	}
	return s.pprof.Addr
}

func (s *Stack) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	var errs []error
	if s.pprof != nil {
		if err := s.pprof.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		} else {
			s.logger.Info("pprof server stopped")
		}
	}
	if err := s.stopProfiling(); err != nil {
		errs = append(errs, err)
	}
	if err := s.shutdownTracing(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
