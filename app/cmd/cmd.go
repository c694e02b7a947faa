package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bobylevd/team-balancer/app/balance"
	"github.com/bobylevd/team-balancer/app/metrics"
	"github.com/bobylevd/team-balancer/app/store"
)

// CommonOpts contains information that is common for all commands.
type CommonOpts struct {
	Version string
}

// Set sets the common options.
func (c *CommonOpts) Set(cc CommonOpts) {
	c.Version = cc.Version
}

// StoreOpts configures the player store and the suggestion sessions.
type StoreOpts struct {
	StoreLocation string        `long:"loc"            env:"LOCATION"       description:"Store location" default:"players.db"`
	SessionTTL    time.Duration `long:"session-ttl"    env:"SESSION_TTL"    description:"How long suggestions are kept" default:"48h"`
	DefaultRating int           `long:"default-rating" env:"DEFAULT_RATING" description:"Rating of players without one" default:"1400"`
}

// service opens the store and wires the service. Metrics are registered on
// reg when given.
func (o StoreOpts) service(reg prometheus.Registerer) (svc *store.Service, closeFn func(), err error) {
	if o.DefaultRating < 0 {
		return nil, nil, fmt.Errorf("default rating %d: %w", o.DefaultRating, balance.ErrInvalidRating)
	}

	s, err := store.New(o.StoreLocation)
	if err != nil {
		return nil, nil, fmt.Errorf("init store: %w", err)
	}

	svc = &store.Service{
		Store:         s,
		Sessions:      store.NewSessions(o.SessionTTL),
		DefaultRating: o.DefaultRating,
	}
	if reg != nil {
		svc.Metrics = metrics.New(reg, "balancer")
	}

	closeFn = func() {
		if err := s.Close(); err != nil {
			log.Printf("[WARN] failed to close store: %v", err)
		}
	}
	return svc, closeFn, nil
}

// signalContext is canceled on SIGINT or SIGTERM with the signal as the cause.
func signalContext() (context.Context, context.CancelCauseFunc) {
	ctx, cancel := context.WithCancelCause(context.Background())
	go func() { // catch signal and invoke graceful termination
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		select {
		case sig := <-stop:
			log.Printf("[WARN] caught signal: %s", sig)
			cancel(fmt.Errorf("caught signal: %s", sig))
		case <-ctx.Done():
		}
		signal.Stop(stop)
	}()
	return ctx, cancel
}
