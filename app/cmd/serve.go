package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/bobylevd/team-balancer/app/rest"
)

// Serve is a command to run the HTTP API.
type Serve struct {
	StoreOpts
	Listen        string        `long:"listen"         env:"LISTEN"         description:"API listen address" default:":8080"`
	MetricsListen string        `long:"metrics-listen" env:"METRICS_LISTEN" description:"Health and metrics listen address" default:":9090"`
	ShutdownAfter time.Duration `long:"shutdown-timeout" env:"SHUTDOWN_TIMEOUT" description:"Graceful shutdown timeout" default:"10s"`

	CommonOpts
}

// Execute runs the command.
func (s *Serve) Execute([]string) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc, closeStore, err := s.service(reg)
	if err != nil {
		return err
	}
	defer closeStore()

	servers := []*http.Server{
		{Addr: s.Listen, Handler: rest.NewRouter(svc), ReadHeaderTimeout: 5 * time.Second},
		{Addr: s.MetricsListen, Handler: rest.NewMetricsRouter(reg), ReadHeaderTimeout: 5 * time.Second},
	}

	ctx, cancel := signalContext()
	defer cancel(nil)

	ewg, ctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		ewg.Go(func() error {
			log.Printf("[INFO] listening on %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listen %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	ewg.Go(func() error {
		<-ctx.Done()
		log.Printf("[INFO] stopping servers: %v", context.Cause(ctx))

		shutdownCtx, done := context.WithTimeout(context.Background(), s.ShutdownAfter)
		defer done()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Printf("[WARN] failed to shutdown %s: %v", srv.Addr, err)
			}
		}
		return nil
	})

	if err := ewg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
