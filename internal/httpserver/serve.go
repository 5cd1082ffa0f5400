package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/andrebq/authbox/internal/logutil"
)

type (
	Option func(*settings)

	settings struct {
		shutdownTimeout time.Duration
		listener        net.Listener
	}
)

// WithShutdownTimeout bounds how long in-flight requests may take once ctx
// is cancelled.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *settings) { s.shutdownTimeout = d }
}

// WithListener serves on l instead of listening on bind.
func WithListener(l net.Listener) Option {
	return func(s *settings) { s.listener = l }
}

// Serve blocks until ctx is cancelled or the server fails to listen.
// Cancelling ctx shuts down gracefully and returns nil.
func Serve(ctx context.Context, bind string, handler http.Handler, opts ...Option) error {
	server := http.Server{
		Handler:           handler,
		Addr:              bind,
		ReadTimeout:       time.Second * 30,
		WriteTimeout:      time.Second * 30,
		ReadHeaderTimeout: time.Second * 10,
		IdleTimeout:       time.Minute * 5,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	s := settings{shutdownTimeout: time.Minute}
	for _, o := range opts {
		o(&s)
	}
	log := logutil.GetOrDefault(ctx).With().Str("server.addr", bind).Logger()

	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		log.Info().Msg("Starting HTTP server")
		var err error
		if s.listener != nil {
			err = server.Serve(s.listener)
		} else {
			err = server.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			log.Info().Msg("Server closed")
			return
		}
		errc <- err
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("Initiating shutdown process")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	err := server.Shutdown(shutdownCtx)
	<-errc
	if err != nil {
		return err
	}
	log.Info().Msg("Shutdown completed")
	return nil
}
