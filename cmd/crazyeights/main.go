// Command crazyeights plays Crazy Eights against the computer, either in the
// terminal or, with -serve, over a websocket for a browser front end.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	engine "github.com/jason-s-yu/crazyeights/engine"
	"github.com/jason-s-yu/crazyeights/internal/config"
	"github.com/jason-s-yu/crazyeights/internal/game"
	"github.com/jason-s-yu/crazyeights/internal/logging"
	"github.com/jason-s-yu/crazyeights/internal/transport"
)

func main() {
	envPath := flag.String("env", ".env", "optional dotenv file")
	serve := flag.Bool("serve", false, "serve the websocket bridge instead of the terminal client")
	flag.Parse()

	cfg, err := config.Load(*envPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *serve {
		log, err := logging.New(os.Stderr, cfg.LogLevel)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if err := runServer(ctx, cfg, log); err != nil {
			log.Fatal(err)
		}
		return
	}

	// Log lines would tear through the table, so the terminal stays quiet.
	g := game.NewCrazyEightsGame(engine.NewRand(cfg.SeedOrClock()), logging.Discard())
	g.OpponentDelay = cfg.OpponentDelay
	if err := runTerminal(ctx, g, os.Stdin); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runServer(ctx context.Context, cfg config.Config, log *logrus.Logger) error {
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           transport.NewServer(cfg, log).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.ListenAddr).Info("Serving websocket bridge on /ws.")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", cfg.ListenAddr, err)
	case <-ctx.Done():
	}

	log.Info("Shutting down.")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
