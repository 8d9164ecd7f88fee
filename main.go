package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/lazharichir/carta/events"
	"github.com/lazharichir/carta/game"
	"github.com/lazharichir/carta/server"
	"k8s.io/klog/v2"
)

var (
	flagServe      = flag.Bool("serve", false, "Serve games over HTTP and WebSocket instead of playing in the terminal.")
	flagAddr       = flag.String("addr", ":7777", "Address to listen on with -serve.")
	flagOrigins    = flag.String("origins", "", "Comma-separated CORS origins allowed with -serve. Empty allows all.")
	flagDB         = flag.String("db", "", "SQLite file to record game events into. Events are kept in memory if empty.")
	flagRows       = flag.Int("rows", 4, "Number of board rows.")
	flagCols       = flag.Int("cols", 6, "Number of board columns.")
	flagAcesHigh   = flag.Bool("aces-high", false, "Rank aces above kings.")
	flagJokers     = flag.Bool("jokers", false, "Add a red and a black joker to the deck.")
	flagDirections = flag.String("directions", "N,S,E,W", "Comma-separated directions the player may move in.")
	flagMaxMoves   = flag.Int("max-moves", 10, "Number of moves before the game ends.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	if err := run(); err != nil {
		klog.Errorf("%v", err)
		klog.Flush()
		os.Exit(1)
	}
}

func run() error {
	store, closeStore, err := openStore(*flagDB)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *flagServe {
		return serve(ctx, store)
	}
	return play(ctx, store)
}

func openStore(path string) (events.EventStore, func(), error) {
	if path == "" {
		return events.NewInMemoryEventStore(), func() {}, nil
	}
	store, err := events.NewSQLiteEventStore(path, game.EventTypes()...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open event store: %w", err)
	}
	klog.V(1).Infof("Recording events into %s", path)
	return store, func() {
		if err := store.Close(); err != nil {
			klog.Errorf("Failed to close event store: %v", err)
		}
	}, nil
}

func rulesFromFlags() game.Rules {
	rules := game.DefaultRules()
	rules.Rows = *flagRows
	rules.Columns = *flagCols
	rules.AcesHigh = *flagAcesHigh
	rules.IncludeJokers = *flagJokers
	rules.AllowedDirections = splitList(*flagDirections)
	rules.MaxMoves = *flagMaxMoves
	return rules
}

func play(ctx context.Context, store events.EventStore) error {
	session, err := game.NewSession(store, rulesFromFlags())
	if err != nil {
		return err
	}
	err = session.Play(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func serve(ctx context.Context, store events.EventStore) error {
	fmt.Println("Starting Carta game server...")
	s := server.NewServer(store, server.Options{Addr: *flagAddr, AllowedOrigins: splitList(*flagOrigins)})

	errs := make(chan error, 1)
	go func() { errs <- s.Start() }()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	klog.Infof("Shutting down server")
	return s.Shutdown(shutdownCtx)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
