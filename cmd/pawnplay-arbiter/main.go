package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"runtime/pprof"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/pawnplay/internal/agent"
	"github.com/hailam/pawnplay/internal/board"
	"github.com/hailam/pawnplay/internal/engine"
	"github.com/hailam/pawnplay/internal/protocol"
)

var (
	addr       = flag.String("addr", "", "arbiter address to dial (default: stdin/stdout)")
	depth      = flag.Int("depth", agent.DefaultDepth, "maximum search depth")
	moveTime   = flag.Duration("movetime", agent.DefaultMoveTime, "thinking time per move")
	hashMB     = flag.Int("hash", engine.DefaultHashMB, "transposition table size in MB")
	logLevel   = flag.String("loglevel", "info", "trace, debug, info, warn or error")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("pawnplay-arbiter")
		os.Exit(1)
	}
}

func run() error {
	lvl, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		return fmt.Errorf("bad -loglevel: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	// stdout may carry the protocol, so logs go to stderr.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
		log.Info().Str("path", profilePath).Msg("cpu-profiling")
	}

	var (
		in  io.Reader = os.Stdin
		out io.Writer = os.Stdout
	)
	if *addr != "" {
		conn, err := net.Dial("tcp", *addr)
		if err != nil {
			return fmt.Errorf("connect to arbiter: %w", err)
		}
		defer conn.Close()
		in, out = conn, conn
		log.Info().Str("addr", *addr).Msg("connected")
	}

	// One engine serves whichever color we are given; it drops its table
	// when the color changes.
	eng := engine.NewEngine(*hashMB)
	factory := func(c board.Color) (agent.Agent, error) {
		return agent.New(agent.SearchBased, c, agent.Config{Engine: eng, Depth: *depth, MoveTime: *moveTime})
	}
	h := protocol.New(in, out, factory)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		defer cancel()
		return h.Run(ctx)
	})
	eg.Go(func() error {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			return fmt.Errorf("interrupted by %v", s)
		case <-ctx.Done():
			return nil
		}
	})
	return eg.Wait()
}
