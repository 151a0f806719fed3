// PawnPlay - pawn-only chess at the console
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/pawnplay/internal/agent"
	"github.com/hailam/pawnplay/internal/board"
	"github.com/hailam/pawnplay/internal/engine"
	"github.com/hailam/pawnplay/internal/game"
	"github.com/hailam/pawnplay/internal/storage"
)

var (
	setupFlag  = flag.String("setup", board.StandardSetup, "starting pawns, e.g. \"wa2 wb2 bg7\"")
	modeFlag   = flag.String("mode", "", "pvp, pva or ava (default from preferences)")
	colorFlag  = flag.String("color", "", "your color in pva mode: white or black")
	nameFlag   = flag.String("name", "", "player name")
	depthFlag  = flag.Int("depth", 0, "maximum search depth")
	moveTime   = flag.Duration("movetime", 0, "thinking time per engine move")
	totalTime  = flag.Duration("time", 0, "clock per side, 0 for untimed")
	hashFlag   = flag.Int("hash", 0, "transposition table size in MB")
	seedFlag   = flag.Uint64("seed", uint64(time.Now().UnixNano()), "seed for random agents")
	randomFlag = flag.Bool("random", false, "use random movers instead of the engine")
	dbFlag     = flag.String("db", "", "database directory (default in the user data dir)")
	noDB       = flag.Bool("nodb", false, "do not load preferences or record results")
	logLevel   = flag.String("loglevel", "info", "trace, debug, info, warn or error")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("pawnplay")
		os.Exit(1)
	}
}

func run() error {
	if err := setupLogging(*logLevel); err != nil {
		return err
	}

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

	store := openStorage()
	if store != nil {
		defer store.Close()
	}
	prefs := loadPreferences(store)
	if err := applyFlags(prefs); err != nil {
		return err
	}

	pos, err := board.NewPositionFromSetup(*setupFlag)
	if err != nil {
		return err
	}

	white, black, err := buildAgents(prefs)
	if err != nil {
		return err
	}

	g, err := game.New(white, black, game.Options{Position: pos, TotalTime: prefs.TotalTime})
	if err != nil {
		return err
	}
	fmt.Println(pos)
	g.OnMove = func(p game.Ply) {
		side := board.Color((p.Number - 1) % 2)
		fmt.Printf("%d. %s plays %s (%v)\n", p.Number, side, p.Move, p.Spent.Round(time.Millisecond))
		fmt.Println(g.Position())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eg, ctx := errgroup.WithContext(ctx)

	var res game.Result
	eg.Go(func() error {
		defer cancel()
		var err error
		res, err = g.Run(ctx)
		return err
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
	if err := eg.Wait(); err != nil {
		return err
	}

	fmt.Println(res)
	if store != nil {
		recordResult(store, prefs, res)
		if err := store.SavePreferences(prefs); err != nil {
			log.Warn().Err(err).Msg("save-preferences")
		}
	}
	return nil
}

func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("bad -loglevel: %w", err)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	return nil
}

func openStorage() *storage.Storage {
	if *noDB {
		return nil
	}
	var (
		store *storage.Storage
		err   error
	)
	if *dbFlag != "" {
		store, err = storage.Open(*dbFlag)
	} else {
		store, err = storage.NewStorage()
	}
	if err != nil {
		log.Warn().Err(err).Msg("storage-unavailable")
		return nil
	}
	return store
}

func loadPreferences(store *storage.Storage) *storage.UserPreferences {
	if store == nil {
		return storage.DefaultPreferences()
	}
	prefs, err := store.LoadPreferences()
	if err != nil {
		log.Warn().Err(err).Msg("load-preferences")
		return storage.DefaultPreferences()
	}
	if first, err := store.IsFirstLaunch(); err == nil && first {
		fmt.Println("Welcome to PawnPlay. Moves are typed as e2e4; the first pawn to the far rank wins.")
		if err := store.MarkFirstLaunchComplete(); err != nil {
			log.Warn().Err(err).Msg("mark-first-launch")
		}
	}
	return prefs
}

// applyFlags overrides stored preferences with the flags given on the
// command line.
func applyFlags(prefs *storage.UserPreferences) error {
	var err error
	flag.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "mode":
			prefs.GameMode, err = storage.ParseGameMode(*modeFlag)
		case "color":
			switch strings.ToLower(*colorFlag) {
			case "white", "w":
				prefs.PlayerColor = storage.ColorWhite
			case "black", "b":
				prefs.PlayerColor = storage.ColorBlack
			default:
				err = fmt.Errorf("unknown color %q", *colorFlag)
			}
		case "name":
			prefs.Username = *nameFlag
		case "depth":
			prefs.MaxDepth = *depthFlag
		case "movetime":
			prefs.MoveTime = *moveTime
		case "time":
			prefs.TotalTime = *totalTime
		case "hash":
			prefs.HashMB = *hashFlag
		}
	})
	return err
}

func buildAgents(prefs *storage.UserPreferences) (white, black agent.Agent, err error) {
	machine := agent.SearchBased
	if *randomFlag {
		machine = agent.RandomChoice
	}

	kinds := [2]agent.Kind{machine, machine}
	switch prefs.GameMode {
	case storage.ModePlayerVsPlayer:
		kinds = [2]agent.Kind{agent.HumanInput, agent.HumanInput}
	case storage.ModePlayerVsAgent:
		human := board.White
		if prefs.PlayerColor == storage.ColorBlack {
			human = board.Black
		}
		kinds[human] = agent.HumanInput
	}

	lines := agent.NewLineSource(os.Stdin)
	var agents [2]agent.Agent
	for c := board.White; c <= board.Black; c++ {
		cfg := agent.Config{
			Lines:    lines,
			Out:      os.Stdout,
			Seed:     *seedFlag + uint64(c),
			Depth:    prefs.MaxDepth,
			MoveTime: prefs.MoveTime,
		}
		if kinds[c] == agent.SearchBased {
			cfg.Engine = engine.NewEngine(max(prefs.HashMB, 1))
		}
		agents[c], err = agent.New(kinds[c], c, cfg)
		if err != nil {
			return nil, nil, err
		}
		log.Debug().Str("color", c.String()).Str("kind", kinds[c].String()).Msg("agent")
	}
	return agents[board.White], agents[board.Black], nil
}

// recordResult stores the game from the user's side of the board. In games
// without exactly one human the result is counted for White.
func recordResult(store *storage.Storage, prefs *storage.UserPreferences, res game.Result) {
	side := board.White
	if prefs.GameMode == storage.ModePlayerVsAgent && prefs.PlayerColor == storage.ColorBlack {
		side = board.Black
	}

	reason := res.Termination.String()
	if res.Termination == game.ByRule {
		reason = res.Reason.String()
	}

	stats, err := store.RecordGame(storage.GameResult{
		Won:      res.Winner == side,
		Mode:     prefs.GameMode,
		Reason:   reason,
		Plies:    len(res.Moves),
		Duration: res.Duration,
	})
	if err != nil {
		log.Warn().Err(err).Msg("record-game")
		return
	}
	fmt.Printf("%s: %d games, %.0f%% won, best streak %d\n",
		prefs.Username, stats.GamesPlayed, stats.GetWinRate(), stats.LongestWinStrk)
}
