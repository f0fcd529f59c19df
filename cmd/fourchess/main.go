package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appcfg "github.com/kapu/fourchess-go/internal/config"
	"github.com/kapu/fourchess-go/internal/game"
	"github.com/kapu/fourchess-go/internal/notation"
	"github.com/kapu/fourchess-go/internal/obslog"
	"github.com/kapu/fourchess-go/internal/positions"
	"github.com/kapu/fourchess-go/internal/store"
)

func main() {
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("log init error: %v", err)
	}
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := obslog.L()

	dialect, err := notation.ParseDialect(cfg.Dialect)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	policy, err := policyFor(cfg.Variant)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	args := os.Args[1:]
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	cmd := strings.ToLower(args[0])
	args = args[1:]

	app := &app{
		cfg:     cfg,
		logger:  logger,
		dialect: dialect,
		policy:  policy,
	}

	var cmdErr error
	switch cmd {
	case "show":
		cmdErr = app.show(args)
	case "positions":
		cmdErr = app.listPositions()
	case "replay":
		cmdErr = app.replay(args)
	case "convert":
		cmdErr = app.convert(args)
	case "archive":
		cmdErr = app.archive(args)
	case "recent":
		cmdErr = app.recent()
	case "get":
		cmdErr = app.get(args)
	case "help":
		usage()
	default:
		usage()
		os.Exit(2)
	}
	if cmdErr != nil {
		logger.Error("command failed", zap.String("command", cmd), zap.Error(cmdErr))
		fmt.Fprintln(os.Stderr, "error:", cmdErr)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, strings.Join([]string{
		"fourchess - four-player chess game tool",
		"",
		"Usage:",
		"  fourchess show [position]     print a named start position",
		"  fourchess positions           list the position catalog",
		"  fourchess replay <file|->     read PGN4 and print the final state",
		"  fourchess convert <file|->    read PGN4 and re-emit it in the other dialect",
		"  fourchess archive <file|->    read PGN4 and save it to the configured store",
		"  fourchess recent              list recently archived games",
		"  fourchess get <id>            print an archived game",
		"",
		"Dialect and variant come from FPC_DIALECT and FPC_VARIANT.",
		"",
	}, "\n"))
}

type app struct {
	cfg     *appcfg.AppConfig
	logger  *zap.Logger
	dialect notation.Dialect
	policy  game.MovePolicy
}

func policyFor(variant string) (game.MovePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(variant)) {
	case "", "teams":
		return game.TeamsPolicy{}, nil
	case "ffa", "free-for-all":
		return game.FFAPolicy{}, nil
	}
	return nil, fmt.Errorf("unknown variant %q", variant)
}

func (a *app) engine() *game.Engine {
	e := game.NewEngine(a.policy, func() notation.Dialect { return a.dialect }, nil, a.logger)
	e.NewGame()
	return e
}

func (a *app) show(args []string) error {
	name := a.cfg.DefaultPosition
	if len(args) > 0 {
		name = args[0]
	}
	cat, err := positions.New(a.cfg.PositionsDir)
	if err != nil {
		return err
	}
	pos, err := cat.Get(name)
	if err != nil {
		return err
	}
	posDialect, err := notation.ParseDialect(pos.Dialect)
	if err != nil {
		return err
	}
	saved := a.dialect
	a.dialect = posDialect
	defer func() { a.dialect = saved }()
	e := a.engine()
	if err := e.SetPositionText(pos.Fen4); err != nil {
		return err
	}
	fmt.Println(e.CurrentFen4())
	return nil
}

func (a *app) listPositions() error {
	cat, err := positions.New(a.cfg.PositionsDir)
	if err != nil {
		return err
	}
	for _, name := range cat.Names() {
		pos, err := cat.Get(name)
		if err != nil {
			continue
		}
		fmt.Printf("%-20s %-9s %s\n", name, pos.Dialect, pos.Description)
	}
	return nil
}

func readInput(arg string) (string, error) {
	if arg == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(arg)
	return string(b), err
}

func (a *app) replay(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: fourchess replay <file|->")
	}
	text, err := readInput(args[0])
	if err != nil {
		return err
	}
	e := a.engine()
	if !e.ParsePgn4(text) {
		return fmt.Errorf("unreadable PGN4 input")
	}
	fmt.Println("player: " + e.CurrentPlayer())
	fmt.Println("position: " + e.CurrentFen4())
	if mt := strings.TrimSpace(e.MoveText()); mt != "" {
		fmt.Println("moves: " + mt)
	}
	return nil
}

func (a *app) convert(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: fourchess convert <file|->")
	}
	text, err := readInput(args[0])
	if err != nil {
		return err
	}
	e := a.engine()
	if !e.ParsePgn4(text) {
		return fmt.Errorf("unreadable PGN4 input")
	}
	if a.dialect == notation.Chesscom {
		a.dialect = notation.FEN4
	} else {
		a.dialect = notation.Chesscom
	}
	fmt.Println(e.Pgn4())
	return nil
}

// repository picks the storage backend: Postgres when DATABASE_URL is set,
// then Redis, then memory.
func (a *app) repository() (store.Repository, error) {
	if a.cfg.DatabaseURL != "" {
		return store.NewPostgresRepository(a.cfg.DatabaseURL)
	}
	if a.cfg.RedisURL != "" {
		opts, err := redis.ParseURL(a.cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return store.NewRedisRepository(redis.NewClient(opts)), nil
	}
	a.logger.Warn("no REDIS_URL or DATABASE_URL set, archive is in-memory only")
	return store.NewMemoryRepository(), nil
}

func (a *app) archive(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: fourchess archive <file|->")
	}
	text, err := readInput(args[0])
	if err != nil {
		return err
	}
	e := a.engine()
	if !e.ParsePgn4(text) {
		return fmt.Errorf("unreadable PGN4 input")
	}
	repo, err := a.repository()
	if err != nil {
		return err
	}
	defer repo.Close()

	saved := &store.SavedGame{
		Variant: e.Variant(),
		Dialect: a.dialect.String(),
		Pgn4:    e.Pgn4(),
		Result:  string(e.Result()),
	}
	saved.Red, saved.Blue, saved.Yellow, saved.Green = e.PlayerNames()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := repo.Save(ctx, saved); err != nil {
		return err
	}
	a.logger.Info("game archived", zap.String("id", saved.ID), zap.String("result", saved.Result))
	fmt.Println(saved.ID)
	return nil
}

func (a *app) recent() error {
	repo, err := a.repository()
	if err != nil {
		return err
	}
	defer repo.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	games, err := repo.Recent(ctx, a.cfg.RecentLimit)
	if err != nil {
		return err
	}
	for _, g := range games {
		fmt.Printf("%s  %-12s %-8s %s vs %s vs %s vs %s  %s\n",
			g.ID, g.Variant, g.Result, g.Red, g.Blue, g.Yellow, g.Green,
			g.SavedAt.Format(time.RFC3339))
	}
	return nil
}

func (a *app) get(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: fourchess get <id>")
	}
	repo, err := a.repository()
	if err != nil {
		return err
	}
	defer repo.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	g, err := repo.Get(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Println(g.Pgn4)
	return nil
}
