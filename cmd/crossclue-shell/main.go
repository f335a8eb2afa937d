// cmd/crossclue-shell
//
// Terminal front end: plays the catalog against the configured progress
// store with readline editing and history. Type "help" for commands.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/chzyer/readline"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/crossclue/internal/clue"
	"github.com/robalobadob/crossclue/internal/config"
	"github.com/robalobadob/crossclue/internal/level"
	"github.com/robalobadob/crossclue/internal/play"
	"github.com/robalobadob/crossclue/internal/shell"
	"github.com/robalobadob/crossclue/internal/store"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	zerolog.SetGlobalLevel(cfg.LogLevel)

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("shell exited")
	}
}

func run(cfg config.Config) error {
	catalog, err := level.Load(cfg.LevelsFile)
	if err != nil {
		return err
	}
	kv, closeKV, err := store.Open(cfg.Store, cfg.DBPath)
	if err != nil {
		return err
	}
	defer closeKV()

	rec := &play.Recorder{}
	ctrl := play.New(catalog, kv, play.Options{
		Resolver:     clue.NewResolver(cfg.ClueAssetBase),
		Focus:        rec,
		SaveAttempts: cfg.SaveRetries,
	})
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ctrl.Close(ctx); err != nil {
			log.Warn().Err(err).Msg("progress not fully saved")
		}
	}()

	l, err := readline.NewEx(&readline.Config{
		Prompt:            "crossclue> ",
		HistoryFile:       filepath.Join(os.TempDir(), "crossclue.history"),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer l.Close()

	sh := shell.New(ctrl, rec, l.Stdout())
	fmt.Fprintln(l.Stdout(), "crossclue - type help for commands")
	for {
		l.SetPrompt(sh.Prompt())
		line, err := l.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return nil
			}
			continue
		} else if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return err
		}

		err = sh.Exec(context.Background(), line)
		if errors.Is(err, shell.ErrQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(l.Stderr(), "error: %v\n", err)
		}
	}
}
