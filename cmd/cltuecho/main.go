package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/cltuecho"
	"github.com/bft-labs/cltuecho/internal/cliconfig"
	"github.com/bft-labs/cltuecho/internal/cltu"
	"github.com/bft-labs/cltuecho/pkg/log"
)

const helpDescription = `
Listen to the command echo of ground equipment and log every CLTU it loops back.

The echo stream is read from a recorded file, from an echo server this
listener dials, or from echo equipment that dials this listener. Each CLTU is
located by its start and tail sequences, its BCH codeblocks are checked, and
one record per CLTU is appended to the echo log.

Configure via file ($HOME/.cltuecho/config.toml), env (CLTUECHO_*), or flags.
`

var exampleUsage = strings.TrimSpace(`
  cltuecho --mode file --file echo.bin
  cltuecho --mode file --file echo.bin --follow --status-dir /var/lib/cltuecho
  cltuecho --mode client --addr gse.example:5000 --reconnect
  cltuecho --mode server --addr :5000 --output /var/log/cltu_echo.log
  cltuecho encode 01020304 --raw >> echo.bin
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	bootLog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	root := &cobra.Command{
		Use:           "cltuecho",
		Short:         "Log the CLTUs looped back by command echo equipment",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first (default $HOME/.cltuecho/config.toml), then apply overrides
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// Environment overrides the file; flags override both (changed map)
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			// Validate and set derived values
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := log.NewZerologLogger(os.Stderr, cfg.LogLevel)
			if err != nil {
				return err
			}
			zl := logger.Logger()
			zl.Info().Interface("config", cfg).Msg("configuration")

			libCfg := cltuecho.Config{
				Mode:           cltuecho.Mode(cfg.Mode),
				File:           cfg.File,
				Follow:         cfg.Follow,
				PollInterval:   cfg.PollInterval,
				Addr:           cfg.Addr,
				DialTimeout:    cfg.DialTimeout,
				ChunkSize:      cfg.ChunkSize,
				Start:          cfg.Start,
				Tail:           cfg.Tail,
				PreSynced:      cfg.PreSynced,
				MaxBuffered:    cfg.MaxBufferedBytes,
				Output:         cfg.Output,
				StatusDir:      cfg.StatusDir,
				StatusInterval: cfg.StatusInterval,
				Reconnect:      cfg.Reconnect,
			}

			echo, err := cltuecho.New(libCfg, cltuecho.WithLogger(logger))
			if err != nil {
				return fmt.Errorf("create listener: %w", err)
			}
			defer echo.Close()

			// Graceful shutdown on SIGINT/SIGTERM
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := echo.Run(ctx); err != nil {
				return err
			}
			if ctx.Err() != nil {
				logger.Info("received signal, stopped")
			}
			return nil
		},
	}

	// Flags
	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.cltuecho/config.toml)")
	root.Flags().StringVar(&cfg.Mode, "mode", cfg.Mode, "echo source: file, client or server")
	root.Flags().StringVar(&cfg.File, "file", cfg.File, "recorded echo stream (file mode)")
	root.Flags().BoolVar(&cfg.Follow, "follow", cfg.Follow, "keep reading the file as it grows (file mode)")
	root.Flags().DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "re-read interval while following a file")
	root.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "address to dial (client mode) or listen on (server mode)")
	root.Flags().DurationVar(&cfg.DialTimeout, "dial-timeout", cfg.DialTimeout, "timeout for one connection attempt (client mode)")
	root.Flags().BoolVar(&cfg.Reconnect, "reconnect", cfg.Reconnect, "reconnect after connection loss (client/server mode)")

	root.Flags().IntVar(&cfg.ChunkSize, "chunk-size", cfg.ChunkSize, "read size in bytes")
	root.Flags().StringVar(&cfg.StartSequence, "start", cfg.StartSequence, "CLTU start sequence (hex)")
	root.Flags().StringVar(&cfg.TailSequence, "tail", cfg.TailSequence, "CLTU tail sequence (hex)")
	root.Flags().BoolVar(&cfg.PreSynced, "pre-synced", cfg.PreSynced, "treat every read as one whole CLTU")
	root.Flags().StringVar(&cfg.MaxBuffered, "max-buffered", cfg.MaxBuffered, "cap on bytes held while waiting for a delimiter (0 disables)")

	root.Flags().StringVar(&cfg.Output, "output", cfg.Output, "echo log file")
	root.Flags().StringVar(&cfg.StatusDir, "status-dir", cfg.StatusDir, "directory for echo-status.json (disabled if empty)")
	root.Flags().DurationVar(&cfg.StatusInterval, "status-interval", cfg.StatusInterval, "status snapshot interval")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(newEncodeCommand())

	if err := root.Execute(); err != nil {
		bootLog.Error().Err(err).Msg("cltuecho")
		os.Exit(1)
	}
}

// newEncodeCommand builds the encode subcommand, which wraps data in a valid
// CLTU. Operators use it to produce test streams.
func newEncodeCommand() *cobra.Command {
	var (
		start string
		tail  string
		raw   bool
	)

	cmd := &cobra.Command{
		Use:   "encode <hex data>",
		Short: "Print a valid CLTU carrying the given data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := cliconfig.ParseHex(args[0])
			if err != nil {
				return fmt.Errorf("data: %w", err)
			}
			startSeq, err := cliconfig.ParseHex(start)
			if err != nil {
				return fmt.Errorf("start sequence: %w", err)
			}
			tailSeq, err := cliconfig.ParseHex(tail)
			if err != nil {
				return fmt.Errorf("tail sequence: %w", err)
			}

			frame := cltu.Encode(startSeq, tailSeq, data)
			if raw {
				_, err = cmd.OutOrStdout().Write(frame)
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.ToUpper(hex.EncodeToString(frame)))
			return err
		},
	}

	cmd.Flags().StringVar(&start, "start", cliconfig.DefaultStartSequence, "CLTU start sequence (hex)")
	cmd.Flags().StringVar(&tail, "tail", cliconfig.DefaultTailSequence, "CLTU tail sequence (hex)")
	cmd.Flags().BoolVar(&raw, "raw", false, "write binary instead of hex")
	return cmd
}
