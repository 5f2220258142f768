// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads config, builds the logger, and opens the store and editor session

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harper/pointedit/internal/config"
	"github.com/harper/pointedit/internal/editor"
	"github.com/harper/pointedit/internal/storage"
	"github.com/harper/pointedit/internal/ui"
	"github.com/spf13/cobra"
)

// skipStoreAnnotation marks commands that do not need the point store.
const skipStoreAnnotation = "pointedit/skip-store"

var (
	cfg     *config.Config
	store   storage.Store
	session *editor.Session
	logger  = log.New(io.Discard)

	verbose     bool
	backendFlag string
)

var rootCmd = &cobra.Command{
	Use:   "pointedit",
	Short: "Edit an ordered list of labeled map points",
	Long: `
██████╗  ██████╗ ██╗███╗   ██╗████████╗███████╗██████╗ ██╗████████╗
██╔══██╗██╔═══██╗██║████╗  ██║╚══██╔══╝██╔════╝██╔══██╗██║╚══██╔══╝
██████╔╝██║   ██║██║██╔██╗ ██║   ██║   █████╗  ██║  ██║██║   ██║
██╔═══╝ ██║   ██║██║██║╚██╗██║   ██║   ██╔══╝  ██║  ██║██║   ██║
██║     ╚██████╔╝██║██║ ╚████║   ██║   ███████╗██████╔╝██║   ██║
╚═╝      ╚═════╝ ╚═╝╚═╝  ╚═══╝   ╚═╝   ╚══════╝╚═════╝ ╚═╝   ╚═╝

         Place, label, and export points on a map

Examples:
  pointedit add 41.8781 -87.6298 --label chicago
  pointedit list
  pointedit move 1 41.88 -87.63
  pointedit export -o points.json`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadEnv()

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if backendFlag != "" {
			cfg = cfg.WithBackend(backendFlag)
		}

		level := cfg.GetLogLevel()
		if verbose {
			level = "debug"
		}
		logger = newLogger(cmd.ErrOrStderr(), level)

		if cmd.Annotations[skipStoreAnnotation] == "true" {
			return nil
		}
		return openSession(cmd)
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			err := store.Close()
			store = nil
			session = nil
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "",
		"storage backend override ("+strings.Join(storage.Backends, ", ")+")")
}

// openSession opens the configured store and rehydrates the editor session.
func openSession(cmd *cobra.Command) error {
	var err error
	store, err = cfg.OpenStore(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.GetBackend(), err)
	}
	logger.Debug("opened store", "backend", cfg.GetBackend())

	session = editor.Open(cmd.Context(), store, editor.WithLogger(logger))
	if notice := session.Notice(); notice != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.FormatNotice(notice))
	}
	return nil
}

// newLogger builds the stderr logger at the given level name.
func newLogger(w io.Writer, level string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:  parseLevel(level),
		Prefix: "pointedit",
	})
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}
