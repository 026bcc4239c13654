// Package chatcmder provides the chat command: pick a model, load it on
// the inference server, then run the canned demo or an interactive loop.
package chatcmder

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/papercomputeco/parley/pkg/cliui"
	"github.com/papercomputeco/parley/pkg/config"
	"github.com/papercomputeco/parley/pkg/dotdir"
	"github.com/papercomputeco/parley/pkg/history"
	"github.com/papercomputeco/parley/pkg/llm"
	"github.com/papercomputeco/parley/pkg/llm/ollama"
	"github.com/papercomputeco/parley/pkg/logger"
	"github.com/papercomputeco/parley/pkg/session"
)

type chatCommander struct {
	target         string
	timeoutSeconds int
	record         bool
	sqlitePath     string
	model          string
	mode           string
	configDir      string
	debug          bool

	cfg      *config.Config
	sampling llm.SamplingConfig
	logger   *slog.Logger
}

const chatLongDesc string = `Start a chat session against an Ollama-compatible server.

Without flags the command walks through two menus: one to pick the model
and one to pick the demo mode. Canned mode replays the configured prompt
list once; interactive mode reads your messages line by line until you
type quit, exit, or q. Type clear to start a fresh conversation.

Flags skip the menus:
  --model picks the model by tag or menu name
  --mode picks canned or interactive directly

With --record each completed exchange is appended to a local SQLite
history database.

Examples:
  parley chat
  parley chat -m qwen2.5:1.5b --mode interactive
  parley chat --mode canned --record`

const chatShortDesc string = "Chat with a local LLM"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")

			v, err := config.InitViper(cmder.configDir)
			if err != nil {
				return fmt.Errorf("initializing config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.ChatFlags, []string{
				config.FlagTarget,
				config.FlagTimeout,
				config.FlagRecord,
				config.FlagSQLite,
			})

			cmder.target = v.GetString("client.target")
			cmder.timeoutSeconds = v.GetInt("client.timeout_seconds")
			cmder.record = v.GetBool("history.enabled")
			cmder.sqlitePath = v.GetString("history.sqlite_path")

			cmder.sampling = llm.SamplingConfig{
				Temperature:       v.GetFloat64("sampling.temperature"),
				TopP:              v.GetFloat64("sampling.top_p"),
				RepetitionPenalty: v.GetFloat64("sampling.repetition_penalty"),
			}

			// The model menu and canned prompts are not flag-addressable,
			// so they come straight from the config file.
			cfger, err := config.NewConfiger(cmder.configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			cmder.cfg, err = cfger.LoadConfig()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}

			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.ChatFlags, config.FlagTarget, &cmder.target)
	config.AddIntFlag(cmd, config.ChatFlags, config.FlagTimeout, &cmder.timeoutSeconds)
	config.AddBoolFlag(cmd, config.ChatFlags, config.FlagRecord, &cmder.record)
	config.AddStringFlag(cmd, config.ChatFlags, config.FlagSQLite, &cmder.sqlitePath)

	cmd.Flags().StringVarP(&cmder.model, "model", "m", "", "Model tag or menu name (skips the model menu)")
	cmd.Flags().StringVar(&cmder.mode, "mode", "", "Demo mode: canned or interactive (skips the mode menu)")

	return cmd
}

func (c *chatCommander) run() error {
	c.logger = logger.New(
		logger.WithDebug(c.debug),
		logger.WithPretty(true),
		logger.WithWriter(os.Stderr),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// One scanner for menus and the chat loop, so buffered input is not
	// lost between the two.
	scanner := bufio.NewScanner(os.Stdin)

	model, err := c.selectModel(scanner)
	if err != nil {
		return err
	}

	mode, err := c.selectMode(scanner)
	if err != nil {
		return err
	}

	engine := ollama.New(ollama.Config{
		Target:        c.target,
		Model:         model.Tag,
		ContextLength: model.ContextLength,
		Timeout:       time.Duration(c.timeoutSeconds) * time.Second,
	}, c.logger)

	fmt.Println()
	err = cliui.Step(os.Stdout, fmt.Sprintf("Loading %s", cliui.NameStyle.Render(model.Name)), func() error {
		return engine.Load(ctx)
	})
	if err != nil {
		return fmt.Errorf("loading model: %w", err)
	}

	sampling := c.sampling
	sampling.MaxTokens = model.MaxTokens

	opts := []session.Option{
		session.WithLogger(c.logger),
		session.WithMarkdown(term.IsTerminal(int(os.Stdout.Fd()))),
	}

	if c.record {
		rec, err := c.openRecorder()
		if err != nil {
			return err
		}
		defer rec.Close()

		opts = append(opts, session.WithRecording(rec, model.Tag))
	}

	driver := session.New(engine, sampling, scanner, os.Stdout, opts...)

	switch mode {
	case session.ModeInteractive:
		return driver.RunInteractive(ctx)
	default:
		return driver.RunCanned(ctx, c.cfg.Chat.CannedPrompts)
	}
}

// selectModel resolves the --model flag against the configured menu, or
// presents the menu when no flag was given. An unknown flag value still
// chats with that tag using server-side defaults.
func (c *chatCommander) selectModel(scanner *bufio.Scanner) (config.Model, error) {
	if c.model == "" {
		if len(c.cfg.Models) == 0 {
			return config.Model{}, fmt.Errorf("no models configured")
		}
		return session.SelectModel(scanner, os.Stdout, c.cfg.Models), nil
	}

	for _, m := range c.cfg.Models {
		if m.Tag == c.model || m.Name == c.model {
			return m, nil
		}
	}

	return config.Model{Name: c.model, Tag: c.model}, nil
}

// selectMode resolves the --mode flag, or presents the mode menu when no
// flag was given.
func (c *chatCommander) selectMode(scanner *bufio.Scanner) (session.Mode, error) {
	switch c.mode {
	case "":
		return session.SelectMode(scanner, os.Stdout), nil
	case "canned":
		return session.ModeCanned, nil
	case "interactive":
		return session.ModeInteractive, nil
	default:
		return 0, fmt.Errorf("unknown mode %q: expected canned or interactive", c.mode)
	}
}

// openRecorder opens the history database, defaulting to history.db inside
// the resolved .parley directory.
func (c *chatCommander) openRecorder() (history.Recorder, error) {
	path := c.sqlitePath
	if path == "" {
		dir, err := dotdir.NewManager().Ensure(c.configDir)
		if err != nil {
			return nil, fmt.Errorf("resolving history path: %w", err)
		}
		path = filepath.Join(dir, "history.db")
	}

	rec, err := history.NewSQLiteRecorder(path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	return rec, nil
}
