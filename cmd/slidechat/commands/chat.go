// ABOUTME: CLI command that runs the interactive chat loop
// ABOUTME: Resolves config from env, preset, and flags, then drives the REPL
package commands

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/harper/slidechat/internal/chat"
	"github.com/harper/slidechat/internal/config"
	"github.com/harper/slidechat/internal/llm"
	"github.com/harper/slidechat/internal/models"
)

// chatFlags are the per-session overrides shared by chat, mcp, and the root command
type chatFlags struct {
	model       string
	system      string
	preset      string
	maxTurns    int
	maxTokens   int
	temperature float64
	topP        float64
	wrap        int
}

func (f *chatFlags) register(fs *pflag.FlagSet) {
	defaults := models.DefaultGenerationParams()
	fs.StringVar(&f.model, "model", llm.DefaultModel, "Model name sent to the completion API")
	fs.StringVar(&f.system, "system", config.DefaultSystemPrompt, "System prompt placed before the history (empty to disable)")
	fs.StringVar(&f.preset, "preset", "", "Start from a saved preset")
	fs.IntVar(&f.maxTurns, "max-turns", 3, "Number of recent user/bot turn pairs to remember")
	fs.IntVar(&f.maxTokens, "max-tokens", defaults.MaxNewTokens, "Maximum tokens to generate per reply")
	fs.Float64Var(&f.temperature, "temperature", defaults.Temperature, "Sampling temperature (0,2]")
	fs.Float64Var(&f.topP, "top-p", defaults.TopP, "Nucleus sampling threshold (0,1]")
	fs.IntVar(&f.wrap, "wrap", 90, "Wrap replies at this many columns (0 disables)")
}

// apply copies explicitly set flags over cfg
func (f *chatFlags) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("model") {
		cfg.Model = f.model
	}
	if fs.Changed("system") {
		cfg.SystemPrompt = f.system
	}
	if fs.Changed("max-turns") {
		cfg.MaxTurns = f.maxTurns
	}
	if fs.Changed("max-tokens") {
		cfg.Params.MaxNewTokens = f.maxTokens
	}
	if fs.Changed("temperature") {
		cfg.Params.Temperature = f.temperature
	}
	if fs.Changed("top-p") {
		cfg.Params.TopP = f.topP
	}
	if fs.Changed("wrap") {
		cfg.WrapWidth = f.wrap
	}
}

// NewChatCmd creates the chat command
func NewChatCmd() *cobra.Command {
	flags := &chatFlags{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat",
		Long: `Start an interactive chat.

The bot remembers the last --max-turns user/bot pairs. Older turns
are dropped as new ones arrive. Type /exit to quit, /clear to reset
memory, /history to see the context sent to the model.

Settings are resolved in order: defaults, environment, --preset,
then explicit flags.

Examples:
  slidechat chat
  slidechat chat --max-turns 5 --max-tokens 200
  slidechat chat --preset concise
  OPENAI_BASE_URL=http://localhost:8000/v1 slidechat chat --model distilgpt2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, flags)
		},
	}

	flags.register(cmd.Flags())
	return cmd
}

func runChat(cmd *cobra.Command, flags *chatFlags) error {
	logger := newLogger(cmd)

	cfg, err := resolveConfig(cmd, flags, logger)
	if err != nil {
		return err
	}

	session, err := newSession(cfg, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repl := chat.NewREPL(session, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
	logger.Info("chat started", "model", cfg.Model, "max_turns", cfg.MaxTurns, "session", session.ID()[:8])
	if !quiet && isTerminal(cmd.InOrStdin()) {
		repl.Banner()
	}
	return repl.Run(ctx)
}

// isTerminal reports whether r is an interactive terminal
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// resolveConfig loads .env and the environment, then applies a preset and flags
func resolveConfig(cmd *cobra.Command, flags *chatFlags, logger *log.Logger) (*config.Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", "err", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if flags.preset != "" {
		preset, err := loadPreset(cfg, flags.preset)
		if err != nil {
			return nil, err
		}
		cfg.ApplyPreset(preset)
		logger.Debug("preset applied", "preset", preset.Name)
	}

	flags.apply(cmd.Flags(), cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}

// newSession builds the generation client and a fresh conversation
func newSession(cfg *config.Config, logger *log.Logger) (*chat.Session, error) {
	if err := cfg.RequireCredentials(); err != nil {
		return nil, err
	}

	client, err := llm.NewOpenAIClientWithConfig(&llm.ClientConfig{
		APIKey:     cfg.OpenAIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Echo:       cfg.Echo,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing model client: %w", err)
	}

	session, err := chat.NewSession(client, chat.Options{
		MaxTurns:     cfg.MaxTurns,
		SystemPrompt: cfg.SystemPrompt,
		Params:       cfg.Params,
		WrapWidth:    cfg.WrapWidth,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	return session, nil
}
