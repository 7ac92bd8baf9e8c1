// ABOUTME: CLI commands to manage chat presets and move them between machines as YAML
// ABOUTME: Presets live in the local SQLite database under the data directory
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/harper/slidechat/internal/config"
	"github.com/harper/slidechat/internal/models"
	"github.com/harper/slidechat/internal/storage/sqlite"
)

// NewPresetCmd creates the preset command group
func NewPresetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage saved chat presets",
		Long: `Manage saved chat presets.

A preset stores a model, system prompt, memory size, and sampling
parameters under a name. Start a chat from one with --preset.

Examples:
  slidechat preset save concise --system "Answer in one sentence." --max-tokens 60
  slidechat preset list
  slidechat preset show concise --format json
  slidechat preset delete concise
  slidechat preset export concise > concise.yaml
  slidechat preset import concise.yaml --name concise-copy`,
	}

	cmd.AddCommand(newPresetSaveCmd())
	cmd.AddCommand(newPresetListCmd())
	cmd.AddCommand(newPresetShowCmd())
	cmd.AddCommand(newPresetDeleteCmd())
	cmd.AddCommand(newPresetExportCmd())
	cmd.AddCommand(newPresetImportCmd())

	return cmd
}

func newPresetSaveCmd() *cobra.Command {
	flags := &chatFlags{}

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Create or update a preset",
		Long: `Create or update a preset.

Unset flags keep the existing preset's values, or the current
environment defaults for a new preset.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			store, closeStore, err := openPresetStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			existing, err := store.Get(args[0])
			switch {
			case err == nil:
				cfg.ApplyPreset(existing)
			case errors.Is(err, sqlite.ErrPresetNotFound):
				existing = &models.Preset{Name: args[0]}
			default:
				return err
			}

			flags.apply(cmd.Flags(), cfg)
			existing.Model = cfg.Model
			existing.SystemPrompt = cfg.SystemPrompt
			existing.MaxTurns = cfg.MaxTurns
			existing.Params = cfg.Params

			if err := store.Save(existing); err != nil {
				return err
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved preset %s\n", existing.Name)
			}
			return nil
		},
	}

	flags.register(cmd.Flags())
	// Presets do not carry these
	_ = cmd.Flags().MarkHidden("preset")
	_ = cmd.Flags().MarkHidden("wrap")
	return cmd
}

func newPresetListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			store, closeStore, err := openPresetStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			presets, err := store.List()
			if err != nil {
				return err
			}

			if outputFormat == "json" {
				if presets == nil {
					presets = []*models.Preset{}
				}
				return writeJSON(cmd, presets)
			}

			if len(presets) == 0 {
				if !quiet {
					fmt.Fprintln(cmd.OutOrStdout(), "No presets saved. Create one with: slidechat preset save <name>")
				}
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "NAME\tMODEL\tTURNS\tTOKENS\tTEMP\tTOP-P\tSYSTEM PROMPT\tUPDATED\n")
			for _, p := range presets {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.2f\t%.2f\t%s\t%s\n",
					p.Name, p.Model, p.MaxTurns, p.Params.MaxNewTokens,
					p.Params.Temperature, p.Params.TopP,
					truncate(p.SystemPrompt, 40), formatTime(p.UpdatedAt))
			}
			return w.Flush()
		},
	}
}

func newPresetShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show one preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPresetFromEnv(args[0])
			if err != nil {
				return err
			}

			if outputFormat == "json" {
				return writeJSON(cmd, p)
			}

			system := p.SystemPrompt
			if system == "" {
				system = "(none)"
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "FIELD\tVALUE\n")
			fmt.Fprintf(w, "-----\t-----\n")
			fmt.Fprintf(w, "Name\t%s\n", p.Name)
			fmt.Fprintf(w, "Model\t%s\n", p.Model)
			fmt.Fprintf(w, "System prompt\t%s\n", system)
			fmt.Fprintf(w, "Max turns\t%d\n", p.MaxTurns)
			fmt.Fprintf(w, "Max tokens\t%d\n", p.Params.MaxNewTokens)
			fmt.Fprintf(w, "Temperature\t%g\n", p.Params.Temperature)
			fmt.Fprintf(w, "Top-p\t%g\n", p.Params.TopP)
			fmt.Fprintf(w, "Updated\t%s\n", formatTime(p.UpdatedAt))
			return w.Flush()
		},
	}
}

func newPresetDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			store, closeStore, err := openPresetStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := store.Delete(args[0]); err != nil {
				return err
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted preset %s\n", args[0])
			}
			return nil
		},
	}
}

func newPresetExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <name>",
		Short: "Write a preset as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPresetFromEnv(args[0])
			if err != nil {
				return err
			}
			data, err := models.EncodePresetYAML(p)
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported preset %s to %s\n", p.Name, output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of stdout")
	return cmd
}

func newPresetImportCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Save a preset from a YAML file",
		Long: `Save a preset from a YAML file.

Use - to read from stdin. An existing preset with the same name is
replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			var err error
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			if name != "" {
				// Rename before validation so a bad name in the file can be fixed here
				data, err = renamePresetYAML(data, name)
				if err != nil {
					return err
				}
			}
			p, err := models.DecodePresetYAML(data)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			store, closeStore, err := openPresetStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			if existing, err := store.Get(p.Name); err == nil {
				p.CreatedAt = existing.CreatedAt
			}
			if err := store.Save(p); err != nil {
				return err
			}
			if !quiet {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported preset %s\n", p.Name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Save under this name instead of the one in the file")
	return cmd
}

// renamePresetYAML replaces the top-level name key of a preset document
func renamePresetYAML(data []byte, name string) ([]byte, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing preset: %w", err)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	doc["name"] = name
	return yaml.Marshal(doc)
}

// openPresetStore opens the database in cfg.DataDir
func openPresetStore(cfg *config.Config) (*sqlite.PresetStore, func(), error) {
	db, err := sqlite.Open(sqlite.PathIn(cfg.DataDir))
	if err != nil {
		return nil, nil, fmt.Errorf("initializing storage: %w", err)
	}
	return sqlite.NewPresetStore(db), func() { _ = db.Close() }, nil
}

func loadPresetFromEnv(name string) (*models.Preset, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return loadPreset(cfg, name)
}

// loadPreset fetches a single preset by name
func loadPreset(cfg *config.Config, name string) (*models.Preset, error) {
	store, closeStore, err := openPresetStore(cfg)
	if err != nil {
		return nil, err
	}
	defer closeStore()
	return store.Get(name)
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", data)
	return nil
}
