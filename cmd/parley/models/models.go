// Package modelscmder provides the models command for inspecting the
// configured model menu.
package modelscmder

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/parley/pkg/cliui"
	"github.com/papercomputeco/parley/pkg/config"
)

const modelsLongDesc string = `Show the configured model menu.

Lists each [[models]] entry from config.toml in menu order. The first
entry is the default used when the chat model menu gets blank or
invalid input.

Examples:
  parley models`

const modelsShortDesc string = "Show the configured model menu"

func NewModelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: modelsShortDesc,
		Long:  modelsLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			return runModels(os.Stdout, configDir)
		},
	}

	return cmd
}

func runModels(w io.Writer, configDir string) error {
	cfger, err := config.NewConfiger(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfg, err := cfger.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fmt.Fprintln(w)
	for i, m := range cfg.Models {
		marker := " "
		if i == 0 {
			marker = cliui.SuccessMark
		}

		fmt.Fprintf(w, "  %s %d. %s %s\n",
			marker,
			i+1,
			cliui.NameStyle.Render(m.Name),
			cliui.DimStyle.Render(fmt.Sprintf("(%s)", m.Tag)),
		)
		if m.Description != "" {
			fmt.Fprintf(w, "       %s\n", cliui.DimStyle.Render(m.Description))
		}
		fmt.Fprintf(w, "       %s %d tokens out, %d context\n",
			cliui.KeyStyle.Render("limits:"),
			m.MaxTokens,
			m.ContextLength,
		)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  %s\n\n", cliui.DimStyle.Render("First entry is the menu default."))

	return nil
}
