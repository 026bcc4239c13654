// Package parleycmder
package parleycmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/papercomputeco/parley/cmd/parley/chat"
	configcmder "github.com/papercomputeco/parley/cmd/parley/config"
	modelscmder "github.com/papercomputeco/parley/cmd/parley/models"
	versioncmder "github.com/papercomputeco/parley/cmd/version"
)

const parleyLongDesc string = `Parley is a terminal chatbot for local LLM inference.

Chat against any Ollama-compatible server using:
  parley chat                Pick a model and mode interactively
  parley chat -m qwen2.5:1.5b --mode interactive
  parley models              Show the configured model menu
  parley config list         Show the persistent configuration`

const parleyShortDesc string = "Parley - Terminal LLM Chat"

func NewParleyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parley",
		Short: parleyShortDesc,
		Long:  parleyLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .parley config directory")

	// Add subcommands
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(modelscmder.NewModelsCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
