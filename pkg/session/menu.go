package session

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/papercomputeco/parley/pkg/config"
)

// Mode selects how the chat loop sources user input.
type Mode int

const (
	// ModeCanned replays the configured prompt list once.
	ModeCanned Mode = iota + 1

	// ModeInteractive reads prompts from the user line by line.
	ModeInteractive
)

const menuRule = "======================================================================"

// SelectModel presents the model menu and reads one selection line.
// Blank input, end-of-input, or an invalid entry all resolve to the first
// model; an explicit invalid entry gets a notice before defaulting.
func SelectModel(in *bufio.Scanner, out io.Writer, models []config.Model) config.Model {
	fallback := models[0]

	fmt.Fprintln(out, menuRule)
	fmt.Fprintln(out, "Select model:")
	for i, m := range models {
		fmt.Fprintf(out, "  %d. %s\n", i+1, m.Description)
	}
	fmt.Fprintln(out, menuRule)
	fmt.Fprintf(out, "\nEnter choice (1-%d, press Enter for default): ", len(models))

	if !in.Scan() {
		fmt.Fprintf(out, "\nDefaulting to %s...\n", fallback.Name)
		return fallback
	}

	choice := strings.TrimSpace(in.Text())
	if choice == "" {
		return fallback
	}

	n, err := strconv.Atoi(choice)
	if err != nil || n < 1 || n > len(models) {
		fmt.Fprintf(out, "Invalid choice %q, defaulting to %s...\n", choice, fallback.Name)
		return fallback
	}

	return models[n-1]
}

// SelectMode presents the mode menu and reads one selection line.
// Canned mode is the default for blank, invalid, or end-of-input.
func SelectMode(in *bufio.Scanner, out io.Writer) Mode {
	fmt.Fprintln(out, menuRule)
	fmt.Fprintln(out, "Select demo mode:")
	fmt.Fprintln(out, "  1. Canned demo (default) - Quick test with pre-defined prompts")
	fmt.Fprintln(out, "  2. Interactive mode - Chat with the bot yourself")
	fmt.Fprintln(out, menuRule)
	fmt.Fprint(out, "\nEnter choice (1 or 2, press Enter for default): ")

	if !in.Scan() {
		fmt.Fprintln(out, "\nDefaulting to canned demo...")
		return ModeCanned
	}

	choice := strings.TrimSpace(in.Text())
	switch choice {
	case "", "1":
		return ModeCanned
	case "2":
		return ModeInteractive
	default:
		fmt.Fprintf(out, "Invalid choice %q, defaulting to canned demo...\n", choice)
		return ModeCanned
	}
}
