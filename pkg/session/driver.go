// Package session drives the chat loop: it owns the transcript, pushes
// each user utterance through the inference engine, sanitizes the result,
// and displays the exchange. One driver, one transcript, one logical
// thread of control.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/papercomputeco/parley/pkg/cliui"
	"github.com/papercomputeco/parley/pkg/history"
	"github.com/papercomputeco/parley/pkg/llm"
	"github.com/papercomputeco/parley/pkg/logger"
	"github.com/papercomputeco/parley/pkg/sanitize"
	"github.com/papercomputeco/parley/pkg/transcript"
)

// Driver runs canned or interactive chat loops against an inference engine.
type Driver struct {
	engine     llm.Engine
	sampling   llm.SamplingConfig
	transcript *transcript.Transcript

	in  *bufio.Scanner
	out io.Writer

	logger   *slog.Logger
	markdown bool

	recorder  history.Recorder
	model     string
	sessionID string
	seq       int
}

// Option configures a Driver created with New.
type Option func(*Driver)

// WithLogger sets the driver's logger. Defaults to a nop logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) { d.logger = l }
}

// WithMarkdown renders assistant replies as markdown for terminal display.
func WithMarkdown(enabled bool) Option {
	return func(d *Driver) { d.markdown = enabled }
}

// WithRecording appends each completed exchange to the given recorder under
// a fresh session for the given model tag.
func WithRecording(rec history.Recorder, model string) Option {
	return func(d *Driver) {
		d.recorder = rec
		d.model = model
	}
}

// New creates a driver reading user input from in and writing the
// conversation display to out. The scanner is shared with the menu helpers
// so buffered input is never lost between selection and the chat loop.
// The transcript starts empty.
func New(engine llm.Engine, sampling llm.SamplingConfig, in *bufio.Scanner, out io.Writer, opts ...Option) *Driver {
	d := &Driver{
		engine:     engine,
		sampling:   sampling,
		transcript: transcript.New(),
		in:         in,
		out:        out,
		logger:     logger.Nop(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Transcript exposes the driver's transcript, mainly for inspection in
// tests and by the clear command.
func (d *Driver) Transcript() *transcript.Transcript {
	return d.transcript
}

// RunCanned replays the given prompts in order, once, using the growing
// transcript as context for each call. An inference failure aborts the run.
func (d *Driver) RunCanned(ctx context.Context, prompts []string) error {
	fmt.Fprintln(d.out)
	fmt.Fprintln(d.out, menuRule)
	fmt.Fprintln(d.out, "CANNED DEMO MODE - Testing with pre-defined prompts")
	fmt.Fprintln(d.out, menuRule)

	if err := d.beginRecording(ctx); err != nil {
		return err
	}

	for _, prompt := range prompts {
		fmt.Fprintf(d.out, "\n%s%s\n", cliui.UserPrompt, prompt)

		reply, err := d.exchange(ctx, prompt)
		if err != nil {
			return fmt.Errorf("generating response: %w", err)
		}

		d.display(reply)
	}

	fmt.Fprintln(d.out)
	fmt.Fprintln(d.out, menuRule)
	fmt.Fprintln(d.out, "Canned demo completed!")
	fmt.Fprintln(d.out, menuRule)

	return nil
}

// RunInteractive reads user lines until quit, end-of-input, or context
// cancellation. A failed inference call rolls the user turn back so it can
// be retried; the loop itself keeps going.
func (d *Driver) RunInteractive(ctx context.Context) error {
	fmt.Fprintln(d.out)
	fmt.Fprintln(d.out, menuRule)
	fmt.Fprintln(d.out, "INTERACTIVE MODE")
	fmt.Fprintln(d.out, "Commands:")
	fmt.Fprintln(d.out, "  - Type 'quit', 'exit', or 'q' to end")
	fmt.Fprintln(d.out, "  - Type 'clear' to start a fresh conversation")
	fmt.Fprintln(d.out, menuRule)

	if err := d.beginRecording(ctx); err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			d.farewell()
			return nil
		}

		fmt.Fprintf(d.out, "\n%s", cliui.UserPrompt)
		if !d.in.Scan() {
			// EOF or read error; either way the loop is over.
			d.farewell()
			return d.in.Err()
		}

		input := strings.TrimSpace(d.in.Text())

		switch strings.ToLower(input) {
		case "quit", "exit", "q":
			d.farewell()
			return nil
		case "clear":
			d.transcript.Clear()
			fmt.Fprintln(d.out, "Conversation cleared!")
			continue
		case "":
			continue
		}

		reply, err := d.exchange(ctx, input)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				d.farewell()
				return nil
			}
			fmt.Fprintf(d.out, "  %s %v\n", cliui.FailMark, err)
			continue
		}

		d.display(reply)
	}
}

// exchange pushes one user utterance through the engine and returns the
// sanitized reply. On failure the user turn is rolled back.
func (d *Driver) exchange(ctx context.Context, input string) (string, error) {
	d.transcript.Append(transcript.Human, input)
	prompt := d.transcript.Render()

	d.logger.Debug("running inference",
		"turns", d.transcript.Len(),
		"prompt_bytes", len(prompt),
	)

	raw, err := d.engine.Generate(ctx, prompt, d.sampling)
	if err != nil {
		d.transcript.DropLast()
		return "", err
	}

	reply := sanitize.Clean(raw)
	d.transcript.Append(transcript.Assistant, reply)

	d.record(ctx, input, reply)

	return reply, nil
}

func (d *Driver) display(reply string) {
	if d.markdown {
		if rendered, err := cliui.RenderMarkdown(reply); err == nil {
			fmt.Fprintf(d.out, "%s%s", cliui.BotPrompt, rendered)
			return
		}
	}
	fmt.Fprintf(d.out, "%s%s\n", cliui.BotPrompt, reply)
}

func (d *Driver) farewell() {
	fmt.Fprintln(d.out, "\nGoodbye!")
}

func (d *Driver) beginRecording(ctx context.Context) error {
	if d.recorder == nil {
		return nil
	}

	id, err := d.recorder.Begin(ctx, d.model)
	if err != nil {
		return fmt.Errorf("beginning history session: %w", err)
	}

	d.sessionID = id
	d.seq = 0
	return nil
}

// record appends the exchange to the history database. Recording failures
// are logged and otherwise ignored.
func (d *Driver) record(ctx context.Context, prompt, reply string) {
	if d.recorder == nil {
		return
	}

	d.seq++
	err := d.recorder.Record(ctx, history.Exchange{
		SessionID: d.sessionID,
		Seq:       d.seq,
		Prompt:    prompt,
		Response:  reply,
	})
	if err != nil {
		d.logger.Warn("recording exchange failed", "err", err, "seq", d.seq)
	}
}
