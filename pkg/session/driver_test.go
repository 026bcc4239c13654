package session_test

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/parley/pkg/history"
	"github.com/papercomputeco/parley/pkg/llm"
	"github.com/papercomputeco/parley/pkg/session"
)

// fakeEngine returns scripted replies and captures every prompt it sees.
type fakeEngine struct {
	prompts []string
	replies []string
	errs    []error
	calls   int
}

func (f *fakeEngine) Generate(_ context.Context, prompt string, _ llm.SamplingConfig) (string, error) {
	f.prompts = append(f.prompts, prompt)
	i := f.calls
	f.calls++

	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	if i < len(f.replies) {
		return f.replies[i], nil
	}
	return "ok", nil
}

// fakeRecorder captures recorded exchanges in memory.
type fakeRecorder struct {
	model     string
	exchanges []history.Exchange
}

func (f *fakeRecorder) Begin(_ context.Context, model string) (string, error) {
	f.model = model
	return "session-1", nil
}

func (f *fakeRecorder) Record(_ context.Context, ex history.Exchange) error {
	f.exchanges = append(f.exchanges, ex)
	return nil
}

func (f *fakeRecorder) Exchanges(_ context.Context, _ string) ([]history.Exchange, error) {
	return f.exchanges, nil
}

func (f *fakeRecorder) Sessions(_ context.Context) ([]history.Session, error) {
	return nil, nil
}

func (f *fakeRecorder) Close() error { return nil }

var _ = Describe("Driver", func() {
	var (
		engine   *fakeEngine
		out      *bytes.Buffer
		sampling llm.SamplingConfig
		ctx      context.Context
	)

	BeforeEach(func() {
		engine = &fakeEngine{}
		out = &bytes.Buffer{}
		sampling = llm.SamplingConfig{Temperature: 0.8, TopP: 0.95, MaxTokens: 512, RepetitionPenalty: 1.2}
		ctx = context.Background()
	})

	Describe("RunCanned", func() {
		It("produces one exchange per prompt with growing context", func() {
			engine.replies = []string{"I'm well!", "Paris.", "Why did the gopher cross the road?"}
			prompts := []string{
				"Hello, how are you?",
				"What is the capital of France?",
				"Tell me a short joke",
			}

			d := session.New(engine, sampling, bufio.NewScanner(strings.NewReader("")), out)
			Expect(d.RunCanned(ctx, prompts)).To(Succeed())

			Expect(engine.prompts).To(HaveLen(3))

			Expect(engine.prompts[0]).To(Equal("Human: Hello, how are you?\nAssistant:"))

			// Each later call carries the full prior conversation.
			Expect(engine.prompts[1]).To(Equal(
				"Human: Hello, how are you?\nAssistant: I'm well!\nHuman: What is the capital of France?\nAssistant:",
			))
			Expect(engine.prompts[2]).To(ContainSubstring("Paris."))
			Expect(engine.prompts[2]).To(HaveSuffix("Human: Tell me a short joke\nAssistant:"))

			display := out.String()
			Expect(display).To(ContainSubstring("I'm well!"))
			Expect(display).To(ContainSubstring("Paris."))
			Expect(display).To(ContainSubstring("Why did the gopher cross the road?"))
			Expect(display).To(ContainSubstring("Canned demo completed!"))
		})

		It("sanitizes replies before they join the context", func() {
			engine.replies = []string{"Fine, thanks!\nHuman: invented turn", "second"}

			d := session.New(engine, sampling, bufio.NewScanner(strings.NewReader("")), out)
			Expect(d.RunCanned(ctx, []string{"hi", "again"})).To(Succeed())

			Expect(engine.prompts[1]).To(Equal(
				"Human: hi\nAssistant: Fine, thanks!\nHuman: again\nAssistant:",
			))
			Expect(out.String()).NotTo(ContainSubstring("invented turn"))
		})

		It("aborts on an inference failure", func() {
			engine.errs = []error{errors.New("backend gone")}

			d := session.New(engine, sampling, bufio.NewScanner(strings.NewReader("")), out)
			err := d.RunCanned(ctx, []string{"hi"})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("backend gone"))
		})
	})

	Describe("RunInteractive", func() {
		It("chats until quit", func() {
			engine.replies = []string{"hello back"}

			d := session.New(engine, sampling, bufio.NewScanner(strings.NewReader("hi there\nquit\n")), out)
			Expect(d.RunInteractive(ctx)).To(Succeed())

			Expect(engine.calls).To(Equal(1))
			Expect(out.String()).To(ContainSubstring("hello back"))
			Expect(out.String()).To(ContainSubstring("Goodbye!"))
		})

		It("terminates on exit and q as well", func() {
			for _, cmd := range []string{"exit\n", "q\n", "QUIT\n"} {
				buf := &bytes.Buffer{}
				d := session.New(&fakeEngine{}, sampling, bufio.NewScanner(strings.NewReader(cmd)), buf)
				Expect(d.RunInteractive(ctx)).To(Succeed())
				Expect(buf.String()).To(ContainSubstring("Goodbye!"))
			}
		})

		It("clears the transcript without terminating", func() {
			engine.replies = []string{"first reply", "second reply"}

			d := session.New(engine, sampling,
				bufio.NewScanner(strings.NewReader("first\nclear\nsecond\nquit\n")), out)
			Expect(d.RunInteractive(ctx)).To(Succeed())

			Expect(out.String()).To(ContainSubstring("Conversation cleared!"))

			// The post-clear exchange must not carry the first exchange.
			Expect(engine.prompts).To(HaveLen(2))
			Expect(engine.prompts[1]).To(Equal("Human: second\nAssistant:"))

			// Only the post-clear exchange remains in the transcript.
			Expect(d.Transcript().Render()).To(Equal(
				"Human: second\nAssistant: second reply\nAssistant:",
			))
		})

		It("ignores empty input lines", func() {
			d := session.New(engine, sampling, bufio.NewScanner(strings.NewReader("\n   \nquit\n")), out)
			Expect(d.RunInteractive(ctx)).To(Succeed())
			Expect(engine.calls).To(Equal(0))
		})

		It("terminates gracefully on end-of-input", func() {
			d := session.New(engine, sampling, bufio.NewScanner(strings.NewReader("")), out)
			Expect(d.RunInteractive(ctx)).To(Succeed())
			Expect(engine.calls).To(Equal(0))
			Expect(out.String()).To(ContainSubstring("Goodbye!"))
		})

		It("terminates gracefully when the context is already canceled", func() {
			canceled, cancel := context.WithCancel(context.Background())
			cancel()

			d := session.New(engine, sampling, bufio.NewScanner(strings.NewReader("hi\n")), out)
			Expect(d.RunInteractive(canceled)).To(Succeed())
			Expect(engine.calls).To(Equal(0))
			Expect(out.String()).To(ContainSubstring("Goodbye!"))
		})

		It("rolls back the user turn on a failed call and keeps going", func() {
			engine.errs = []error{errors.New("transient")}
			engine.replies = []string{"", "recovered"}

			d := session.New(engine, sampling, bufio.NewScanner(strings.NewReader("hi\nhi again\nquit\n")), out)
			Expect(d.RunInteractive(ctx)).To(Succeed())

			Expect(engine.calls).To(Equal(2))
			Expect(out.String()).To(ContainSubstring("transient"))

			// The failed turn left no residue in the second prompt.
			Expect(engine.prompts[1]).To(Equal("Human: hi again\nAssistant:"))
		})
	})

	Describe("recording", func() {
		It("records each completed exchange in sequence", func() {
			engine.replies = []string{"r1", "r2"}
			rec := &fakeRecorder{}

			d := session.New(engine, sampling, bufio.NewScanner(strings.NewReader("")), out,
				session.WithRecording(rec, "qwen2.5:0.5b"))
			Expect(d.RunCanned(ctx, []string{"p1", "p2"})).To(Succeed())

			Expect(rec.model).To(Equal("qwen2.5:0.5b"))
			Expect(rec.exchanges).To(HaveLen(2))
			Expect(rec.exchanges[0].Seq).To(Equal(1))
			Expect(rec.exchanges[0].Prompt).To(Equal("p1"))
			Expect(rec.exchanges[0].Response).To(Equal("r1"))
			Expect(rec.exchanges[1].Seq).To(Equal(2))
		})
	})
})
