package history_test

import (
	"context"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/parley/pkg/history"
)

var _ = Describe("SQLiteRecorder", func() {
	var (
		rec *history.SQLiteRecorder
		ctx context.Context
	)

	BeforeEach(func() {
		var err error
		rec, err = history.NewSQLiteRecorder(":memory:")
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
	})

	AfterEach(func() {
		Expect(rec.Close()).To(Succeed())
	})

	It("begins a session with a unique id", func() {
		id1, err := rec.Begin(ctx, "qwen2.5:0.5b")
		Expect(err).NotTo(HaveOccurred())
		Expect(id1).NotTo(BeEmpty())

		id2, err := rec.Begin(ctx, "qwen2.5:0.5b")
		Expect(err).NotTo(HaveOccurred())
		Expect(id2).NotTo(Equal(id1))
	})

	It("records exchanges and returns them in sequence order", func() {
		id, err := rec.Begin(ctx, "qwen2.5:1.5b")
		Expect(err).NotTo(HaveOccurred())

		Expect(rec.Record(ctx, history.Exchange{
			SessionID: id, Seq: 2, Prompt: "second", Response: "two",
		})).To(Succeed())
		Expect(rec.Record(ctx, history.Exchange{
			SessionID: id, Seq: 1, Prompt: "first", Response: "one",
		})).To(Succeed())

		exchanges, err := rec.Exchanges(ctx, id)
		Expect(err).NotTo(HaveOccurred())
		Expect(exchanges).To(HaveLen(2))
		Expect(exchanges[0].Prompt).To(Equal("first"))
		Expect(exchanges[1].Prompt).To(Equal("second"))
	})

	It("rejects a duplicate sequence number within a session", func() {
		id, err := rec.Begin(ctx, "m")
		Expect(err).NotTo(HaveOccurred())

		Expect(rec.Record(ctx, history.Exchange{SessionID: id, Seq: 1, Prompt: "a", Response: "b"})).To(Succeed())
		Expect(rec.Record(ctx, history.Exchange{SessionID: id, Seq: 1, Prompt: "c", Response: "d"})).NotTo(Succeed())
	})

	It("keeps sessions isolated", func() {
		id1, err := rec.Begin(ctx, "m")
		Expect(err).NotTo(HaveOccurred())
		id2, err := rec.Begin(ctx, "m")
		Expect(err).NotTo(HaveOccurred())

		Expect(rec.Record(ctx, history.Exchange{SessionID: id1, Seq: 1, Prompt: "p1", Response: "r1"})).To(Succeed())
		Expect(rec.Record(ctx, history.Exchange{SessionID: id2, Seq: 1, Prompt: "p2", Response: "r2"})).To(Succeed())

		exchanges, err := rec.Exchanges(ctx, id1)
		Expect(err).NotTo(HaveOccurred())
		Expect(exchanges).To(HaveLen(1))
		Expect(exchanges[0].Prompt).To(Equal("p1"))
	})

	It("lists recorded sessions with their model tags", func() {
		_, err := rec.Begin(ctx, "qwen2.5:0.5b")
		Expect(err).NotTo(HaveOccurred())

		sessions, err := rec.Sessions(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(sessions).To(HaveLen(1))
		Expect(sessions[0].Model).To(Equal("qwen2.5:0.5b"))
	})

	It("creates the parent directory for a file-backed database", func() {
		tmpDir, err := os.MkdirTemp("", "parley-history-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(func() { os.RemoveAll(tmpDir) })

		path := filepath.Join(tmpDir, "nested", "history.db")
		fileRec, err := history.NewSQLiteRecorder(path)
		Expect(err).NotTo(HaveOccurred())
		defer fileRec.Close()

		_, err = os.Stat(path)
		Expect(err).NotTo(HaveOccurred())
	})
})
