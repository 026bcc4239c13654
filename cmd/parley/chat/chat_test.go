package chatcmder_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	chatcmder "github.com/papercomputeco/parley/cmd/parley/chat"
)

var _ = Describe("NewChatCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := chatcmder.NewChatCmd()
		Expect(cmd.Use).To(Equal("chat"))
	})

	It("has --model flag with the m shorthand", func() {
		cmd := chatcmder.NewChatCmd()
		flag := cmd.Flags().Lookup("model")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("m"))
	})

	It("has --mode flag with no default", func() {
		cmd := chatcmder.NewChatCmd()
		flag := cmd.Flags().Lookup("mode")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal(""))
	})

	It("has --target flag with the configured default", func() {
		cmd := chatcmder.NewChatCmd()
		flag := cmd.Flags().Lookup("target")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("t"))
		Expect(flag.DefValue).To(Equal("http://localhost:11434"))
	})

	It("has --timeout flag with the configured default", func() {
		cmd := chatcmder.NewChatCmd()
		flag := cmd.Flags().Lookup("timeout")
		Expect(flag).NotTo(BeNil())
		Expect(flag.DefValue).To(Equal("300"))
	})

	It("has --record flag defaulting to off", func() {
		cmd := chatcmder.NewChatCmd()
		flag := cmd.Flags().Lookup("record")
		Expect(flag).NotTo(BeNil())
		Expect(flag.Shorthand).To(Equal("r"))
		Expect(flag.DefValue).To(Equal("false"))
	})

	It("has --sqlite flag for the history database path", func() {
		cmd := chatcmder.NewChatCmd()
		flag := cmd.Flags().Lookup("sqlite")
		Expect(flag).NotTo(BeNil())
	})

	It("rejects positional arguments", func() {
		cmd := chatcmder.NewChatCmd()
		cmd.SetArgs([]string{"unexpected"})
		err := cmd.Execute()
		Expect(err).To(HaveOccurred())
	})
})
