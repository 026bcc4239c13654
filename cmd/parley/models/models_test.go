package modelscmder_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	modelscmder "github.com/papercomputeco/parley/cmd/parley/models"
)

var _ = Describe("NewModelsCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := modelscmder.NewModelsCmd()
		Expect(cmd.Use).To(Equal("models"))
	})

	It("rejects positional arguments", func() {
		cmd := modelscmder.NewModelsCmd()
		cmd.SetArgs([]string{"extra"})
		err := cmd.Execute()
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Models command execution", func() {
	var (
		tmpDir  string
		origDir string
	)

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "parley-models-test-*")
		Expect(err).NotTo(HaveOccurred())

		origDir, err = os.Getwd()
		Expect(err).NotTo(HaveOccurred())

		err = os.MkdirAll(filepath.Join(tmpDir, ".parley"), 0o755)
		Expect(err).NotTo(HaveOccurred())

		err = os.Chdir(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		err := os.Chdir(origDir)
		Expect(err).NotTo(HaveOccurred())
		os.RemoveAll(tmpDir)
	})

	It("lists the default model menu without error", func() {
		cmd := modelscmder.NewModelsCmd()
		cmd.SetArgs([]string{})
		err := cmd.Execute()
		Expect(err).NotTo(HaveOccurred())
	})
})
