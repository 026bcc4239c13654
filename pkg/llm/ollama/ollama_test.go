package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/parley/pkg/llm"
	"github.com/papercomputeco/parley/pkg/llm/ollama"
)

var _ = Describe("Client", func() {
	Describe("Generate", func() {
		It("sends the prompt and sampling options in Ollama's native format", func() {
			var captured map[string]any

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/api/generate"))
				Expect(r.Method).To(Equal(http.MethodPost))

				err := json.NewDecoder(r.Body).Decode(&captured)
				Expect(err).NotTo(HaveOccurred())

				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(map[string]any{
					"model":    "qwen2.5:0.5b",
					"response": "Paris is the capital of France.",
					"done":     true,
				})
			}))
			defer server.Close()

			client := ollama.New(ollama.Config{
				Target:        server.URL,
				Model:         "qwen2.5:0.5b",
				ContextLength: 2048,
			}, nil)

			text, err := client.Generate(context.Background(), "Human: capital of France?\nAssistant:", llm.SamplingConfig{
				Temperature:       0.8,
				TopP:              0.95,
				MaxTokens:         512,
				RepetitionPenalty: 1.2,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("Paris is the capital of France."))

			Expect(captured["model"]).To(Equal("qwen2.5:0.5b"))
			Expect(captured["prompt"]).To(Equal("Human: capital of France?\nAssistant:"))
			Expect(captured["stream"]).To(BeFalse())

			options := captured["options"].(map[string]any)
			Expect(options["temperature"]).To(BeNumerically("~", 0.8))
			Expect(options["top_p"]).To(BeNumerically("~", 0.95))
			Expect(options["num_predict"]).To(BeNumerically("==", 512))
			Expect(options["repeat_penalty"]).To(BeNumerically("~", 1.2))
			Expect(options["num_ctx"]).To(BeNumerically("==", 2048))
		})

		It("omits num_ctx when no context length is configured", func() {
			var captured map[string]any

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewDecoder(r.Body).Decode(&captured)
				_ = json.NewEncoder(w).Encode(map[string]any{"response": "ok", "done": true})
			}))
			defer server.Close()

			client := ollama.New(ollama.Config{Target: server.URL, Model: "m"}, nil)

			_, err := client.Generate(context.Background(), "p", llm.SamplingConfig{Temperature: 0.1})
			Expect(err).NotTo(HaveOccurred())

			options := captured["options"].(map[string]any)
			Expect(options).NotTo(HaveKey("num_ctx"))
			Expect(options).NotTo(HaveKey("num_predict"))
		})

		It("returns an error on a non-200 response", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
			}))
			defer server.Close()

			client := ollama.New(ollama.Config{Target: server.URL, Model: "missing"}, nil)

			_, err := client.Generate(context.Background(), "p", llm.SamplingConfig{})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("status 404"))
		})

		It("returns an error when the server is unreachable", func() {
			client := ollama.New(ollama.Config{Target: "http://127.0.0.1:1", Model: "m"}, nil)

			_, err := client.Generate(context.Background(), "p", llm.SamplingConfig{})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Load", func() {
		It("succeeds when the server knows the model", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.URL.Path).To(Equal("/api/show"))

				var req map[string]any
				err := json.NewDecoder(r.Body).Decode(&req)
				Expect(err).NotTo(HaveOccurred())
				Expect(req["model"]).To(Equal("qwen2.5:1.5b"))

				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			client := ollama.New(ollama.Config{Target: server.URL, Model: "qwen2.5:1.5b"}, nil)
			Expect(client.Load(context.Background())).To(Succeed())
		})

		It("fails when the model is not available", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, `{"error":"model 'nope' not found"}`, http.StatusNotFound)
			}))
			defer server.Close()

			client := ollama.New(ollama.Config{Target: server.URL, Model: "nope"}, nil)

			err := client.Load(context.Background())
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(`model "nope" not available`))
		})

		It("fails when the server is unreachable", func() {
			client := ollama.New(ollama.Config{Target: "http://127.0.0.1:1", Model: "m"}, nil)
			Expect(client.Load(context.Background())).NotTo(Succeed())
		})
	})
})
