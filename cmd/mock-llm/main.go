// mock-llm is a local stand-in for the hosted chat completions API.
// Point LLM_BASE_URL at it to develop without a key or network access.
package main

import (
	"encoding/json"
	"log"
	"net/http"
)

var listenAndServe = http.ListenAndServe

const cannedAnalysis = `Based on the provided symptoms and test results, here are the top 3 most likely conditions:

1. Viral Fever - 75% confidence
   Reasoning: High fever, fatigue, and headache are classic symptoms of viral infection.

2. Dengue Fever - 60% confidence
   Reasoning: Fever with rash and low platelet count suggests possible dengue.

3. Common Cold - 40% confidence
   Reasoning: Mild respiratory symptoms could indicate a common cold.

**Important Disclaimer:** This analysis is for educational purposes only and should not be used as a substitute for professional medical advice.

Suggested next steps:
- Monitor your temperature regularly
- Stay hydrated and rest
- Consult a doctor if symptoms worsen`

func buildMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[{"id":"mock-model"}]}`))
	})

	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid body", http.StatusBadRequest)
			return
		}
		log.Printf("[MOCK LLM] completion request model=%s messages=%d", req.Model, len(req.Messages))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{
				map[string]any{
					"message": map[string]any{
						"role":    "assistant",
						"content": cannedAnalysis,
					},
				},
			},
		})
	})

	return mux
}

func main() {
	mux := buildMux()
	log.Println("[MOCK LLM] listening on :9000")
	listenAndServe(":9000", mux)
}
