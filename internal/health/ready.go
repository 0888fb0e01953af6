package health

import (
	"net/http"

	"github.com/healthcase/symptom-checker/internal/runtime"
)

func ReadyHandler(rt *runtime.Runtime) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !rt.DefsLoaded {
			http.Error(w, "definitions not loaded", 503)
			return
		}

		if err := rt.LLMClient.Ping(r.Context()); err != nil {
			http.Error(w, "llm unreachable", 503)
			return
		}

		w.WriteHeader(200)
		w.Write([]byte(`{"status":"ready"}`))
	}
}
