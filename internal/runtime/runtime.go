package runtime

import (
	"github.com/healthcase/symptom-checker/internal/llm"
)

type Runtime struct {
	DefsLoaded bool
	LLMClient  llm.Client
}
