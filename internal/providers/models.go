package providers

import "strings"

// HybridModel is the meta-model that resolves to a larger StarCoder for
// multiline requests and a smaller one otherwise. Multiline generation
// tolerates a higher per-token cost.
const HybridModel = "starcoder-hybrid"

// DefaultModel is used when the configuration leaves the model unset.
const DefaultModel = HybridModel

// deployments maps user-facing model identifiers to the backend's
// deployment identifiers sent on the wire.
var deployments = map[string]string{
	"starcoder-16b":           "fireworks/starcoder-16b-w8a16",
	"starcoder-7b":            "fireworks/starcoder-7b-w8a16",
	"starcoder-3b":            "fireworks/starcoder-3b-w8a16",
	"starcoder-1b":            "fireworks/starcoder-1b-w8a16",
	"wizardcoder-15b":         "fireworks/accounts/fireworks/models/wizardcoder-15b",
	"llama-code-7b":           "fireworks/accounts/fireworks/models/llama-v2-7b-code",
	"llama-code-13b":          "fireworks/accounts/fireworks/models/llama-v2-13b-code",
	"llama-code-13b-instruct": "fireworks/accounts/fireworks/models/llama-v2-13b-code-instruct",
	"mistral-7b-instruct-4k":  "fireworks/accounts/fireworks/models/mistral-7b-instruct-4k",
}

// KnownModel reports whether the user-facing identifier is supported.
// The hybrid meta-model is known but has no deployment of its own.
func KnownModel(model string) bool {
	if model == HybridModel {
		return true
	}
	_, ok := deployments[model]
	return ok
}

// DeploymentID returns the wire identifier for a concrete (non-hybrid)
// user-facing model. Unknown models map to themselves so forward-compatible
// ids still reach the backend.
func DeploymentID(model string) string {
	if id, ok := deployments[model]; ok {
		return id
	}
	return model
}

// defaultContextTokens is a deliberately conservative context-window
// budget for model ids that are not in the table, allowing
// forward-compatible identifiers without risking over-long prompts.
const defaultContextTokens = 1200

// MaxContextTokens returns the context-window token budget for the model.
// Families share a budget.
func MaxContextTokens(model string) int {
	switch {
	case strings.HasPrefix(model, "starcoder"):
		// Covers the hybrid meta-model too: both resolutions are StarCoder.
		return 8192
	case strings.HasPrefix(model, "llama-code"):
		return 4096
	case model == "mistral-7b-instruct-4k":
		return 4096
	default:
		return defaultContextTokens
	}
}

// MaxResponseTokens is the largest generation any mode requests; the
// prompt budget is what remains of the context window after it.
const MaxResponseTokens = 256

// CharsPerToken is the fixed characters-per-token ratio used to convert
// token budgets into prompt character budgets.
const CharsPerToken = 4

// PromptChars returns the hard character budget for prompt assembly.
func PromptChars(model string) int {
	return (MaxContextTokens(model) - MaxResponseTokens) * CharsPerToken
}
