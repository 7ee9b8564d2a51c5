package gems

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Per-million-token prices used to estimate the cost of one search.
var geminiPricing = map[string]struct {
	InputPer1M  float64
	OutputPer1M float64
}{
	"gemini-2.5-flash": {InputPer1M: 0.30, OutputPer1M: 2.50},
	"gemini-2.5-pro":   {InputPer1M: 1.25, OutputPer1M: 10.00},
	"gemini-2.0-flash": {InputPer1M: 0.10, OutputPer1M: 0.40},
}

// CalculateCost estimates the cost in USD for one model call. Unknown models cost 0.
func CalculateCost(modelName string, promptTokens, completionTokens int) float64 {
	normalized := strings.ToLower(modelName)
	for key, pricing := range geminiPricing {
		if strings.Contains(normalized, key) {
			return float64(promptTokens)/1_000_000*pricing.InputPer1M +
				float64(completionTokens)/1_000_000*pricing.OutputPer1M
		}
	}
	return 0
}

// HashPrompt creates a SHA256 hash of the prompt so interactions can be
// correlated without logging the user's text.
func HashPrompt(prompt string) string {
	hash := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(hash[:])
}

// interaction is one model call as recorded in the logs.
type interaction struct {
	Model      string
	PromptHash string
	Grounded   bool
	Latency    time.Duration
	Places     int
	Dropped    int
	Sources    int
	Err        error
	Usage      *genai.GenerateContentResponseUsageMetadata
}

func logInteraction(logger *zap.Logger, in interaction) {
	fields := []zap.Field{
		zap.String("model", in.Model),
		zap.String("prompt_hash", in.PromptHash),
		zap.Bool("location_bias", in.Grounded),
		zap.Duration("latency", in.Latency),
	}
	if in.Usage != nil {
		prompt, completion := int(in.Usage.PromptTokenCount), int(in.Usage.CandidatesTokenCount)
		fields = append(fields,
			zap.Int("prompt_tokens", prompt),
			zap.Int("completion_tokens", completion),
			zap.Int("total_tokens", int(in.Usage.TotalTokenCount)),
			zap.Float64("cost_usd", CalculateCost(in.Model, prompt, completion)),
		)
	}
	if in.Err != nil {
		logger.Error("LLM interaction failed", append(fields, zap.Error(in.Err))...)
		return
	}
	logger.Info("LLM interaction completed", append(fields,
		zap.Int("places", in.Places),
		zap.Int("dropped_sections", in.Dropped),
		zap.Int("sources", in.Sources),
	)...)
}
