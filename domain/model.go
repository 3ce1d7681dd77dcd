package domain

import "io"

// MaxTextLength is the provider's per-request character cap. Longer inputs
// are rejected locally so they never cost an upstream call.
const MaxTextLength = 2000

const DefaultContentType = "audio/mpeg"

type SpeechRequest struct {
	Text     string
	Model    string
	Encoding string
}

type SpeechResult struct {
	Audio       io.ReadCloser
	ContentType string
}

type SynthesisOutcome string

const (
	SynthesisSucceeded SynthesisOutcome = "succeeded"
	SynthesisFailed    SynthesisOutcome = "failed"
	SynthesisCached    SynthesisOutcome = "cached"
)

type SynthesisEvent struct {
	RequestID  string           `json:"request_id"`
	Model      string           `json:"model"`
	Characters int              `json:"characters"`
	Outcome    SynthesisOutcome `json:"outcome"`
	DurationMs int64            `json:"duration_ms"`
}

type UsageRecord struct {
	RequestID  string
	Model      string
	Characters int
	Bytes      int
	DurationMs int64
}
