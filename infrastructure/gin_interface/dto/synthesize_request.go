package dto

// SynthesizeRequest carries the caller's text. Emptiness is checked by the
// service so the error contract stays uniform, not by binding tags.
type SynthesizeRequest struct {
	Text string `json:"text"`
}

type SessionResponse struct {
	Token string `json:"token"`
}
