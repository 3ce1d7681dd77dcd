package inbound

// SessionIssuerPort mints the page nonces and session tokens the demo
// front-end authenticates with.
type SessionIssuerPort interface {
	IssueNonce() string
	IssueToken(nonce string) (string, error)
	NonceRequired() bool
}
