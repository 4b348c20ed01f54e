package mqttcore

import "context"

// AuthProvider builds the CONNECT username/password pair, overriding
// WithCredentials (spec.md §1: "authentication payload construction ...
// passed through opaquely" — the engine never inspects what Credentials
// returns beyond framing it into CONNECT). The teacher's auth.go is a
// broker-side Authenticator verifying an inbound CONNECT; a client has
// no such role, so this is a client-side rewrite rather than a trim.
type AuthProvider interface {
	Credentials(ctx context.Context, clientID string) (username string, password []byte, err error)
}

// StaticAuthProvider returns a fixed username/password pair, the
// AuthProvider equivalent of WithCredentials for callers who want to
// configure credentials through the AuthProvider seam instead (e.g. to
// compose with a chain of providers).
type StaticAuthProvider struct {
	Username string
	Password []byte
}

// Credentials returns the configured username/password unconditionally.
func (p *StaticAuthProvider) Credentials(_ context.Context, _ string) (string, []byte, error) {
	return p.Username, p.Password, nil
}
