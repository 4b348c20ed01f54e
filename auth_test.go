package mqttcore

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golang.org/x/crypto/pbkdf2"
)

func TestStaticAuthProvider_ReturnsConfiguredCredentials(t *testing.T) {
	p := &StaticAuthProvider{Username: "alice", Password: []byte("s3cret")}

	username, password, err := p.Credentials(context.Background(), "dev-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
	assert.Equal(t, []byte("s3cret"), password)
}

func TestSCRAMAuthProvider_DerivesExpectedClientKey(t *testing.T) {
	p := &SCRAMAuthProvider{
		Hash:       SCRAMHashSHA256,
		Username:   "alice",
		Password:   "hunter2",
		Salt:       []byte("fixed-salt"),
		Iterations: 4096,
	}

	username, password, err := p.Credentials(context.Background(), "dev-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", username)

	salted := pbkdf2.Key([]byte("hunter2"), []byte("fixed-salt"), 4096, 32, sha256.New)
	mac := hmac.New(sha256.New, salted)
	mac.Write([]byte("Client Key"))
	assert.Equal(t, mac.Sum(nil), password)
}

func TestSCRAMAuthProvider_DifferentSaltsDeriveDifferentKeys(t *testing.T) {
	base := SCRAMAuthProvider{Hash: SCRAMHashSHA256, Username: "alice", Password: "hunter2", Iterations: 100}

	a := base
	a.Salt = []byte("salt-a")
	b := base
	b.Salt = []byte("salt-b")

	_, passA, err := a.Credentials(context.Background(), "")
	require.NoError(t, err)
	_, passB, err := b.Credentials(context.Background(), "")
	require.NoError(t, err)

	assert.NotEqual(t, passA, passB)
}

func TestSCRAMAuthProvider_SHA512ProducesLargerDigest(t *testing.T) {
	p := &SCRAMAuthProvider{Hash: SCRAMHashSHA512, Username: "alice", Password: "hunter2", Salt: []byte("s"), Iterations: 10}

	_, password, err := p.Credentials(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, password, 64)
}
