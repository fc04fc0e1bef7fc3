package reconciler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	sigSecret = "test-secret"
	sigDigest = "bbba329cfbcafd5a0b3cfdd52fa301483929183bc236f21d683fce12c8ed1f1c"
)

func TestParseSignatureHeader(t *testing.T) {
	parts, ok := ParseSignatureHeader("ts=1700000000,v1=" + sigDigest)
	assert.True(t, ok)
	assert.Equal(t, "1700000000", parts.Timestamp)
	assert.Equal(t, sigDigest, parts.Digest)

	parts, ok = ParseSignatureHeader(" ts=1700000000 , v1=abc ")
	assert.True(t, ok)
	assert.Equal(t, "1700000000", parts.Timestamp)
	assert.Equal(t, "abc", parts.Digest)

	_, ok = ParseSignatureHeader("v1=abc")
	assert.False(t, ok)

	_, ok = ParseSignatureHeader("")
	assert.False(t, ok)
}

func TestVerifySignature(t *testing.T) {
	header := "ts=1700000000,v1=" + sigDigest

	assert.True(t, VerifySignature(sigSecret, "12345", header))

	// Digest comparison ignores hex case.
	upper := "ts=1700000000,v1=BBBA329CFBCAFD5A0B3CFDD52FA301483929183BC236F21D683FCE12C8ED1F1C"
	assert.True(t, VerifySignature(sigSecret, "12345", upper))

	assert.False(t, VerifySignature("other-secret", "12345", header))
	assert.False(t, VerifySignature(sigSecret, "99999", header))
	assert.False(t, VerifySignature(sigSecret, "12345", "ts=1700000001,v1="+sigDigest))
	assert.False(t, VerifySignature(sigSecret, "12345", "garbage"))
}
