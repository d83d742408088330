package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wisbridge/internal/notification"
)

const (
	helloWorldSHA512Base64 = "MJ7MSJwS1utMxA9QyQLytNDtd+5RGnx6m808qG1M2G+YndNbxf9JlnDaNCVbRbDP2DDoH2Bdz33FVC6TrpzXbw=="
	helloWorldSHA512Hex    = "309ecc489c12d6eb4cc40f50c902f2b4d0ed77ee511a7c7a9bcd3ca86d4cd86f989dd35bc5ff499670da34255b45b0cfd830e81f605dcf7dc5542e93ae9cd76f"
)

func integrityMessage(size int64, digest string) *notification.Message {
	return &notification.Message{
		RelPath:   "obs/station1.csv",
		Size:      size,
		Integrity: notification.Integrity{Method: notification.MethodSHA512, Value: digest},
	}
}

func TestVerify_Base64Digest(t *testing.T) {
	match, err := Verify(integrityMessage(11, helloWorldSHA512Base64), []byte("hello world"))
	require.NoError(t, err)
	assert.Equal(t, MatchBase64, match)
}

// Legacy producers published hex digests under the same declared
// method; those messages must still verify, via the fallback.
func TestVerify_HexDigestFallback(t *testing.T) {
	match, err := Verify(integrityMessage(11, helloWorldSHA512Hex), []byte("hello world"))
	require.NoError(t, err)
	assert.Equal(t, MatchHex, match)
}

func TestVerify_LengthMismatch(t *testing.T) {
	_, err := Verify(integrityMessage(10, helloWorldSHA512Base64), []byte("hello world"))
	require.Error(t, err)
	assert.Equal(t, KindLengthMismatch, KindOf(err))
	assert.Contains(t, err.Error(), "expected 10")
	assert.Contains(t, err.Error(), "got 11")
}

// The length check runs before the digest comparison: a message with a
// correct digest but a wrong declared size still fails on length.
func TestVerify_LengthCheckedBeforeDigest(t *testing.T) {
	_, err := Verify(integrityMessage(99, helloWorldSHA512Base64), []byte("hello world"))
	require.Error(t, err)
	assert.Equal(t, KindLengthMismatch, KindOf(err))
}

func TestVerify_ChecksumMismatch(t *testing.T) {
	_, err := Verify(integrityMessage(11, "bm90IHRoZSByaWdodCBkaWdlc3Q="), []byte("hello world"))
	require.Error(t, err)
	assert.Equal(t, KindChecksumMismatch, KindOf(err))
	// The failure reports both computed encodings for diagnosis.
	assert.Contains(t, err.Error(), helloWorldSHA512Base64)
	assert.Contains(t, err.Error(), helloWorldSHA512Hex)
}

func TestVerify_UnsupportedMethod(t *testing.T) {
	msg := integrityMessage(11, helloWorldSHA512Base64)
	msg.Integrity.Method = "md5"
	_, err := Verify(msg, []byte("hello world"))
	require.Error(t, err)
	assert.Equal(t, KindUnsupportedEncoding, KindOf(err))
}

func TestVerify_EmptyContent(t *testing.T) {
	// sha512 of the empty string, base64 encoded.
	match, err := Verify(integrityMessage(0, "z4PhNX7vuL3xVChQ1m2AB9Yg5AULVxXcg/SpIdNs6c5H0NE8XYXysP+DGNKHfuwvY7kxvUdBeoGlODJ6+SfaPg=="), nil)
	require.NoError(t, err)
	assert.Equal(t, MatchBase64, match)
}
