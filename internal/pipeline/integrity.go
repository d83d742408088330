package pipeline

import (
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"

	"wisbridge/internal/notification"
)

// Match reports which digest encoding the declared integrity value
// matched. MatchHex means the legacy fallback accepted the message and
// callers should surface a degraded-success warning.
type Match string

const (
	MatchBase64 Match = "base64"
	MatchHex    Match = "hex"
)

// Verify confirms the resolved bytes against the message's declared
// length and sha512 digest. The digest comparison tries base64 first
// and then lowercase hex: some producers historically emitted hex
// digests under the same declared method, and those messages are still
// accepted. The length check always runs first and is unconditional.
func Verify(msg *notification.Message, content []byte) (Match, error) {
	if msg.Integrity.Method != notification.MethodSHA512 {
		return "", fail(KindUnsupportedEncoding, "integrity method %q not supported", msg.Integrity.Method)
	}

	if int64(len(content)) != msg.Size {
		return "", fail(KindLengthMismatch, "length mismatch: expected %d bytes, got %d", msg.Size, len(content))
	}

	sum := sha512.Sum512(content)
	actualBase64 := base64.StdEncoding.EncodeToString(sum[:])
	if actualBase64 == msg.Integrity.Value {
		return MatchBase64, nil
	}

	actualHex := hex.EncodeToString(sum[:])
	if actualHex == msg.Integrity.Value {
		return MatchHex, nil
	}

	return "", fail(KindChecksumMismatch, "checksum mismatch: declared %q, computed %q (base64) / %q (hex)",
		msg.Integrity.Value, actualBase64, actualHex)
}
