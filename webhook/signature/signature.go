package signature

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// SecretPrefix marks a base64 encoded Standard Webhooks secret
	SecretPrefix = "whsec_"

	// SignatureVersion is the version identifier for symmetric signatures
	SignatureVersion = "v1"

	// MinSecretBytes is the smallest secret GenerateSecret will create (192 bits)
	MinSecretBytes = 24

	// MaxSecretBytes is the largest secret GenerateSecret will create (512 bits)
	MaxSecretBytes = 64
)

// Header names attached to every outgoing delivery
const (
	HeaderID        = "webhook-id"
	HeaderTimestamp = "webhook-timestamp"
	HeaderSignature = "webhook-signature"
)

// Secret is the key material used to sign a subscription's deliveries
type Secret struct {
	raw []byte
}

// GenerateSecret creates a random whsec_ secret of size bytes, used by `cli register ... generate`
func GenerateSecret(size int) (string, error) {
	if size < MinSecretBytes || size > MaxSecretBytes {
		return "", fmt.Errorf("secret size must be between %d and %d bytes", MinSecretBytes, MaxSecretBytes)
	}

	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating random bytes: %w", err)
	}
	return SecretPrefix + base64.StdEncoding.EncodeToString(b), nil
}

/* NewSecret turns a subscription secret into key material
 * whsec_ values are base64 decoded, anything else is used as raw bytes
 */
func NewSecret(value string) (Secret, error) {
	if value == "" {
		return Secret{}, fmt.Errorf("secret is empty")
	}
	if !strings.HasPrefix(value, SecretPrefix) {
		return Secret{raw: []byte(value)}, nil
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, SecretPrefix))
	if err != nil {
		return Secret{}, fmt.Errorf("decoding base64 secret: %w", err)
	}
	if len(raw) == 0 {
		return Secret{}, fmt.Errorf("secret is empty")
	}
	return Secret{raw: raw}, nil
}

// Signature is one versioned signature value
type Signature struct {
	Version   string
	Signature string
}

// String returns the signature in the format: v1,<base64_signature>
func (s Signature) String() string {
	return fmt.Sprintf("%s,%s", s.Version, s.Signature)
}

// Sign computes the HMAC-SHA256 of {msgID}.{unix timestamp}.{body}
func Sign(secret Secret, msgID string, timestamp time.Time, body []byte) (Signature, error) {
	if strings.Contains(msgID, ".") {
		return Signature{}, fmt.Errorf("message ID must not contain '.'")
	}
	if len(secret.raw) == 0 {
		return Signature{}, fmt.Errorf("secret is empty")
	}

	mac := hmac.New(sha256.New, secret.raw)
	mac.Write([]byte(msgID))
	mac.Write([]byte("."))
	mac.Write([]byte(strconv.FormatInt(timestamp.Unix(), 10)))
	mac.Write([]byte("."))
	mac.Write(body)

	return Signature{
		Version:   SignatureVersion,
		Signature: base64.StdEncoding.EncodeToString(mac.Sum(nil)),
	}, nil
}

// Verify checks a signature with a constant-time comparison
func Verify(secret Secret, msgID string, timestamp time.Time, body []byte, sig Signature) (bool, error) {
	if sig.Version != SignatureVersion {
		return false, fmt.Errorf("unsupported signature version: %s", sig.Version)
	}

	expected, err := Sign(secret, msgID, timestamp, body)
	if err != nil {
		return false, fmt.Errorf("calculating signature: %w", err)
	}

	got, err := base64.StdEncoding.DecodeString(sig.Signature)
	if err != nil {
		return false, fmt.Errorf("decoding signature: %w", err)
	}
	want, _ := base64.StdEncoding.DecodeString(expected.Signature)

	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

/* Headers builds the Standard Webhooks headers for one attempt
 * The signature header is only present when a secret is given
 */
func Headers(secret *Secret, msgID string, timestamp time.Time, body []byte) (map[string]string, error) {
	h := map[string]string{
		HeaderID:        msgID,
		HeaderTimestamp: strconv.FormatInt(timestamp.Unix(), 10),
	}
	if secret == nil {
		return h, nil
	}

	sig, err := Sign(*secret, msgID, timestamp, body)
	if err != nil {
		return nil, fmt.Errorf("signing body: %w", err)
	}
	h[HeaderSignature] = sig.String()
	return h, nil
}

// ParseSignatureHeader parses space-delimited signatures: "v1,sig1 v1,sig2"
func ParseSignatureHeader(header string) ([]Signature, error) {
	var signatures []Signature
	for _, part := range strings.Fields(header) {
		version, value, ok := strings.Cut(part, ",")
		if !ok {
			return nil, fmt.Errorf("invalid signature format %q, expected 'version,signature'", part)
		}
		signatures = append(signatures, Signature{Version: version, Signature: value})
	}
	if len(signatures) == 0 {
		return nil, fmt.Errorf("signature header is empty")
	}
	return signatures, nil
}
