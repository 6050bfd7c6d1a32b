package random

import "crypto/rand"

// Random produces the opaque tokens used for sessions and login forms
type Random interface {
	// String returns length characters drawn uniformly from alphabet
	String(length int, alphabet string) string
}

// CryptoRandom draws from crypto/rand
type CryptoRandom struct{}

// New returns the system Random
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// String samples by rejection so every alphabet character is equally likely.
// Alphabets longer than 256 bytes are truncated.
func (*CryptoRandom) String(length int, alphabet string) string {
	if length <= 0 || alphabet == "" {
		return ""
	}
	if len(alphabet) > 256 {
		alphabet = alphabet[:256]
	}

	// Largest multiple of len(alphabet) that fits in a byte
	limit := 256 - 256%len(alphabet)
	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		// crypto/rand.Read never returns an error
		_, _ = rand.Read(buf)
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out)
}
