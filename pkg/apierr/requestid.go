package apierr

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/milan604/http-errors/pkg/utils"
)

const (
	// DefaultRequestIDLength is the length of generated request ids.
	DefaultRequestIDLength = 16

	// requestIDLayout renders month, day, hour, minute and second zero-padded.
	requestIDLayout = "0102150405"
	// requestIDPrefixLen is len("X") + len(requestIDLayout) + len("T").
	requestIDPrefixLen = 12
	// MinRequestIDLength keeps at least one random character after the prefix.
	MinRequestIDLength = requestIDPrefixLen + 1
	// MaxRequestIDLength bounds the random part.
	MaxRequestIDLength = 256

	base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// RequestIDGenerator produces short correlation tokens of the form
// X<MMDDhhmmss>T<random>. The random part is not meant to be unguessable.
type RequestIDGenerator struct {
	now func() time.Time
}

// NewRequestIDGenerator returns a generator reading the local wall clock.
func NewRequestIDGenerator() *RequestIDGenerator {
	return &RequestIDGenerator{now: time.Now}
}

// WithClock returns a copy of g that reads time from now.
func (g *RequestIDGenerator) WithClock(now func() time.Time) *RequestIDGenerator {
	return &RequestIDGenerator{now: now}
}

// Generate returns an id of exactly length characters. A length <= 0 selects
// DefaultRequestIDLength; other lengths are clamped to
// [MinRequestIDLength, MaxRequestIDLength].
func (g *RequestIDGenerator) Generate(length int) string {
	if length <= 0 {
		length = DefaultRequestIDLength
	}
	length = utils.Clamp(length, MinRequestIDLength, MaxRequestIDLength)
	now := time.Now
	if g != nil && g.now != nil {
		now = g.now
	}

	var b strings.Builder
	b.Grow(length)
	b.WriteByte('X')
	b.WriteString(now().Local().Format(requestIDLayout))
	b.WriteByte('T')
	b.WriteString(RandomString(length - requestIDPrefixLen))
	return b.String()
}

// GenerateRequestID uses a default generator.
func GenerateRequestID(length int) string {
	return NewRequestIDGenerator().Generate(length)
}

// RandomString returns n uppercase base36 characters.
func RandomString(n int) string {
	if n <= 0 {
		return ""
	}
	out := make([]byte, 0, n)
	for len(out) < n {
		id := uuid.New()
		for _, c := range id {
			if len(out) == n {
				break
			}
			out = append(out, base36[int(c)%len(base36)])
		}
	}
	return string(out)
}
