package assistant

import (
	"regexp"
	"strings"
	"unicode/utf16"

	"github.com/google/uuid"
)

var uuidShape = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// ResolveIdentifier normalizes a caller-supplied session/user identifier into
// a canonical lowercase UUID string.
//
//   - empty input: a fresh random UUID (not reproducible across calls)
//   - already UUID-shaped: lowercased, value unchanged
//   - anything else: a UUID-shaped string derived deterministically from the
//     input, so arbitrary client-generated identifiers always map to the same
//     stored identifier
//
// The derivation is a compatibility shim, not a cryptographic identifier:
// distinct inputs can collide. Seed hash is hash = hash*31 + codeUnit with
// 32-bit wraparound, over UTF-16 code units.
func ResolveIdentifier(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.NewString()
	}
	if uuidShape.MatchString(raw) {
		return strings.ToLower(raw)
	}

	var h uint32
	for _, cu := range utf16.Encode([]rune(raw)) {
		h = h*31 + uint32(cu)
	}

	const template = "xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx"
	const hexDigits = "0123456789abcdef"

	out := make([]byte, len(template))
	s := h
	for i := 0; i < len(template); i++ {
		switch template[i] {
		case 'x':
			s = nextNibbleState(s)
			out[i] = hexDigits[(s>>28)&0xf]
		case 'y':
			// Variant nibble: one of 8, 9, a, b.
			s = nextNibbleState(s)
			out[i] = hexDigits[8+((s>>28)&0x3)]
		default:
			out[i] = template[i]
		}
	}
	return string(out)
}

// nextNibbleState advances the 32-bit state one LCG step per emitted nibble.
func nextNibbleState(s uint32) uint32 {
	return s*1664525 + 1013904223
}
