package service

import (
	"strings"
	"unicode"

	pgvector "github.com/pgvector/pgvector-go"
)

// GenerateEmbedding returns a small deterministic embedding for a food name:
// its length in runes, its Thai letters and its Latin letters.
func GenerateEmbedding(text string) pgvector.Vector {
	text = strings.ToLower(strings.TrimSpace(text))
	var length, thai, latin float32
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		length++
		switch {
		case unicode.Is(unicode.Thai, r):
			thai++
		case r >= 'a' && r <= 'z':
			latin++
		}
	}
	return pgvector.NewVector([]float32{length, thai, latin})
}
