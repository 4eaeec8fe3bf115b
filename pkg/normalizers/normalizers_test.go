package normalizers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyChain(t *testing.T) {
	t.Run("should apply normalizers in sequence", func(t *testing.T) {
		result := ApplyChain("  The Coffee   SHOP  ", "trim", "lowercase", "collapse_whitespace")
		assert.Equal(t, "the coffee shop", result)
	})

	t.Run("should ignore unknown normalizer names", func(t *testing.T) {
		result := ApplyChain("Value", "does-not-exist")
		assert.Equal(t, "Value", result)
	})

	t.Run("should return the value unchanged with an empty chain", func(t *testing.T) {
		assert.Equal(t, "Value", ApplyChain("Value"))
	})
}

func TestBuiltinNormalizers(t *testing.T) {
	t.Run("should remove punctuation", func(t *testing.T) {
		assert.Equal(t, "cafe fodors", Apply("cafe, fodor's!", "remove_punctuation"))
	})

	t.Run("should keep only letters and digits", func(t *testing.T) {
		assert.Equal(t, "2ndstcafe", Apply("2nd st. cafe", "alphanumeric"))
	})

	t.Run("should collapse interior whitespace", func(t *testing.T) {
		assert.Equal(t, "a b c", Apply("a\t b \n c", "collapse_whitespace"))
	})
}

func TestRegister(t *testing.T) {
	t.Run("should make a custom normalizer available by name", func(t *testing.T) {
		Register("reverse-test", func(s string) string {
			runes := []rune(s)
			for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
				runes[i], runes[j] = runes[j], runes[i]
			}
			return string(runes)
		})

		fn, ok := Get("reverse-test")
		assert.True(t, ok)
		assert.Equal(t, "cba", fn("abc"))
		assert.Equal(t, "cba", Apply("abc", "reverse-test"))
	})
}
