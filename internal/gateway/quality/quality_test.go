package quality

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_Translation(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name      string
		candidate string
		accept    bool
	}{
		{"valid arabic", "مرحبا بالعالم", true},
		{"valid short arabic phrase", "كتاب جميل ومفيد جدا", true},
		{"empty", "", false},
		{"whitespace only", "   \n ", false},
		{"placeholder run", "؟؟؟", false},
		{"single arabic question mark", "مرحبا؟", false},
		{"too long", strings.Repeat("م", 200), false},
		{"pure ascii for arabic target", "hello world", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rules.Check(KindTranslation, tt.candidate, "hello")
			if tt.accept {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCheck_WordMeaning(t *testing.T) {
	rules := DefaultRules()
	good := "معنى الكلمة: كلمة تستخدم للترحيب بالاشخاص عند اللقاء"

	tests := []struct {
		name      string
		candidate string
		source    string
		accept    bool
	}{
		{"valid explanation", good, "hello", true},
		{"missing prefix", "كلمة تستخدم للترحيب بالاشخاص عند اللقاء", "hello", false},
		{"echoes source word", "معنى الكلمة: hello تستخدم للترحيب بالاشخاص", "hello", false},
		{"not available filler", "معنى الكلمة: غير متوفر في هذا الوقت الحالي", "hello", false},
		{"too short", "معنى الكلمة: ترحيب", "hello", false},
		{"placeholder run", "معنى الكلمة: ؟؟؟ تستخدم للترحيب بالاشخاص عند اللقاء", "hello", false},
		{"too few words", "معنى الكلمة: كلمةواحدةطويلةجداجداجداجداجدا", "hello", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rules.Check(KindWordMeaning, tt.candidate, tt.source)
			if tt.accept {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCheck_GeneratedText(t *testing.T) {
	rules := DefaultRules()
	assert.NoError(t, rules.Check(KindGeneratedText, "any non-empty text", ""))
	assert.Error(t, rules.Check(KindGeneratedText, "", ""))
}

func TestCleanMeaning(t *testing.T) {
	rules := DefaultRules()

	t.Run("adds prefix and collapses whitespace", func(t *testing.T) {
		got := rules.CleanMeaning("كلمة  تستخدم\n\nللترحيب")
		assert.True(t, strings.HasPrefix(got, MeaningPrefix))
		assert.NotContains(t, got, "\n")
		assert.NotContains(t, got, "  ")
	})

	t.Run("keeps existing prefix", func(t *testing.T) {
		got := rules.CleanMeaning("معنى الكلمة: شرح واضح")
		require.True(t, strings.HasPrefix(got, MeaningPrefix))
		assert.Equal(t, 1, strings.Count(got, MeaningPrefix))
	})

	t.Run("truncates runaway output", func(t *testing.T) {
		got := rules.CleanMeaning(strings.Repeat("شرح ", 100))
		assert.LessOrEqual(t, len([]rune(got)), rules.MeaningTruncateAt+3)
		assert.True(t, strings.HasSuffix(got, "..."))
	})

	t.Run("empty stays empty", func(t *testing.T) {
		assert.Equal(t, "", rules.CleanMeaning("  \n "))
	})
}

func TestFallbackMeaning(t *testing.T) {
	got := FallbackMeaning("hello", "مرحبا")
	assert.True(t, strings.HasPrefix(got, MeaningPrefix))
	assert.Contains(t, got, "hello")
	assert.Contains(t, got, "مرحبا")
}

func TestContainsArabic(t *testing.T) {
	assert.True(t, ContainsArabic("مرحبا"))
	assert.False(t, ContainsArabic("hello"))
}
