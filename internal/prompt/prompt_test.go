package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name    string
		phrases []string
		want    []string
	}{
		{
			name:    "numbered list",
			phrases: []string{"猫", "犬"},
			want:    []string{"Translate these:\n1. 猫\n2. 犬"},
		},
		{
			name:    "single phrase",
			phrases: []string{"こんにちは"},
			want:    []string{"1. こんにちは", "Only return pure JSON."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Translate(tt.phrases)
			for _, w := range tt.want {
				assert.Contains(t, got, w)
			}
			assert.False(t, strings.HasSuffix(got, "\n"))
		})
	}
}

func TestTranslate_Deterministic(t *testing.T) {
	phrases := []string{"一", "二", "三"}
	assert.Equal(t, Translate(phrases), Translate(append([]string(nil), phrases...)))
	assert.NotEqual(t, Translate(phrases), Translate([]string{"三", "二", "一"}))
}

func TestExtract(t *testing.T) {
	got := Extract("  今日は雨です。 \n")
	assert.True(t, strings.HasSuffix(got, "Text:\n今日は雨です。"))
	assert.Contains(t, got, `"explanation"`)
}
