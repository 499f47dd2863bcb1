package notes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"simple", "math,physics", []string{"math", "physics"}},
		{"trims and lowers", "  Math , PHYSICS ", []string{"math", "physics"}},
		{"dedupes", "math,Math,math", []string{"math"}},
		{"skips blanks", "math,,physics,", []string{"math", "physics"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeTags(tt.in)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
