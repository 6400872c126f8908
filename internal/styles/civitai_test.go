package styles

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractModelID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://civitai.com/models/12345", "12345"},
		{"https://civitai.com/models/12345/my-lora", "12345"},
		{"https://civitai.com/models/12345?modelVersionId=6789", "12345"},
		{"https://civitai.com/images/555", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractModelID(tt.url))
		})
	}
}
