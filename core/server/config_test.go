package server_test

import (
	"testing"

	"library-manager/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_BodyLimit(t *testing.T) {
	tests := []struct {
		name string
		mb   int
		want int
	}{
		{"Configured", 8, 8 * 1024 * 1024},
		{"Zero", 0, server.DefaultMaxUploadMB * 1024 * 1024},
		{"Negative", -4, server.DefaultMaxUploadMB * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{MaxUploadMB: tt.mb}
			assert.Equal(t, tt.want, c.BodyLimit())
		})
	}
}
