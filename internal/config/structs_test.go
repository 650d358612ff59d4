package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoscan/invoscan/internal/extract"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "invoscan.db", cfg.StorePath)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, extract.DocumentInvoice, cfg.Pipeline.DocumentType)
	assert.True(t, cfg.Batch.ContinueOnError)
	assert.Contains(t, cfg.Batch.Include, "*.jpg")
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.LogLevel = "noisy" },
			wantErr: "invalid log_level",
		},
		{
			name:    "unknown output format",
			mutate:  func(c *Config) { c.Output.Format = "xml" },
			wantErr: "invalid output.format",
		},
		{
			name:    "unknown document type",
			mutate:  func(c *Config) { c.Pipeline.DocumentType = "contract" },
			wantErr: "invalid pipeline.document_type",
		},
		{
			name: "sparse threshold below minimum threshold",
			mutate: func(c *Config) {
				c.Pipeline.Recognize.SparseTextThreshold = 5
				c.Pipeline.Recognize.MinTextThreshold = 10
			},
			wantErr: "sparse_text_threshold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
