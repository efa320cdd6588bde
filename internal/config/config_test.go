package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid minimal",
			cfg:  Config{APIBaseURL: "http://localhost:8080"},
		},
		{
			name:    "missing base URL",
			cfg:     Config{},
			wantErr: true,
		},
		{
			name:    "relative base URL",
			cfg:     Config{APIBaseURL: "/api"},
			wantErr: true,
		},
		{
			name: "otlp without endpoint",
			cfg: Config{
				APIBaseURL:      "http://localhost:8080",
				TracingEnabled:  true,
				TracingExporter: "otlp",
			},
			wantErr: true,
		},
		{
			name: "otlp with endpoint",
			cfg: Config{
				APIBaseURL:          "http://localhost:8080",
				TracingEnabled:      true,
				TracingExporter:     "otlp",
				TracingOTLPEndpoint: "localhost:4318",
			},
		},
		{
			name: "sampler ratio out of range",
			cfg: Config{
				APIBaseURL:          "http://localhost:8080",
				TracingSamplerRatio: 1.5,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_DurationDefaults(t *testing.T) {
	var cfg Config
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout())
	assert.Equal(t, 60*time.Second, cfg.CacheTTL())

	cfg.RequestTimeoutMS = 2500
	cfg.CacheTTLSeconds = 300
	assert.Equal(t, 2500*time.Millisecond, cfg.RequestTimeout())
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL())
}
