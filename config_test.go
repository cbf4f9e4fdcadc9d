package gradmesh

import (
	"errors"
	"testing"
)

func TestDefaultPipelineConfig(t *testing.T) {
	cfg := DefaultPipelineConfig(428, 926)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if cfg.SampleCount != 1 || cfg.Format != FormatRGBA8Unorm {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.ClearColor[3] != 1 {
		t.Errorf("clear alpha = %v, want 1", cfg.ClearColor[3])
	}
	if cfg.Workers < 1 {
		t.Errorf("Workers = %d, want >= 1", cfg.Workers)
	}
}

func TestPipelineConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*PipelineConfig)
		wantErr error
	}{
		{"msaa", func(c *PipelineConfig) { c.SampleCount = 4 }, nil},
		{"srgb", func(c *PipelineConfig) { c.Format = FormatRGBA8UnormSRGB }, nil},
		{"zero width", func(c *PipelineConfig) { c.Width = 0 }, ErrInvalidSize},
		{"negative height", func(c *PipelineConfig) { c.Height = -1 }, ErrInvalidSize},
		{"two samples", func(c *PipelineConfig) { c.SampleCount = 2 }, ErrInvalidSampleCount},
		{"unknown format", func(c *PipelineConfig) { c.Format = ColorFormat(42) }, ErrUnsupportedFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultPipelineConfig(16, 16)
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseColorFormat(t *testing.T) {
	for _, f := range []ColorFormat{FormatRGBA8Unorm, FormatRGBA8UnormSRGB, FormatRGBA32Float} {
		got, err := ParseColorFormat(f.String())
		if err != nil || got != f {
			t.Errorf("ParseColorFormat(%q) = %v, %v", f.String(), got, err)
		}
	}
	if _, err := ParseColorFormat("bgra"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("ParseColorFormat(bgra) error = %v", err)
	}
}
