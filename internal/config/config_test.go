package config

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults are valid", DefaultConfig(), false},
		{"missing subject id", Config{Display: DisplayConfig{DefaultRange: "30d"}}, true},
		{"bad default range", Config{Subject: SubjectConfig{ID: "me"}, Display: DisplayConfig{DefaultRange: "2weeks"}}, true},
		{"empty range is fine", Config{Subject: SubjectConfig{ID: "me"}}, false},
		{"all-time range", Config{Subject: SubjectConfig{ID: "me"}, Display: DisplayConfig{DefaultRange: "all"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Subject.ID == "" {
		t.Error("default subject id must not be empty")
	}
	if cfg.Display.DefaultMetric != "adjusted_score" {
		t.Errorf("default metric = %q, want adjusted_score", cfg.Display.DefaultMetric)
	}
	if cfg.Display.DefaultRange != "30d" {
		t.Errorf("default range = %q, want 30d", cfg.Display.DefaultRange)
	}
}
