package validation

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestConfigValidator_PositiveFloat(t *testing.T) {
	cv := NewConfigValidator("viewport")
	cv.PositiveFloat("width", 0)

	if !cv.HasErrors() {
		t.Error("Expected error for zero width")
	}

	cv2 := NewConfigValidator("viewport")
	cv2.PositiveFloat("width", 1024)

	if cv2.HasErrors() {
		t.Error("Expected no error for positive width")
	}
}

func TestConfigValidator_RangeFloat(t *testing.T) {
	tests := []struct {
		value   float64
		wantErr bool
	}{
		{0, false},
		{0.5, false},
		{1, false},
		{-0.1, true},
		{1.5, true},
	}

	for _, tt := range tests {
		cv := NewConfigValidator("render").RangeFloat("dimmed_opacity", tt.value, 0, 1)
		if cv.HasErrors() != tt.wantErr {
			t.Errorf("RangeFloat(%g) errors = %v, want %v", tt.value, cv.HasErrors(), tt.wantErr)
		}
	}
}

func TestConfigValidator_Durations(t *testing.T) {
	cv := NewConfigValidator("interaction").
		NonNegativeDuration("hover_enter_delay", -time.Millisecond).
		MinDuration("frame_interval", 0, time.Millisecond)

	if len(cv.Errors()) != 2 {
		t.Fatalf("Expected 2 errors, got %d", len(cv.Errors()))
	}
}

func TestConfigValidator_OneOf(t *testing.T) {
	cv := NewConfigValidator("logging").OneOf("level", "verbose", []string{"debug", "info"})
	if !cv.HasErrors() {
		t.Error("Expected error for unknown level")
	}
}

func TestConfigValidator_Custom(t *testing.T) {
	sentinel := errors.New("boom")
	err := NewConfigValidator("physics").Custom("seed", func() error { return sentinel }).Validate()
	if !errors.Is(err, sentinel) {
		t.Errorf("Validate() = %v, want wrapped sentinel", err)
	}
}

func TestConfigValidator_ValidateCombines(t *testing.T) {
	err := NewConfigValidator("physics").
		PositiveFloat("default_link_length", 0).
		NonNegativeFloat("collision_radius_offset", -1).
		Validate()
	if err == nil {
		t.Fatal("Expected combined error")
	}
	if !strings.Contains(err.Error(), "2 errors") {
		t.Errorf("Combined error should report count, got %q", err)
	}

	if err := NewConfigValidator("physics").Validate(); err != nil {
		t.Errorf("Empty validator returned %v", err)
	}
}
