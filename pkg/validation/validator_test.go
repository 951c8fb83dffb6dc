package validation

import (
	"strings"
	"testing"
)

type sample struct {
	Name  string  `validate:"required"`
	Ratio float64 `validate:"gte=0,lte=1"`
	Tags  []int   `validate:"required,min=1,dive,min=1"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		value   sample
		wantErr string
	}{
		{"valid", sample{Name: "a", Ratio: 0.5, Tags: []int{1}}, ""},
		{"missing name", sample{Ratio: 0.5, Tags: []int{1}}, "field is required"},
		{"ratio too high", sample{Name: "a", Ratio: 2, Tags: []int{1}}, "or less"},
		{"zero tag", sample{Name: "a", Tags: []int{0}}, "at least 1"},
		{"no tags", sample{Name: "a"}, "field is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(&tt.value)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Struct() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Struct() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestStructNil(t *testing.T) {
	if err := Struct(nil); err == nil {
		t.Error("Struct(nil) should fail")
	}
}
