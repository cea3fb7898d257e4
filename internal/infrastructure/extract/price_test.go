package extract

import (
	"errors"
	"testing"

	"github.com/drinkradar/backend/internal/domain"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{"plain decimal", "2.49", 2.49, false},
		{"euro prefix", "€12.99", 12.99, false},
		{"euro suffix with spaces", " 7.50 € ", 7.50, false},
		{"decimal comma", "12,99", 12.99, false},
		{"decimal comma with glyph", "12,99€", 12.99, false},
		{"newlines inside", "2\n,\n49", 2.49, false},
		{"thousands comma dropped", "1,299", 1299, false},
		{"whole number", "3", 3, false},
		{"empty", "", 0, true},
		{"letters remain", "uitverkocht", 0, true},
		{"mixed letters and digits", "va 2.49", 0, true},
		{"zero rejected", "0.00", 0, true},
		{"negative rejected", "-4.20", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrice(tt.input)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrNoPrice) {
					t.Fatalf("ParsePrice(%q) error = %v, want ErrNoPrice", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParsePrice(%q) error = %v, want nil", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParsePrice(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestScanPrice(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{"point price in noise", "xx € 7.50 yy", 7.50, false},
		{"comma price in noise", "nu 12,99€ pst", 12.99, false},
		{"point beats comma when first pattern matches", "4.20 of 5,10", 4.20, false},
		{"bare digits", "€ 12", 12, false},
		{"bare digits skip decimal integer part", "aa 12.99", 12.99, false},
		{"no digits at all", "uitverkocht", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScanPrice(tt.input)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrNoPrice) {
					t.Fatalf("ScanPrice(%q) error = %v, want ErrNoPrice", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ScanPrice(%q) error = %v, want nil", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ScanPrice(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFromText(t *testing.T) {
	t.Run("strict stage wins for clean text", func(t *testing.T) {
		got, err := FromText("12,99€")
		if err != nil {
			t.Fatalf("FromText error = %v", err)
		}
		if got != 12.99 {
			t.Errorf("FromText = %v, want 12.99", got)
		}
	})

	t.Run("tolerant stage recovers noisy text", func(t *testing.T) {
		got, err := FromText("actie € 7.50 per stuk")
		if err != nil {
			t.Fatalf("FromText error = %v", err)
		}
		if got != 7.50 {
			t.Errorf("FromText = %v, want 7.50", got)
		}
	})

	t.Run("unparsable text yields no price", func(t *testing.T) {
		_, err := FromText("uitverkocht")
		if !errors.Is(err, domain.ErrNoPrice) {
			t.Errorf("FromText error = %v, want ErrNoPrice", err)
		}
	})
}
