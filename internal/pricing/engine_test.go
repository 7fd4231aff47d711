package pricing

import "testing"

func TestPrice(t *testing.T) {
	tests := []struct {
		name     string
		base     float64
		level    int
		surge    float64
		expected float64
	}{
		{"peak is free", 100, 5, 2.0, 0},
		{"level 4 surges", 100, 4, 2.0, 200},
		{"level 3 surges", 100, 3, 2.0, 200},
		{"level 2 base", 100, 2, 2.0, 100},
		{"level 1 base", 100, 1, 2.0, 100},
		{"surge scales", 75, 3, 1.8, 135},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Price(tt.base, tt.level, tt.surge); got != tt.expected {
				t.Errorf("Price(%v, %d, %v) = %v, want %v",
					tt.base, tt.level, tt.surge, got, tt.expected)
			}
		})
	}
}

func TestBasePrice(t *testing.T) {
	tests := []struct {
		class    string
		expected float64
	}{
		{"VC4", 50},
		{"VC10", 110},
		{"VC20", 200},
		{"VC99", 50}, // unmapped class falls back to the lowest tier
		{"", 50},
	}

	for _, tt := range tests {
		if got := BasePrice(tt.class); got != tt.expected {
			t.Errorf("BasePrice(%q) = %v, want %v", tt.class, got, tt.expected)
		}
	}
}

func TestVehicleClassesCoverTariffTable(t *testing.T) {
	classes := VehicleClasses()
	if len(classes) != len(basePrices) {
		t.Fatalf("VehicleClasses() returned %d classes, table has %d", len(classes), len(basePrices))
	}
	prev := 0.0
	for _, c := range classes {
		p, ok := basePrices[c]
		if !ok {
			t.Fatalf("class %q missing from tariff table", c)
		}
		if p < prev {
			t.Fatalf("classes not in ascending tariff order at %q", c)
		}
		prev = p
	}
}
