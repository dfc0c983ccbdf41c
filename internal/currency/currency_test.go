package currency

import (
	"math"
	"testing"
)

func TestSupported_UniqueCodes(t *testing.T) {
	currencies := Supported()
	if len(currencies) < 75 {
		t.Fatalf("Supported() length = %d, want at least 75", len(currencies))
	}

	seen := make(map[string]bool, len(currencies))
	for _, info := range currencies {
		if len(info.Code) != 3 {
			t.Errorf("currency %q: code must have 3 letters", info.Code)
		}
		if info.Name == "" || info.Symbol == "" || info.Flag == "" {
			t.Errorf("currency %q has empty metadata: %+v", info.Code, info)
		}
		if seen[info.Code] {
			t.Errorf("currency %q listed twice", info.Code)
		}
		seen[info.Code] = true
	}
}

func TestSupported_ReturnsCopy(t *testing.T) {
	first := Supported()
	first[0].Name = "changed"

	if Supported()[0].Name == "changed" {
		t.Error("Supported() exposed the reference table to mutation")
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		code   string
		found  bool
		symbol string
	}{
		{"USD", true, "$"},
		{"eur", true, "€"},
		{" gbp ", true, "£"},
		{"XYZ", false, ""},
		{"", false, ""},
	}

	for _, tt := range tests {
		info, ok := Lookup(tt.code)
		if ok != tt.found {
			t.Errorf("Lookup(%q) found = %v, want %v", tt.code, ok, tt.found)
			continue
		}
		if info.Symbol != tt.symbol {
			t.Errorf("Lookup(%q) symbol = %q, want %q", tt.code, info.Symbol, tt.symbol)
		}
	}
}

func TestFallbackRates_CoverReferenceTable(t *testing.T) {
	rates, ok := FallbackRates("USD")
	if !ok {
		t.Fatal("FallbackRates(USD) not available")
	}

	for _, info := range Supported() {
		rate, present := rates[info.Code]
		if !present {
			t.Errorf("no fallback rate for %s", info.Code)
			continue
		}
		if rate <= 0 {
			t.Errorf("fallback rate for %s = %v, want > 0", info.Code, rate)
		}
	}
}

func TestFallbackRates_Rebased(t *testing.T) {
	rates, ok := FallbackRates("eur")
	if !ok {
		t.Fatal("FallbackRates(EUR) not available")
	}

	if rates["EUR"] != 1 {
		t.Errorf("EUR->EUR = %v, want 1", rates["EUR"])
	}

	want := 1 / fallbackRates["EUR"]
	if math.Abs(rates["USD"]-want) > 1e-12 {
		t.Errorf("EUR->USD = %v, want %v", rates["USD"], want)
	}

	crossWant := fallbackRates["GBP"] / fallbackRates["EUR"]
	if math.Abs(rates["GBP"]-crossWant) > 1e-12 {
		t.Errorf("EUR->GBP = %v, want %v", rates["GBP"], crossWant)
	}
}

func TestFallbackRates_UnknownBase(t *testing.T) {
	rates, ok := FallbackRates("XYZ")
	if ok {
		t.Error("FallbackRates(XYZ) reported available")
	}
	if len(rates) != 0 {
		t.Errorf("FallbackRates(XYZ) = %v, want empty", rates)
	}
}

func TestFallbackRates_DoesNotLeakTable(t *testing.T) {
	rates, _ := FallbackRates("USD")
	rates["EUR"] = 42

	again, _ := FallbackRates("USD")
	if again["EUR"] == 42 {
		t.Error("FallbackRates() exposed the fallback table to mutation")
	}
}
