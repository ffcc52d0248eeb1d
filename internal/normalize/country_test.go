package normalize

import "testing"

func TestStandardizeCountry(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"USA", "ESTADOS UNIDOS"},
		{"United States", "ESTADOS UNIDOS"},
		{"united states of america", "ESTADOS UNIDOS"},
		{"ESTADOS UNIDOS", "ESTADOS UNIDOS"},
		{"Germany", "ALEMANIA"},
		{"DEU", "ALEMANIA"},
		{"Brazil", "BRASIL"},
		{"BRA", "BRASIL"},
		{"  france  ", "FRANCIA"},
		{"ESPAÑOLA", "ESPAÑA"},
	}
	for _, tc := range cases {
		if got := StandardizeCountry(tc.in); got != tc.want {
			t.Errorf("StandardizeCountry(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStandardizeCountryPassThrough(t *testing.T) {
	// Unknown names pass through uppercased rather than vanishing.
	if got := StandardizeCountry("Atlantis"); got != "ATLANTIS" {
		t.Fatalf("StandardizeCountry(Atlantis) = %q, want ATLANTIS", got)
	}
	if got := StandardizeCountry(""); got != "" {
		t.Fatalf("StandardizeCountry(empty) = %q, want empty", got)
	}
}

func TestGetCountryCode(t *testing.T) {
	code := GetCountryCode("ESTADOS UNIDOS")
	if !code.Numeric || code.Number != 25 {
		t.Fatalf("ESTADOS UNIDOS = %+v, want numeric 25", code)
	}
	if code.String() != "25" {
		t.Fatalf("String() = %q, want 25", code.String())
	}
	if v, ok := code.Value().(int); !ok || v != 25 {
		t.Fatalf("Value() = %v, want int 25", code.Value())
	}

	code = GetCountryCode("ALEMANIA")
	if !code.Numeric || code.Number != 0 {
		t.Fatalf("ALEMANIA = %+v, want numeric 0", code)
	}
	if code.String() != "0" {
		t.Fatalf("ALEMANIA String() = %q, want 0", code.String())
	}
}

func TestGetCountryCodeFailsOpen(t *testing.T) {
	// Unmapped countries keep their name in the code column instead of a
	// silent zero that would collide with a real mapping.
	code := GetCountryCode("ATLANTIS")
	if code.Numeric {
		t.Fatalf("ATLANTIS should not be numeric: %+v", code)
	}
	if code.String() != "ATLANTIS" {
		t.Fatalf("ATLANTIS String() = %q", code.String())
	}
	if v, ok := code.Value().(string); !ok || v != "ATLANTIS" {
		t.Fatalf("ATLANTIS Value() = %v", code.Value())
	}
}
