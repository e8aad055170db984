package hierarchy

import "testing"

func TestShortSymbol(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"A01B   1/02", "A01B1/02"},
		{"A01B1/02", "A01B1/02"},
		{"A", "A"},
		{"Y02E  10/44", "Y02E10/44"},
	}
	for _, tt := range tests {
		if got := ShortSymbol(tt.in); got != tt.want {
			t.Errorf("ShortSymbol(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestShortSymbol_Idempotent(t *testing.T) {
	for _, s := range []string{"A01B   1/02", "A01B1/02", "CPC"} {
		once := ShortSymbol(s)
		if twice := ShortSymbol(once); twice != once {
			t.Errorf("ShortSymbol not idempotent for %q: %q != %q", s, twice, once)
		}
	}
}

func TestZeroPad(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"A01B   1/02", "A01B0001020000"},
		{"A01B1/02", "A01B0001020000"},
		{"A01B1/00", "A01B0001000000"},
		{"A01B  33/12", "A01B0033120000"},
		{"Y02E  10/44", "Y02E0010440000"},
		{"A", "A"},
		{"A01", "A01"},
		{"A01B", "A01B"},
		{"A01B2230/124", "A01B2230124000"},
	}
	for _, tt := range tests {
		if got := ZeroPad(tt.in); got != tt.want {
			t.Errorf("ZeroPad(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestZeroPad_RoundTrip(t *testing.T) {
	// Zero-padding the short form must equal zero-padding the padded form.
	for _, s := range []string{"A01B   1/02", "Y02E  10/44", "A01B", "A"} {
		if ZeroPad(ShortSymbol(s)) != ZeroPad(s) {
			t.Errorf("ZeroPad(ShortSymbol(%q)) != ZeroPad(%q)", s, s)
		}
	}
}

func TestKindForLevel(t *testing.T) {
	tests := []struct {
		level int
		want  Kind
	}{
		{2, KindSection},
		{4, KindClass},
		{5, KindSubclass},
		{7, KindMainGroup},
		{8, Kind("1")},
		{9, Kind("2")},
		{12, Kind("5")},
		{16, Kind("9")},
		{30, Kind("9")}, // depth tag caps at 9
	}
	for _, tt := range tests {
		got, err := KindForLevel(tt.level)
		if err != nil {
			t.Errorf("KindForLevel(%d) failed: %v", tt.level, err)
			continue
		}
		if got != tt.want {
			t.Errorf("KindForLevel(%d) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestKindForLevel_Unclassifiable(t *testing.T) {
	for _, level := range []int{0, 1, 3, 6, -1} {
		if _, err := KindForLevel(level); err == nil {
			t.Errorf("KindForLevel(%d) should fail", level)
		}
	}
}

func TestKindForLevel_PureFunctionOfLevel(t *testing.T) {
	// Same level always yields the same kind.
	for level := 2; level <= 20; level++ {
		a, errA := KindForLevel(level)
		b, errB := KindForLevel(level)
		if (errA == nil) != (errB == nil) || a != b {
			t.Errorf("KindForLevel(%d) not deterministic", level)
		}
	}
}
