package normalize

import "testing"

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int64
		ok   bool
	}{
		{name: "only eok", raw: "15억", want: 1_500_000_000, ok: true},
		{name: "eok with man remainder", raw: "3억 5,000", want: 350_000_000, ok: true},
		{name: "eok with unspaced remainder", raw: "1억2000", want: 120_000_000, ok: true},
		{name: "single eok", raw: "1억", want: 100_000_000, ok: true},
		{name: "bare integer", raw: "5000", want: 5000, ok: true},
		{name: "integer with thousands separator", raw: "1,500", want: 1500, ok: true},
		{name: "surrounding whitespace", raw: "  7억  ", want: 700_000_000, ok: true},
		{name: "empty string", raw: "", ok: false},
		{name: "negotiable price", raw: "가격협의", ok: false},
		{name: "monthly rent composite", raw: "3000/30", ok: false},
		{name: "garbage before eok", raw: "십5억", ok: false},
		{name: "garbage after eok", raw: "3억 오천", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePrice(tt.raw)
			if !tt.ok {
				if got != nil {
					t.Fatalf("ParsePrice(%q) = %d, want nil", tt.raw, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ParsePrice(%q) = nil, want %d", tt.raw, tt.want)
			}
			if *got != tt.want {
				t.Errorf("ParsePrice(%q) = %d, want %d", tt.raw, *got, tt.want)
			}
		})
	}
}
