package beantab

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAccountFilter(t *testing.T) {
	accounts := []string{"Assets:Bank:Checking", "Assets:Bank:Savings", "Assets:Cash", "Liabilities:Card", "Assets:Bank"}

	tests := []struct {
		name     string
		patterns []string
		want     []string
		problems int
	}{
		{"no pattern", nil, accounts, 0},
		{"blank patterns", []string{"", "  "}, accounts, 0},
		{"substring", []string{"Bank"}, []string{"Assets:Bank:Checking", "Assets:Bank:Savings", "Assets:Bank"}, 0},
		{"any pattern", []string{"Cash$", "^Liabilities"}, []string{"Assets:Cash", "Liabilities:Card"}, 0},
		{"exact", []string{ExactAccountPattern("Assets:Bank")}, []string{"Assets:Bank"}, 0},
		{"invalid ignored", []string{"Cash", "([unclosed"}, []string{"Assets:Cash"}, 1},
		{"all invalid", []string{"([unclosed", "*"}, nil, 2},
		{"duplicates", []string{"Cash", " Cash "}, []string{"Assets:Cash"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, problems := CompileAccountFilter(tt.patterns)
			if len(problems) != tt.problems {
				t.Errorf("got %d problems, want %d: %v", len(problems), tt.problems, problems)
			}
			var got []string
			for _, a := range accounts {
				if f.Match(a) {
					got = append(got, a)
				}
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("matched accounts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAccountFilter_Patterns(t *testing.T) {
	f, _ := CompileAccountFilter([]string{" Bank ", "(", "Cash", "Bank"})
	want := []string{"Bank", "Cash"}
	if diff := cmp.Diff(want, f.Patterns()); diff != "" {
		t.Errorf("Patterns() mismatch (-want +got):\n%s", diff)
	}
}

func TestExactAccountPattern(t *testing.T) {
	f, problems := CompileAccountFilter([]string{ExactAccountPattern("Assets:Broker.US")})
	if len(problems) > 0 {
		t.Fatalf("problems: %v", problems)
	}
	if !f.Match("Assets:Broker.US") {
		t.Error("exact pattern does not match its account")
	}
	if f.Match("Assets:BrokerXUS") || f.Match("Assets:Broker.US:Cash") {
		t.Error("exact pattern matches another account")
	}
}
