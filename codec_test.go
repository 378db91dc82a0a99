package beantab

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// valueComparer compares values numerically, as Equal does.
var valueComparer = cmp.Comparer(func(a, b Value) bool { return a.Equal(b) })

func TestDecode(t *testing.T) {
	tests := []struct {
		text      string
		wantValue Value
		wantType  BalanceType
	}{
		{"", Null(), NoBalanceType},
		{"   ", Null(), NoBalanceType},
		{"100", Num(100), NoBalanceType},
		{" 42 ", Num(42), NoBalanceType},
		{"-3.5", Num(-3.5), NoBalanceType},
		{"100.00", Num(100), NoBalanceType},
		{"50~", Num(50), Padded},
		{"12F~", Num(12), FullPadded},
		{"12F", Num(12), Full},
		{"7!", Num(7), Regular},
		{"830.25V", Num(830.25), Valuation},
		{"abc", Text("abc"), NoBalanceType},
		{"~", Text("~"), NoBalanceType},
		{"12X", Text("12X"), NoBalanceType},
		{"F~", Text("F~"), NoBalanceType},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			v, typ := Decode(tt.text)
			if !v.Equal(tt.wantValue) {
				t.Errorf("Decode(%q) value = %#v, want %#v", tt.text, v, tt.wantValue)
			}
			if typ != tt.wantType {
				t.Errorf("Decode(%q) type = %v, want %v", tt.text, typ, tt.wantType)
			}
		})
	}
}

func TestEncode(t *testing.T) {
	tests := []struct {
		value Value
		typ   BalanceType
		want  string
	}{
		{Null(), NoBalanceType, ""},
		{Num(100), NoBalanceType, "100"},
		{Num(50), Padded, "50~"},
		{Num(12), FullPadded, "12F~"},
		{Num(-1.25), Valuation, "-1.25V"},
		{Text("abc"), NoBalanceType, "abc"},
	}
	for _, tt := range tests {
		if got := Encode(tt.value, tt.typ); got != tt.want {
			t.Errorf("Encode(%#v, %v) = %q, want %q", tt.value, tt.typ, got, tt.want)
		}
	}
}

func TestCodecRoundTrip(t *testing.T) {
	values := []Value{Num(0), Num(100), Num(-3.5), Num(1234567.891)}
	types := append([]BalanceType{NoBalanceType}, BalanceTypes()...)
	for _, v := range values {
		for _, typ := range types {
			text := Encode(v, typ)
			gotV, gotT := Decode(text)
			if !gotV.Equal(v) || gotT != typ {
				t.Errorf("Decode(Encode(%#v, %v)) = %#v, %v via %q", v, typ, gotV, gotT, text)
			}
		}
	}

	// null never carries a tag.
	if v, typ := Decode(Encode(Null(), NoBalanceType)); !v.IsNull() || !typ.IsZero() {
		t.Errorf("null round trip = %#v, %v", v, typ)
	}
}

func TestSymbolOrder(t *testing.T) {
	if len(symbolOrder) != len(BalanceTypes()) {
		t.Fatalf("symbolOrder has %d types, want %d", len(symbolOrder), len(BalanceTypes()))
	}
	for i := 1; i < len(symbolOrder); i++ {
		if len(symbolOrder[i-1].Symbol()) < len(symbolOrder[i].Symbol()) {
			t.Errorf("symbol %q is tried before the longer %q", symbolOrder[i-1].Symbol(), symbolOrder[i].Symbol())
		}
	}
}

func TestParseBalanceType(t *testing.T) {
	for _, want := range BalanceTypes() {
		got, err := ParseBalanceType(want.String())
		if err != nil || got != want {
			t.Errorf("ParseBalanceType(%q) = %v, %v, want %v", want.String(), got, err, want)
		}
	}
	if got, err := ParseBalanceType(""); err != nil || got != NoBalanceType {
		t.Errorf("ParseBalanceType(\"\") = %v, %v", got, err)
	}
	if _, err := ParseBalanceType("bogus"); err == nil {
		t.Error("ParseBalanceType(\"bogus\") succeeded, want an error")
	}
}

func TestValueEqual(t *testing.T) {
	tests := []struct {
		a, b Value
		want bool
	}{
		{Null(), Null(), true},
		{Num(100), Num(100.0), true},
		{Num(100), Null(), false},
		{Num(0), Null(), false},
		{Text("a"), Text("a"), true},
		{Text("100"), Num(100), false},
	}
	for _, tt := range tests {
		if got := tt.a.Equal(tt.b); got != tt.want {
			t.Errorf("%#v.Equal(%#v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestBalanceJSON(t *testing.T) {
	input := `[
		{"account":"Assets:Bank","currency":"EUR","date":"2024-01-31","number":1520.30,"type":"regular"},
		{"account":"Assets:Bank","currency":"EUR","date":"2024-02-29","number":null,"type":""},
		{"account":"Assets:Cash","currency":"EUR","date":"2024-02-29","number":"n/a","type":"something-new"}
	]`
	var got []Balance
	if err := json.Unmarshal([]byte(input), &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	want := []Balance{
		{Account: "Assets:Bank", Currency: "EUR", Date: "2024-01-31", Number: Num(1520.3), Type: Regular},
		{Account: "Assets:Bank", Currency: "EUR", Date: "2024-02-29", Number: Null()},
		{Account: "Assets:Cash", Currency: "EUR", Date: "2024-02-29", Number: Text("n/a")},
	}
	if diff := cmp.Diff(want, got, valueComparer); diff != "" {
		t.Errorf("Unmarshal() mismatch (-want +got):\n%s", diff)
	}

	var v Value
	if err := json.Unmarshal([]byte("true"), &v); err == nil {
		t.Errorf("Unmarshal(true) = %#v, want an error", v)
	}
}

func TestEditJSON(t *testing.T) {
	e := Edit{
		Account:       "Assets:Bank",
		Currency:      "EUR",
		Date:          "2024-01-31",
		OriginalValue: Null(),
		NewValue:      Num(50),
		BalanceType:   Padded,
	}
	got, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"account":"Assets:Bank","currency":"EUR","date":"2024-01-31","originalValue":null,"newValue":50,"balanceType":"padded"}`
	if string(got) != want {
		t.Errorf("Marshal() = %s, want %s", got, want)
	}

	e.BalanceType = NoBalanceType
	got, _ = json.Marshal(e)
	want = `{"account":"Assets:Bank","currency":"EUR","date":"2024-01-31","originalValue":null,"newValue":50}`
	if string(got) != want {
		t.Errorf("Marshal() without tag = %s, want %s", got, want)
	}
}
