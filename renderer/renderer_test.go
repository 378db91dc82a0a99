package renderer

import (
	"strings"
	"testing"

	"github.com/etnz/beantab"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

func TestFormatNumber(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"100", "100.00"},
		{"1234.5", "1,234.50"},
		{"-312.4", "(312.40)"},
		{"1234567.891", "1,234,567.89"},
		{"-0.004", "0.00"},
	}
	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			if got := formatNumber(decimal.RequireFromString(tc.in)); got != tc.want {
				t.Errorf("formatNumber(%s) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestFormatValue(t *testing.T) {
	testCases := []struct {
		name string
		v    beantab.Value
		t    beantab.BalanceType
		want string
	}{
		{"null", beantab.Null(), beantab.NoBalanceType, Empty},
		{"number", beantab.Num(50), beantab.NoBalanceType, "50.00"},
		{"tagged", beantab.Num(50), beantab.Padded, "50.00 ~"},
		{"full padded", beantab.Num(-3), beantab.FullPadded, "(3.00) F~"},
		{"text", beantab.Text("abc"), beantab.NoBalanceType, "abc"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := formatValue(tc.v, tc.t); got != tc.want {
				t.Errorf("formatValue(%#v, %v) = %q, want %q", tc.v, tc.t, got, tc.want)
			}
		})
	}
}

func TestCurrencyLabel(t *testing.T) {
	testCases := []struct {
		code string
		want string
	}{
		{"EUR", "€ EUR"},
		{"USD", "$ USD"},
		{"ZZZ", "◌ ZZZ"},
	}
	for _, tc := range testCases {
		if got := CurrencyLabel(tc.code); got != tc.want {
			t.Errorf("CurrencyLabel(%q) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func sampleGrid(group bool) beantab.Grid {
	return beantab.BuildGrid(beantab.PivotInput{
		Balances: []beantab.Balance{
			{Account: "Assets:A", Currency: "USD", Date: "2024-01-01", Number: beantab.Num(100), Type: beantab.Regular},
			{Account: "Assets:B", Currency: "EUR", Date: "2024-01-01", Number: beantab.Num(-5), Type: beantab.Padded},
			{Account: "Assets:A", Currency: "EUR", Date: "2024-01-02", Number: beantab.Num(7), Type: beantab.Regular},
		},
		Accounts: []beantab.Account{
			{Account: "Assets:A", DefaultBalanceType: beantab.Regular},
			{Account: "Assets:B", DefaultBalanceType: beantab.Regular},
		},
		BalanceErrors: []beantab.BalanceError{
			{Account: "Assets:A", Currency: "USD", Date: "2024-01-01", Message: "off by 1"},
		},
		Edits: []beantab.Edit{
			{Account: "Assets:A", Currency: "EUR", Date: "2024-01-02", OriginalValue: beantab.Num(7), NewValue: beantab.Num(8)},
		},
		Options: beantab.GridOptions{GroupByAccount: group},
	})
}

func TestGridMarkdown(t *testing.T) {
	t.Run("flat", func(t *testing.T) {
		out := GridMarkdown(sampleGrid(false))
		header, rows := parseTable(t, out)
		wantHeader := []string{"account", "type", "currency", "2024-01-01", "2024-01-02"}
		if diff := cmp.Diff(wantHeader, lower(header)); diff != "" {
			t.Errorf("header mismatch (-want +got):\n%s", diff)
		}
		want := [][]string{
			{"Assets:A", "!", "$ USD", "⚠ 100.00", Empty},
			{"Assets:B", "!", "€ EUR", "(5.00) ~", Empty},
			{"Assets:A", "!", "€ EUR", Empty, "8.00"},
		}
		if diff := cmp.Diff(want, rows); diff != "" {
			t.Errorf("rows mismatch (-want +got):\n%s", diff)
		}
		if !strings.Contains(out, "off by 1") {
			t.Errorf("balance error message missing from:\n%s", out)
		}
	})

	t.Run("grouped", func(t *testing.T) {
		_, rows := parseTable(t, GridMarkdown(sampleGrid(true)))
		var got [][2]string
		for _, r := range rows {
			got = append(got, [2]string{r[0], r[2]})
		}
		want := [][2]string{
			{"Assets:A", "$ USD"},
			{"", "€ EUR"},
			{"Assets:B", "€ EUR"},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("grouped rows mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if got := GridMarkdown(beantab.Grid{}); !strings.Contains(got, "No balances") {
			t.Errorf("GridMarkdown(empty) = %q", got)
		}
	})
}

func TestEditsMarkdown(t *testing.T) {
	edits := []beantab.Edit{
		{Account: "Assets:A", Currency: "USD", Date: "2024-01-01", OriginalValue: beantab.Num(100), NewValue: beantab.Num(120), BalanceType: beantab.Padded},
		{Account: "Assets:B", Currency: "EUR", Date: "2024-01-03", OriginalValue: beantab.Null(), NewValue: beantab.Num(1)},
	}
	_, rows := parseTable(t, EditsMarkdown(edits))
	want := [][]string{
		{"2024-01-01", "Assets:A", "USD", "100.00", "120.00 ~"},
		{"2024-01-03", "Assets:B", "EUR", Empty, "1.00"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	if got := EditsMarkdown(nil); !strings.Contains(got, "No changes to save.") {
		t.Errorf("EditsMarkdown(nil) = %q", got)
	}
}

func TestProblemsMarkdown(t *testing.T) {
	if got := ProblemsMarkdown("Ignored filters", nil); got != "" {
		t.Errorf("ProblemsMarkdown(nil) = %q, want empty", got)
	}
	got := ProblemsMarkdown("Ignored filters", []beantab.Problem{{Item: "Assets:(", Message: "missing closing )"}})
	for _, want := range []string{"Ignored filters", "Assets:(", "missing closing )"} {
		if !strings.Contains(got, want) {
			t.Errorf("ProblemsMarkdown() = %q, want it to contain %q", got, want)
		}
	}
}

// parseTable parses the first GFM table of a markdown document.
func parseTable(t *testing.T, doc string) (header []string, rows [][]string) {
	t.Helper()
	src := []byte(doc)
	root := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(src))

	var table ast.Node
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == east.KindTable && table == nil {
			table = n
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	if table == nil {
		t.Fatalf("no table in:\n%s", doc)
	}
	for r := table.FirstChild(); r != nil; r = r.NextSibling() {
		var cells []string
		for c := r.FirstChild(); c != nil; c = c.NextSibling() {
			cells = append(cells, strings.TrimSpace(plainText(c, src)))
		}
		if r.Kind() == east.KindTableHeader {
			header = cells
		} else {
			rows = append(rows, cells)
		}
	}
	return header, rows
}

// plainText concatenates the text under n, markup removed.
func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Text:
			b.Write(n.Segment.Value(src))
			if n.SoftLineBreak() || n.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(n.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func lower(list []string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = strings.ToLower(s)
	}
	return out
}
