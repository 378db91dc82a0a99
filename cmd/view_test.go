package cmd

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/etnz/beantab"
	"github.com/google/go-cmp/cmp"
)

func withViewFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "view.yaml")
	old := *viewPath
	*viewPath = path
	t.Cleanup(func() { *viewPath = old })
	return path
}

func TestView_Missing(t *testing.T) {
	withViewFile(t)
	v, err := loadView()
	if err != nil {
		t.Fatalf("loadView() error = %v", err)
	}
	if diff := cmp.Diff(view{Options: beantab.DefaultGridOptions()}, v); diff != "" {
		t.Errorf("default view mismatch (-want +got):\n%s", diff)
	}
}

func TestView_File(t *testing.T) {
	path := withViewFile(t)
	content := `filter:
  - ^Assets:Bank
  - Card$
groupByAccount: true
hideDatesWithFewerThan: 2
sort: currency:desc
query:
  time: "2024"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	v, err := loadView()
	if err != nil {
		t.Fatalf("loadView() error = %v", err)
	}
	want := view{
		Filter:  []string{"^Assets:Bank", "Card$"},
		Options: beantab.GridOptions{GroupByAccount: true, HideDatesWithFewerThan: 2},
		Sort:    "currency:desc",
		Query:   map[string]string{"time": "2024"},
	}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Errorf("loadView() mismatch (-want +got):\n%s", diff)
	}
	if prop, desc := v.sortBy(); prop != "currency" || !desc {
		t.Errorf("sortBy() = %q, %v", prop, desc)
	}
	if diff := cmp.Diff(url.Values{"time": {"2024"}}, v.query()); diff != "" {
		t.Errorf("query() mismatch (-want +got):\n%s", diff)
	}

	// saved views read back the same.
	v.Filter = append(v.Filter, "Cash")
	if err := saveView(v); err != nil {
		t.Fatalf("saveView() error = %v", err)
	}
	got, err := loadView()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(v, got); diff != "" {
		t.Errorf("saved view mismatch (-want +got):\n%s", diff)
	}
}

func TestView_Invalid(t *testing.T) {
	path := withViewFile(t)
	if err := os.WriteFile(path, []byte("filter: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadView(); err == nil {
		t.Error("loadView() of an invalid file succeeded")
	}
}

func TestView_SortBy(t *testing.T) {
	tests := []struct {
		sort string
		prop string
		desc bool
	}{
		{"", "", false},
		{"account", "account", false},
		{"account:asc", "account", false},
		{"defaultBalanceType:desc", "defaultBalanceType", true},
	}
	for _, tt := range tests {
		prop, desc := view{Sort: tt.sort}.sortBy()
		if prop != tt.prop || desc != tt.desc {
			t.Errorf("sortBy(%q) = %q, %v, want %q, %v", tt.sort, prop, desc, tt.prop, tt.desc)
		}
	}
}
