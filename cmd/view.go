package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/etnz/beantab"
	"gopkg.in/yaml.v3"
)

// view holds the persistent display settings of the grid.
type view struct {
	// Filter is the list of account patterns, as typed.
	Filter  []string            `yaml:"filter,omitempty"`
	Options beantab.GridOptions `yaml:",inline"`
	// Sort is a sort property, with an optional ":desc" suffix.
	Sort string `yaml:"sort,omitempty"`
	// Query is passed to the server with every balance fetch, like Fava's
	// "time" or "filter" parameters.
	Query map[string]string `yaml:"query,omitempty"`
}

// loadView reads the view file. A missing file is the default view.
func loadView() (view, error) {
	v := view{Options: beantab.DefaultGridOptions()}
	raw, err := os.ReadFile(*viewPath)
	if errors.Is(err, fs.ErrNotExist) {
		return v, nil
	}
	if err != nil {
		return v, err
	}
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("invalid view file %q: %w", *viewPath, err)
	}
	return v, nil
}

func saveView(v view) error {
	raw, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(*viewPath, raw, 0o644)
}

func (v view) query() url.Values {
	q := make(url.Values, len(v.Query))
	for k, val := range v.Query {
		q.Set(k, val)
	}
	return q
}

// sortBy splits the Sort setting.
func (v view) sortBy() (prop string, descending bool) {
	prop, dir, _ := strings.Cut(v.Sort, ":")
	return prop, dir == "desc"
}
