// Package docs embeds the btab documentation topics.
//
// readme.md is the index: every "* name: summary" line of it declares the
// topic stored in name.md.
package docs

import (
	"bufio"
	"bytes"
	"embed"
	"fmt"
	"regexp"
	"strings"
)

//go:embed *.md
var files embed.FS

const index = "readme"

// Topic is an entry of the documentation index.
type Topic struct {
	Name    string
	Summary string
}

var topicLine = regexp.MustCompile(`^\*\s+([^:\s]+):\s*(.*)$`)

// Index returns the topics listed in readme.md, in their order.
func Index() ([]Topic, error) {
	content, err := files.ReadFile(index + ".md")
	if err != nil {
		return nil, err
	}
	var topics []Topic
	sc := bufio.NewScanner(bytes.NewReader(content))
	for sc.Scan() {
		m := topicLine.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		topics = append(topics, Topic{Name: m[1], Summary: strings.TrimSpace(m[2])})
	}
	return topics, sc.Err()
}

// Names returns the names of the indexed topics.
func Names() []string {
	topics, _ := Index()
	names := make([]string, 0, len(topics))
	for _, t := range topics {
		names = append(names, t.Name)
	}
	return names
}

// Get returns the markdown of a topic. "readme" is the index itself.
func Get(name string) (string, error) {
	content, err := files.ReadFile(name + ".md")
	if err != nil {
		return "", fmt.Errorf("unknown topic %q, see btab topic", name)
	}
	return string(content), nil
}

// Concat returns the markdown of the topics, one after the other. "*" stands
// for every indexed topic.
func Concat(names ...string) (string, error) {
	var b strings.Builder
	for _, name := range names {
		expanded := []string{name}
		if name == "*" {
			expanded = Names()
		}
		for _, n := range expanded {
			content, err := Get(n)
			if err != nil {
				return "", err
			}
			b.WriteString(content)
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}
