package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/beantab"
	md "github.com/nao1215/markdown"
)

// GridMarkdown renders the grid as a markdown table.
//
// Edited cells are in bold, cells with a failed balance check are marked
// with ⚠ and the messages are listed below the table. When the grid is
// grouped, rows of the same account follow each other and the account is
// only named on the first one.
func GridMarkdown(g beantab.Grid) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	if len(g.Rows) == 0 {
		doc.PlainText("No balances to show.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignCenter, md.AlignLeft},
		Header:    []string{"Account", "Type", "Currency"},
	}
	for _, d := range g.Dates {
		table.Header = append(table.Header, d)
		table.Alignment = append(table.Alignment, md.AlignRight)
	}

	type problem struct{ key, message string }
	var problems []problem
	appendRow := func(r beantab.GridRow, account string) {
		row := []string{account, r.DefaultBalanceType.Symbol(), CurrencyLabel(r.Currency)}
		for i, c := range r.Cells {
			s := formatValue(c.Value, c.Type)
			if c.Modified {
				s = md.Bold(s)
			}
			if c.Error != "" {
				s = "⚠ " + s
				problems = append(problems, problem{
					key:     fmt.Sprintf("%s %s %s", g.Dates[i], r.Account, r.Currency),
					message: c.Error,
				})
			}
			row = append(row, s)
		}
		table.Rows = append(table.Rows, row)
	}

	if len(g.Groups) > 0 {
		for _, group := range g.Groups {
			for i, ri := range group.Rows {
				account := ""
				if i == 0 {
					account = md.Bold(group.Account)
				}
				appendRow(g.Rows[ri], account)
			}
		}
	} else {
		for _, r := range g.Rows {
			appendRow(r, r.Account)
		}
	}
	doc.Table(table)

	if len(problems) > 0 {
		doc.H2("Balance errors")
		items := make([]string, 0, len(problems))
		for _, p := range problems {
			items = append(items, fmt.Sprintf("%s: %s", p.key, p.message))
		}
		doc.BulletList(items...)
	}
	return doc.String()
}
