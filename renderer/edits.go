package renderer

import (
	"bytes"

	"github.com/etnz/beantab"
	md "github.com/nao1215/markdown"
)

// EditsMarkdown renders the pending edits for review before a save.
func EditsMarkdown(edits []beantab.Edit) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	if len(edits) == 0 {
		doc.PlainText("No changes to save.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignRight, md.AlignRight},
		Header:    []string{"Date", "Account", "Currency", "Original value", "New value"},
	}
	for _, e := range edits {
		table.Rows = append(table.Rows, []string{
			e.Date,
			e.Account,
			e.Currency,
			formatValue(e.OriginalValue, beantab.NoBalanceType),
			formatValue(e.NewValue, e.BalanceType),
		})
	}
	doc.Table(table)
	return doc.String()
}

// ProblemsMarkdown lists the items that were ignored, under title. It
// returns "" when there is no problem.
func ProblemsMarkdown(title string, problems []beantab.Problem) string {
	if len(problems) == 0 {
		return ""
	}
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2(title)
	items := make([]string, 0, len(problems))
	for _, p := range problems {
		items = append(items, md.Code(p.Item) + ": " + p.Message)
	}
	doc.BulletList(items...)
	return doc.String()
}
