package main

import (
	"fmt"
	"io"
	"strings"

	"legalcase_app_go/models"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// renderResearch writes docs as a terminal table
func renderResearch(w io.Writer, docs []models.LegalResearchDocument) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Citation", "Title", "Court", "Decided", "Relevance"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: 48},
		{Number: 6, Align: text.AlignRight},
	})

	for _, d := range docs {
		decided := ""
		if !d.DecisionDate.IsZero() {
			decided = d.DecisionDate.Format("2006-01-02")
		}
		t.AppendRow(table.Row{shortID(d.ID), d.Citation, d.Title, d.Court, decided, fmt.Sprintf("%.2f", d.RelevanceScore)})
	}
	t.AppendFooter(table.Row{"", "", "", "", "Total", len(docs)})
	t.Render()
}

func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
