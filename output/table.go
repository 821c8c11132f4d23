package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/okravets/newsdesk/model"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

const titleWidth = 60

// Table accumulates rows and renders them borderless, left-aligned.
type Table struct {
	table  *tablewriter.Table
	header []string
	rows   [][]string
}

// NewTable creates a table writing to w.
func NewTable(w io.Writer, headers []string) *Table {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)

	return &Table{table: table, header: headers}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(row []string) {
	t.rows = append(t.rows, row)
}

// Render outputs the table.
func (t *Table) Render() {
	t.table.Header(t.header)
	t.table.Bulk(t.rows)
	t.table.Render()
}

// ArticleTable renders a page of articles. offset is the index of the
// first row within the filtered set; favorites marks rows whose URL
// the current user has favorited.
func (p *Printer) ArticleTable(articles []model.Article, offset int, favorites map[string]bool) {
	table := NewTable(p.out, []string{"#", "", "Title", "Source", "Published", "Category", "URL"})

	for i, a := range articles {
		marker := ""
		if favorites[a.URL] {
			marker = "*"
		}
		table.AddRow([]string{
			strconv.Itoa(offset + i + 1),
			marker,
			truncate(a.Title, titleWidth),
			a.SourceName,
			publishedLabel(a),
			a.Category,
			a.URL,
		})
	}

	table.Render()
}

// SourceTable renders the known source names.
func (p *Printer) SourceTable(sources []string) {
	table := NewTable(p.out, []string{"Source"})
	for _, s := range sources {
		table.AddRow([]string{s})
	}
	table.Render()
}

// StatsTable renders per-category article counts in the given order,
// with a trailing total.
func (p *Printer) StatsTable(counts map[string]int, order []string) {
	table := NewTable(p.out, []string{"Category", "Articles"})
	total := 0
	for _, category := range order {
		n, ok := counts[category]
		if !ok {
			continue
		}
		total += n
		table.AddRow([]string{category, strconv.Itoa(n)})
	}
	table.AddRow([]string{"total", strconv.Itoa(total)})
	table.Render()
}

// PageFooter summarizes pagination state under a table.
func (p *Printer) PageFooter(page, totalPages, shown, totalFiltered int) {
	p.Printf("page %d of %d (%d of %d articles)", page, totalPages, shown, totalFiltered)
}

func publishedLabel(a model.Article) string {
	ts, ok := a.PublishedTime()
	if !ok {
		return "-"
	}
	return ts.Format("2006-01-02 15:04")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return fmt.Sprintf("%s…", string(runes[:max-1]))
}
