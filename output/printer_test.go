package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/okravets/newsdesk/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinter_JSON(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinterWithWriters(&buf, &bytes.Buffer{}, false)

	err := p.JSON(map[string]int{"count": 3})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"count": 3`)
}

func TestPrinter_WarnfGoesToStderr(t *testing.T) {
	var out, errBuf bytes.Buffer
	p := NewPrinterWithWriters(&out, &errBuf, false)

	p.Warnf("provider %s failed", "newsapi")

	assert.Empty(t, out.String())
	assert.Equal(t, "provider newsapi failed\n", errBuf.String())
}

func TestPrinter_ColorsDisabled(t *testing.T) {
	var errBuf bytes.Buffer
	p := NewPrinterWithWriters(&bytes.Buffer{}, &errBuf, false)

	p.Errorf("plain")
	assert.Equal(t, "plain\n", errBuf.String(), "no ANSI escapes without colors")
}

func TestPrinter_ArticleTable(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinterWithWriters(&buf, &bytes.Buffer{}, false)

	articles := []model.Article{
		{Title: "Headline one", URL: "https://a/1", SourceName: "BBC", PublishedAt: "2025-06-01T10:00:00Z", Category: "science"},
		{Title: "Headline two", URL: "https://a/2", SourceName: "CNN"},
	}
	p.ArticleTable(articles, 0, map[string]bool{"https://a/2": true})

	got := buf.String()
	assert.Contains(t, got, "Headline one")
	assert.Contains(t, got, "2025-06-01 10:00")
	assert.Contains(t, got, "https://a/2")
	assert.Contains(t, got, "*", "favorited row is marked")
}

func TestPrinter_StatsTable(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinterWithWriters(&buf, &bytes.Buffer{}, false)

	p.StatsTable(map[string]int{"science": 2, "sports": 1}, []string{"science", "sports", "health"})

	got := buf.String()
	assert.Contains(t, got, "science")
	assert.NotContains(t, got, "health", "absent categories are skipped")
	assert.Contains(t, got, "3", "total row sums the counts")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	long := strings.Repeat("а", 80) // Cyrillic: rune-safe truncation
	got := truncate(long, 10)
	assert.Equal(t, 10, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))
}
