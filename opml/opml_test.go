package opml

import (
	"bytes"
	"strings"
	"testing"

	"github.com/okravets/newsdesk/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOPML = `<?xml version="1.0" encoding="UTF-8"?>
<opml version="2.0">
  <head><title>Subscriptions</title></head>
  <body>
    <outline text="Technology">
      <outline type="rss" text="Tech Wire" xmlUrl="https://techwire.example.com/rss"/>
      <outline type="rss" text="Lab Notes" xmlUrl="https://lab.example.com/feed" category="science"/>
    </outline>
    <outline type="rss" text="General" xmlUrl="https://general.example.com/rss"/>
  </body>
</opml>`

func TestParse(t *testing.T) {
	feeds, err := Parse(strings.NewReader(sampleOPML))
	require.NoError(t, err)
	require.Len(t, feeds, 3)

	assert.Equal(t, "https://techwire.example.com/rss", feeds[0].URL)
	assert.Equal(t, "technology", feeds[0].Category, "nested feeds inherit the group text, lowercased")

	assert.Equal(t, "science", feeds[1].Category, "explicit category wins over the group")

	assert.Equal(t, "https://general.example.com/rss", feeds[2].URL)
	assert.Empty(t, feeds[2].Category)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse(strings.NewReader("<opml><broken"))
	assert.Error(t, err)
}

func TestGenerateParseRoundTrip(t *testing.T) {
	feeds := []config.Feed{
		{URL: "https://techwire.example.com/rss", Category: "technology"},
		{URL: "https://lab.example.com/feed", Category: "science"},
		{URL: "https://general.example.com/rss"},
	}

	var buf bytes.Buffer
	require.NoError(t, Generate(&buf, feeds))
	assert.Contains(t, buf.String(), `version="2.0"`)

	got, err := Parse(&buf)
	require.NoError(t, err)
	require.Len(t, got, 3)

	urls := make(map[string]string)
	for _, f := range got {
		urls[f.URL] = f.Category
	}
	assert.Equal(t, "technology", urls["https://techwire.example.com/rss"])
	assert.Equal(t, "science", urls["https://lab.example.com/feed"])
	assert.Equal(t, "", urls["https://general.example.com/rss"])
}
