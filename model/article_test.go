package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArticle_Validation(t *testing.T) {
	tests := []struct {
		name    string
		article Article
		wantErr bool
	}{
		{
			name: "valid article",
			article: Article{
				Title:      "Example headline",
				URL:        "https://example.com/story",
				SourceName: "Example News",
			},
			wantErr: false,
		},
		{
			name: "missing URL",
			article: Article{
				Title: "Example headline",
			},
			wantErr: true,
		},
		{
			name: "missing title",
			article: Article{
				URL: "https://example.com/story",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.article.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestArticle_PublishedTime(t *testing.T) {
	a := Article{PublishedAt: "2025-06-01T12:30:00Z"}
	ts, ok := a.PublishedTime()
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC), ts)

	// Fractional seconds are accepted
	a = Article{PublishedAt: "2025-06-01T12:30:00.500Z"}
	_, ok = a.PublishedTime()
	assert.True(t, ok)

	// Missing timestamp
	a = Article{}
	_, ok = a.PublishedTime()
	assert.False(t, ok)

	// Malformed timestamp
	a = Article{PublishedAt: "yesterday"}
	_, ok = a.PublishedTime()
	assert.False(t, ok)
}

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory("all"))
	assert.True(t, ValidCategory("technology"))
	assert.True(t, ValidCategory("science"))
	assert.False(t, ValidCategory(""))
	assert.False(t, ValidCategory("politics"))
}

func TestResult_OK(t *testing.T) {
	assert.False(t, (*Result)(nil).OK())
	assert.False(t, (&Result{Status: "error"}).OK())
	assert.False(t, (&Result{Status: "ok"}).OK(), "empty article set is not usable")
	assert.True(t, (&Result{Status: "ok", Articles: []Article{{URL: "u"}}}).OK())
}
