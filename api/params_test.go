package api

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pressmark-io/blog-backend/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePostFields(t *testing.T) {
	longContent := strings.Repeat("content ", 10)

	tests := []struct {
		name    string
		title   string
		content string
		field   string
	}{
		{"valid", "A valid title", longContent, ""},
		{"missing title", "", longContent, "title"},
		{"title too short", "Hey", longContent, "title"},
		{"title too long", strings.Repeat("t", 201), longContent, "title"},
		{"missing content", "A valid title", "", "content"},
		{"content too short", "A valid title", "too short", "content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePostFields(tt.title, tt.content)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			var apiErr *errs.ApiErr
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.field, apiErr.Field)
		})
	}
}

func TestValidatePostFieldsCountsRunesNotBytes(t *testing.T) {
	// 150 runes but 300 bytes; only byte counting would reject this title
	title := strings.Repeat("é", 150)
	assert.NoError(t, validatePostFields(title, strings.Repeat("é", 50)))
}

func TestParseDateParam(t *testing.T) {
	t.Run("empty means unset", func(t *testing.T) {
		got, err := parseDateParam("", "published_after", false)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("calendar date", func(t *testing.T) {
		got, err := parseDateParam("2024-03-01", "published_after", false)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got.UTC())
	})

	t.Run("calendar date as upper bound covers the whole day", func(t *testing.T) {
		got, err := parseDateParam("2024-03-01", "published_before", true)
		require.NoError(t, err)

		sameDay := time.Date(2024, 3, 1, 23, 59, 59, 0, time.UTC)
		assert.False(t, got.Before(sameDay))
		assert.True(t, got.Before(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("rfc 3339 timestamp", func(t *testing.T) {
		got, err := parseDateParam("2024-03-01T15:04:05Z", "published_after", false)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 1, 15, 4, 5, 0, time.UTC), got.UTC())
	})

	t.Run("garbage names the parameter", func(t *testing.T) {
		_, err := parseDateParam("yesterday", "published_before", false)
		var apiErr *errs.ApiErr
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "published_before", apiErr.Field)
	})
}

func TestParsePostFilter(t *testing.T) {
	req := httptest.NewRequest("GET",
		"/posts?status=published&title=intro&content=worker&tags=go,%20web%20,&is_featured=true&limit=10&offset=5", nil)

	filter, err := parsePostFilter(req)
	require.NoError(t, err)
	assert.Equal(t, "intro", filter.Title)
	assert.Equal(t, "worker", filter.Content)
	assert.Equal(t, []string{"go", "web"}, filter.Tags)
	require.NotNil(t, filter.Featured)
	assert.True(t, *filter.Featured)
	assert.Equal(t, 10, filter.Limit)
	assert.Equal(t, 5, filter.Offset)
}

func TestParsePostFilterRejectsBadBoolean(t *testing.T) {
	req := httptest.NewRequest("GET", "/posts?is_featured=maybe", nil)

	_, err := parsePostFilter(req)
	var apiErr *errs.ApiErr
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "is_featured", apiErr.Field)
}
