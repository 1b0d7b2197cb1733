package models

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestPostStatusValid(t *testing.T) {
	assert.True(t, StatusDraft.Valid())
	assert.True(t, StatusPublished.Valid())
	assert.False(t, PostStatus("archived").Valid())
	assert.False(t, PostStatus("").Valid())
}

func TestExcerpt(t *testing.T) {
	short := BlogPost{Content: "a short body"}
	assert.Equal(t, "a short body", short.Excerpt())

	long := BlogPost{Content: strings.Repeat("x", 300)}
	got := long.Excerpt()
	assert.Len(t, got, 203)
	assert.True(t, strings.HasSuffix(got, "..."))

	// multi-byte content is cut on rune boundaries, never mid-character
	multibyte := BlogPost{Content: strings.Repeat("é", 300)}
	got = multibyte.Excerpt()
	assert.Equal(t, strings.Repeat("é", 200)+"...", got)
	assert.True(t, utf8.ValidString(got))
}

func TestReadTime(t *testing.T) {
	assert.Equal(t, 1, BlogPost{Content: "tiny"}.ReadTime())

	// ~600 words at 200 wpm reads in about 3 minutes
	long := BlogPost{Content: strings.Repeat("word ", 600)}
	assert.Equal(t, 3, long.ReadTime())
}

func TestCallerCanModify(t *testing.T) {
	author := uuid.New()
	other := uuid.New()

	assert.False(t, Anonymous().CanModify(author))
	assert.True(t, Caller{ID: author, Role: RoleUser}.CanModify(author))
	assert.False(t, Caller{ID: other, Role: RoleUser}.CanModify(author))
	assert.True(t, Caller{ID: other, Role: RoleAdmin}.CanModify(author))
}
