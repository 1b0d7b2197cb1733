package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pressmark-io/blog-backend/database"
	"github.com/pressmark-io/blog-backend/errs"
	"github.com/pressmark-io/blog-backend/models"
)

// parsePostFilter extracts the recognized filter parameters from the query
// string. Malformed values are validation errors naming the parameter; they
// never silently fall back to a default.
func parsePostFilter(r *http.Request) (database.PostFilter, error) {
	query := r.URL.Query()
	filter := database.PostFilter{
		Status:   models.PostStatus(query.Get("status")),
		Title:    query.Get("title"),
		Content:  query.Get("content"),
		Category: query.Get("category"),
		Author:   query.Get("author"),
		Search:   query.Get("search"),
		Ordering: query.Get("ordering"),
	}

	if tags := query.Get("tags"); tags != "" {
		for _, name := range strings.Split(tags, ",") {
			if name = strings.TrimSpace(name); name != "" {
				filter.Tags = append(filter.Tags, name)
			}
		}
	}

	if featured := query.Get("is_featured"); featured != "" {
		value, err := strconv.ParseBool(featured)
		if err != nil {
			return filter, errs.NewInvalidFieldError("is_featured", "must be a boolean")
		}
		filter.Featured = &value
	}

	after, err := parseDateParam(query.Get("published_after"), "published_after", false)
	if err != nil {
		return filter, err
	}
	filter.PublishedAfter = after

	before, err := parseDateParam(query.Get("published_before"), "published_before", true)
	if err != nil {
		return filter, err
	}
	filter.PublishedBefore = before

	limit, err := parseIntParam(query.Get("limit"), "limit")
	if err != nil {
		return filter, err
	}
	filter.Limit = limit

	offset, err := parseIntParam(query.Get("offset"), "offset")
	if err != nil {
		return filter, err
	}
	filter.Offset = offset

	return filter, nil
}

// parseDateParam accepts a calendar date or an RFC 3339 timestamp. Date-only
// upper bounds are pushed to the end of the day so the bound stays inclusive.
func parseDateParam(value, field string, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse("2006-01-02", value); err == nil {
		if endOfDay {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return &t, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}

	return nil, errs.NewInvalidFieldError(field,
		fmt.Sprintf("%q is not a valid date; use YYYY-MM-DD or RFC 3339", value))
}

func parseIntParam(value, field string) (int, error) {
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, errs.NewInvalidFieldError(field, "must be a non-negative integer")
	}
	return parsed, nil
}

// validatePostFields enforces the write-time length constraints. Violations
// are rejected, never truncated.
func validatePostFields(title, content string) error {
	if title == "" {
		return errs.NewMissingRequiredFieldError("title")
	}
	if len([]rune(title)) < models.TitleMinLength {
		return errs.NewInvalidFieldError("title",
			fmt.Sprintf("must be at least %d characters long", models.TitleMinLength))
	}
	if len([]rune(title)) > models.TitleMaxLength {
		return errs.NewInvalidFieldError("title",
			fmt.Sprintf("must be at most %d characters long", models.TitleMaxLength))
	}
	if content == "" {
		return errs.NewMissingRequiredFieldError("content")
	}
	if len([]rune(content)) < models.ContentMinLength {
		return errs.NewInvalidFieldError("content",
			fmt.Sprintf("must be at least %d characters long", models.ContentMinLength))
	}
	return nil
}
