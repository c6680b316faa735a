package domain

import (
	"regexp"
	"sort"
	"strings"
	"time"
)

// TemplateCategory classifies a document template.
type TemplateCategory string

const (
	TemplatePetition        TemplateCategory = "petition"
	TemplateContract        TemplateCategory = "contract"
	TemplatePowerOfAttorney TemplateCategory = "power_of_attorney"
	TemplateMinutes         TemplateCategory = "minutes"
	TemplateLegalOpinion    TemplateCategory = "legal_opinion"
	TemplateDeclaration     TemplateCategory = "declaration"
	TemplateMotion          TemplateCategory = "motion"
	TemplateOther           TemplateCategory = "other"
)

// Template is a reusable document body with {{placeholder}} variables.
// Templates are private to their owner unless marked public.
type Template struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Category    TemplateCategory `json:"category"`
	Content     string           `json:"content"`
	Variables   []string         `json:"variables,omitempty"`

	IsPublic   bool `json:"is_public"`
	IsFavorite bool `json:"is_favorite"`
	UsageCount int  `json:"usage_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var placeholderPattern = regexp.MustCompile(`\{\{([a-zA-Z0-9_.]+)\}\}`)

// ExtractPlaceholders returns the unique {{variable}} names found in the
// content, sorted for a stable representation. Dotted names such as
// client.name are a single variable.
func ExtractPlaceholders(content string) []string {
	matches := placeholderPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(matches))
	var names []string
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}
	sort.Strings(names)
	return names
}

// RenderTemplate substitutes values into the content and reports which
// placeholders had no value. Unfilled placeholders are left in place.
func RenderTemplate(content string, values map[string]string) (string, []string) {
	var missing []string
	rendered := placeholderPattern.ReplaceAllStringFunc(content, func(match string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(match, "{{"), "}}")
		if value, ok := values[name]; ok {
			return value
		}
		missing = append(missing, name)
		return match
	})
	if len(missing) > 1 {
		sort.Strings(missing)
		missing = uniqueStrings(missing)
	}
	return rendered, missing
}

func uniqueStrings(sorted []string) []string {
	out := sorted[:1]
	for _, s := range sorted[1:] {
		if s != out[len(out)-1] {
			out = append(out, s)
		}
	}
	return out
}
