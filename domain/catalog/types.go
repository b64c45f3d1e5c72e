package catalog

import (
	"fmt"
	"strings"

	"unitestats/domain/core"

	"golang.org/x/text/unicode/norm"
)

// Category is a subject archetype as labelled by the reference catalog
type Category string

const (
	CategoryAttacker   Category = "アタック型"
	CategoryAllRounder Category = "バランス型"
	CategorySpeedster  Category = "スピード型"
	CategoryDefender   Category = "ディフェンス型"
	CategorySupporter  Category = "サポート型"

	// CategoryAll is the filter wildcard. It never appears on a Record.
	CategoryAll Category = "すべて"
)

// Categories lists the concrete archetypes in display order
var Categories = []Category{
	CategoryAttacker,
	CategoryAllRounder,
	CategorySpeedster,
	CategoryDefender,
	CategorySupporter,
}

var categorySlugs = map[string]Category{
	"all":         CategoryAll,
	"attacker":    CategoryAttacker,
	"all-rounder": CategoryAllRounder,
	"allrounder":  CategoryAllRounder,
	"speedster":   CategorySpeedster,
	"defender":    CategoryDefender,
	"supporter":   CategorySupporter,
}

// ParseCategory accepts either the catalog label or its English slug, in any
// width (input is NFKC-folded). An empty string means CategoryAll.
func ParseCategory(s string) (Category, error) {
	s = norm.NFKC.String(strings.TrimSpace(s))
	if s == "" {
		return CategoryAll, nil
	}
	if c, ok := categorySlugs[strings.ToLower(s)]; ok {
		return c, nil
	}
	c := Category(s)
	if c == CategoryAll || c.IsConcrete() {
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownCategory, s)
}

// IsConcrete reports whether c is one of the archetypes (not the wildcard)
func (c Category) IsConcrete() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Slug returns the English identifier for the category
func (c Category) Slug() string {
	for slug, cat := range categorySlugs {
		if cat == c && slug != "allrounder" {
			return slug
		}
	}
	return string(c)
}

// Record is one subject's reference metadata. ID is the join key.
type Record struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"type"`
	ImageURL string   `json:"imageUrl"`
}
