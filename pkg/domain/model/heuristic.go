package model

import (
	"regexp"
	"strings"
)

// MaxItemLength is the maximum length of one split item
const MaxItemLength = 50

var (
	shoppingVerbPattern = regexp.MustCompile(`(?i)\b(buy|get|grab|pick up|purchase|shop for)\b`)
	groceryItemPattern  = regexp.MustCompile(`(?i)\b(lemons?|bread|milk|eggs?|tomatoes?|apples?|bananas?|cheese|butter|yogurt|flour|sugar|rice|pasta|coffee|tea|onions?|garlic|lettuce|spinach|berries|meat|chicken|beef|fish)\b`)

	itemSeparatorPattern  = regexp.MustCompile(`(?i),|\band\b|\n`)
	leadingVerbPattern    = regexp.MustCompile(`(?i)^(buy|get|grab|pick up|purchase|shop for)\b\s+`)
	leadingArticlePattern = regexp.MustCompile(`(?i)^(some|a|an|the)\b\s+`)
)

// IsShoppingText reports whether text reads like a shopping note: a purchase
// verb together with a known grocery item.
func IsShoppingText(text string) bool {
	return shoppingVerbPattern.MatchString(text) && groceryItemPattern.MatchString(text)
}

// SplitItems breaks list-like text into entries on commas, "and" and
// newlines, stripping a leading purchase verb and article from each entry.
// Empty entries and entries longer than MaxItemLength are dropped. Returns
// nil unless more than one entry remains.
func SplitItems(text string) []string {
	var items []string
	for _, fragment := range itemSeparatorPattern.Split(text, -1) {
		item := strings.TrimSpace(fragment)
		item = strings.TrimSpace(leadingVerbPattern.ReplaceAllString(item, ""))
		item = strings.TrimSpace(leadingArticlePattern.ReplaceAllString(item, ""))
		if item == "" || len([]rune(item)) > MaxItemLength {
			continue
		}
		items = append(items, item)
	}

	if len(items) > 1 {
		return items
	}
	return nil
}

// HeuristicClassification derives the locally computable fields of text
func HeuristicClassification(text string, categories *CategorySet) Classification {
	var c Classification
	if IsShoppingText(text) {
		c.Category = categories.Shopping()
	}
	c.Items = SplitItems(text)
	return c
}
