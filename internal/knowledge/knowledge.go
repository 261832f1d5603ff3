// Package knowledge implements the in-memory sales knowledge base: curated
// snippets with category, keyword and context-tag metadata, scored keyword
// search and per-item usage statistics.
package knowledge

import (
	"crypto/md5"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vendalab/salespipe/internal/models"
)

// Category classifies a knowledge item.
type Category string

const (
	CategoryProductInfo       Category = "product_info"
	CategorySalesTechniques   Category = "sales_techniques"
	CategoryObjectionHandling Category = "objection_handling"
	CategoryCustomerStories   Category = "customer_stories"
	CategoryPricing           Category = "pricing"
	CategoryFeatures          Category = "features"
	CategoryBenefits          Category = "benefits"
	CategoryComparisons       Category = "comparisons"
	CategoryFAQs              Category = "faqs"
	CategoryTestimonials      Category = "testimonials"
	CategoryCaseStudies       Category = "case_studies"
	CategoryIndustryInsights  Category = "industry_insights"
)

// IsValidCategory reports whether the given value is a recognized category.
func IsValidCategory(c Category) bool {
	switch c {
	case CategoryProductInfo, CategorySalesTechniques, CategoryObjectionHandling,
		CategoryCustomerStories, CategoryPricing, CategoryFeatures,
		CategoryBenefits, CategoryComparisons, CategoryFAQs,
		CategoryTestimonials, CategoryCaseStudies, CategoryIndustryInsights:
		return true
	default:
		return false
	}
}

// Item is one unit of sales knowledge.
type Item struct {
	ID            string    `json:"id"`
	Category      Category  `json:"category"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Keywords      []string  `json:"keywords"`
	ContextTags   []string  `json:"context_tags"`
	Priority      int       `json:"priority"`
	Confidence    float64   `json:"confidence_score"`
	Source        string    `json:"source,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	UsageCount    int       `json:"usage_count"`
	Effectiveness float64   `json:"effectiveness_score"`
}

// SearchResult is one ranked hit from Base.Search.
type SearchResult struct {
	Item            Item     `json:"item"`
	Relevance       float64  `json:"relevance_score"`
	MatchType       string   `json:"match_type"`
	MatchedKeywords []string `json:"matched_keywords,omitempty"`
}

// Snippet converts a result to the wire shape returned by the search API.
func (r SearchResult) Snippet() models.KnowledgeSnippet {
	return models.KnowledgeSnippet{
		Content:   r.Item.Content,
		Category:  string(r.Item.Category),
		Relevance: r.Relevance,
	}
}

// Stats summarizes the state of the knowledge base.
type Stats struct {
	TotalItems           int            `json:"total_items"`
	Categories           map[string]int `json:"categories"`
	TotalUsage           int            `json:"total_usage"`
	AverageEffectiveness float64        `json:"average_effectiveness"`
}

// Base is a concurrency-safe in-memory knowledge store.
type Base struct {
	mu    sync.RWMutex
	items map[string]*Item
}

// NewBase creates a knowledge base preloaded with the default sales content.
func NewBase() *Base {
	b := &Base{items: make(map[string]*Item)}
	for _, item := range defaultItems() {
		b.add(item)
	}
	slog.Info("knowledge.NewBase: knowledge base initialized", "items", len(b.items))
	return b
}

// Add inserts or replaces an item and returns its id. Missing ids are derived
// from the item content so re-adding the same material does not duplicate it.
func (b *Base) Add(item Item) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.add(item)
	slog.Info("Base.Add: knowledge item added", "id", id, "title", item.Title, "category", item.Category)
	return id
}

func (b *Base) add(item Item) string {
	if item.ID == "" {
		item.ID = generateID(item)
	}
	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	if item.Effectiveness == 0 {
		item.Effectiveness = 0.5
	}
	b.items[item.ID] = &item
	return item.ID
}

// generateID derives a stable id from the item title and content.
func generateID(item Item) string {
	sum := md5.Sum([]byte(item.Title + item.Content))
	return fmt.Sprintf("%s_%x", item.Category, sum[:4])
}

// Get returns the item with the given id.
func (b *Base) Get(id string) (Item, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	item, ok := b.items[id]
	if !ok {
		return Item{}, false
	}
	return *item, true
}

// Delete removes an item. It reports whether the item existed.
func (b *Base) Delete(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.items[id]; !ok {
		return false
	}
	delete(b.items, id)
	return true
}

// relevanceThreshold filters out incidental matches.
const relevanceThreshold = 0.1

// Search ranks items against a free-text query, optionally restricted to one
// category and to items carrying any of the given context tags. It never
// fails; no match yields an empty slice.
func (b *Base) Search(query string, category Category, contextTags []string, maxResults int) []SearchResult {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if maxResults <= 0 {
		maxResults = 5
	}

	best := make(map[string]SearchResult)
	for _, item := range b.items {
		if category != "" && item.Category != category {
			continue
		}
		if len(contextTags) > 0 && !hasAnyTag(item.ContextTags, contextTags) {
			continue
		}
		if result, ok := scoreItem(*item, query); ok {
			best[item.ID] = result
		}
	}

	results := make([]SearchResult, 0, len(best))
	for _, result := range best {
		results = append(results, result)
	}
	// Blend textual relevance with editorial priority and observed
	// effectiveness, matching the composite the search API documents.
	// Ties break on item ID so ranking does not depend on map order.
	sort.Slice(results, func(i, j int) bool {
		si, sj := compositeScore(results[i]), compositeScore(results[j])
		if si != sj {
			return si > sj
		}
		return results[i].Item.ID < results[j].Item.ID
	})
	if len(results) > maxResults {
		results = results[:maxResults]
	}
	return results
}

func compositeScore(r SearchResult) float64 {
	return r.Relevance*0.7 + float64(r.Item.Priority)*0.1 + r.Item.Effectiveness*0.2
}

// scoreItem computes the best relevance score an item earns for a query,
// combining exact keyword overlap with title, content and word-level matches.
func scoreItem(item Item, query string) (SearchResult, bool) {
	queryLower := strings.ToLower(strings.TrimSpace(query))
	queryWords := strings.Fields(queryLower)
	if len(queryWords) == 0 {
		return SearchResult{}, false
	}

	var matched []string
	for _, word := range queryWords {
		for _, keyword := range item.Keywords {
			if word == strings.ToLower(keyword) {
				matched = append(matched, word)
				break
			}
		}
	}
	keywordScore := float64(len(matched)) / float64(len(queryWords))

	var textScore float64
	if strings.Contains(strings.ToLower(item.Title), queryLower) {
		textScore += 0.8
	}
	if strings.Contains(strings.ToLower(item.Content), queryLower) {
		textScore += 0.5
	}
	fullText := strings.ToLower(item.Title + " " + item.Content)
	wordMatches := 0
	for _, word := range queryWords {
		if strings.Contains(fullText, word) {
			wordMatches++
		}
	}
	textScore += float64(wordMatches) / float64(len(queryWords)) * 0.3

	switch {
	case keywordScore >= textScore && keywordScore > relevanceThreshold:
		return SearchResult{Item: item, Relevance: keywordScore, MatchType: "exact", MatchedKeywords: matched}, true
	case textScore > relevanceThreshold:
		return SearchResult{Item: item, Relevance: textScore, MatchType: "text"}, true
	default:
		return SearchResult{}, false
	}
}

func hasAnyTag(itemTags, wanted []string) bool {
	for _, tag := range wanted {
		for _, have := range itemTags {
			if tag == have {
				return true
			}
		}
	}
	return false
}

// ByCategory returns all items in a category.
func (b *Base) ByCategory(category Category) []Item {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []Item
	for _, item := range b.items {
		if item.Category == category {
			out = append(out, *item)
		}
	}
	return out
}

// UpdateUsage records that an item was served, shifting its effectiveness
// score up on helpful use and down otherwise.
func (b *Base) UpdateUsage(id string, helpful bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	item, ok := b.items[id]
	if !ok {
		return
	}
	item.UsageCount++
	if helpful {
		item.Effectiveness = min(1.0, item.Effectiveness+0.1)
	} else {
		item.Effectiveness = max(0.0, item.Effectiveness-0.05)
	}
}

// GetStats returns aggregate statistics.
func (b *Base) GetStats() Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()

	stats := Stats{Categories: make(map[string]int)}
	stats.TotalItems = len(b.items)
	if stats.TotalItems == 0 {
		return stats
	}
	var effectiveness float64
	for _, item := range b.items {
		stats.Categories[string(item.Category)]++
		stats.TotalUsage += item.UsageCount
		effectiveness += item.Effectiveness
	}
	stats.AverageEffectiveness = effectiveness / float64(stats.TotalItems)
	return stats
}
