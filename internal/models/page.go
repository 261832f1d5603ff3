// Package models: structured web-extraction results used as grounding context.
package models

import "time"

// PricingInfo holds the price strings found on a page.
type PricingInfo struct {
	HasPricing bool     `json:"has_pricing"`
	Prices     []string `json:"prices,omitempty"`
}

// ContactInfo holds contact channels found on a page.
type ContactInfo struct {
	Emails []string `json:"emails,omitempty"`
	Phones []string `json:"phones,omitempty"`
}

// ReviewInfo holds testimonial/review snippets found on a page.
type ReviewInfo struct {
	HasReviews bool     `json:"has_reviews"`
	Samples    []string `json:"samples,omitempty"`
}

// PageData is the structured content extracted from one web page.
type PageData struct {
	URL         string              `json:"url"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	CleanText   string              `json:"clean_text"`
	Headings    map[string][]string `json:"headings,omitempty"`
	Links       []PageLink          `json:"links,omitempty"`
	Pricing     PricingInfo         `json:"pricing"`
	Contact     ContactInfo         `json:"contact_info"`
	Reviews     ReviewInfo          `json:"reviews"`
	ExtractedAt time.Time           `json:"extracted_at"`
}

// PageLink is one anchor found during extraction.
type PageLink struct {
	Text string `json:"text"`
	Href string `json:"href"`
}

// ExtractionResult reports the outcome of a page extraction. Failures are
// signaled in the value; extraction never raises toward the engine.
type ExtractionResult struct {
	Success bool      `json:"success"`
	Data    *PageData `json:"data,omitempty"`
	Error   string    `json:"error,omitempty"`
	Cached  bool      `json:"cached,omitempty"`
}

// SalesInsights summarizes the conversion-relevant elements of a page.
type SalesInsights struct {
	HasPricing         bool     `json:"has_pricing"`
	HasTestimonials    bool     `json:"has_testimonials"`
	HasContactInfo     bool     `json:"has_contact_info"`
	PageType           string   `json:"page_type"`
	ConversionElements []string `json:"conversion_elements,omitempty"`
	UrgencyIndicators  []string `json:"urgency_indicators,omitempty"`
}
