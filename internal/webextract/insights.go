package webextract

import (
	"strings"

	"github.com/vendalab/salespipe/internal/models"
)

// urgencyKeywords flag scarcity language in page copy.
var urgencyKeywords = []string{"limitado", "oferta", "desconto", "prazo", "últimas", "apenas", "hoje"}

// ctaLinkKeywords flag action buttons among page links.
var ctaLinkKeywords = []string{"comprar", "adquirir", "solicitar", "contato"}

// Insights derives the conversion-relevant summary of an extracted page.
func Insights(data *models.PageData) models.SalesInsights {
	if data == nil {
		return models.SalesInsights{PageType: "landing_page"}
	}
	return models.SalesInsights{
		HasPricing:         data.Pricing.HasPricing,
		HasTestimonials:    data.Reviews.HasReviews,
		HasContactInfo:     len(data.Contact.Emails) > 0 || len(data.Contact.Phones) > 0,
		PageType:           classifyPageType(data),
		ConversionElements: conversionElements(data),
		UrgencyIndicators:  urgencyIndicators(data),
	}
}

// classifyPageType buckets a page by keywords in its title and body.
func classifyPageType(data *models.PageData) string {
	text := strings.ToLower(data.Title + " " + data.CleanText)
	switch {
	case containsAny(text, "produto", "comprar", "preço"):
		return "product_page"
	case containsAny(text, "sobre", "empresa", "quem somos"):
		return "about_page"
	case containsAny(text, "contato", "fale conosco"):
		return "contact_page"
	case containsAny(text, "blog", "artigo", "notícia"):
		return "content_page"
	default:
		return "landing_page"
	}
}

func conversionElements(data *models.PageData) []string {
	var elements []string
	for _, link := range data.Links {
		if containsAny(strings.ToLower(link.Text), ctaLinkKeywords...) {
			elements = append(elements, "cta_button")
			break
		}
	}
	if data.Pricing.HasPricing {
		elements = append(elements, "pricing_info")
	}
	if data.Reviews.HasReviews {
		elements = append(elements, "testimonials")
	}
	if len(data.Contact.Emails) > 0 || len(data.Contact.Phones) > 0 {
		elements = append(elements, "contact_info")
	}
	return elements
}

func urgencyIndicators(data *models.PageData) []string {
	content := strings.ToLower(data.CleanText)
	var found []string
	for _, keyword := range urgencyKeywords {
		if strings.Contains(content, keyword) {
			found = append(found, keyword)
		}
	}
	return found
}

func containsAny(text string, keywords ...string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
