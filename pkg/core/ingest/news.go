package ingest

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/haotianwudev/ai-hedge-fund-enhanced/pkg/models"
)

// ParseNewsHTML extracts labelled headlines from a vendor news page. The
// page lists one article per ".news-item" element with a ".headline" link, a
// ".sentiment" badge and an optional datetime attribute. Items without a
// recognizable sentiment label default to neutral; the sentiment agent
// treats them as such.
func ParseNewsHTML(ticker string, r io.Reader) ([]models.NewsItem, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse news page for %s: %w", ticker, err)
	}

	var items []models.NewsItem
	doc.Find(".news-item").Each(func(_ int, sel *goquery.Selection) {
		link := sel.Find(".headline a").First()
		title := strings.TrimSpace(link.Text())
		if title == "" {
			return
		}

		item := models.NewsItem{
			Ticker:    ticker,
			Title:     title,
			Source:    strings.TrimSpace(sel.Find(".source").First().Text()),
			Sentiment: normalizeSentiment(sel.Find(".sentiment").First().Text()),
		}
		if href, ok := link.Attr("href"); ok {
			item.URL = href
		}
		if ts, ok := sel.Find("time").First().Attr("datetime"); ok {
			if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
				item.Date = parsed
			} else if parsed, err := time.Parse("2006-01-02", ts); err == nil {
				item.Date = parsed
			}
		}
		items = append(items, item)
	})
	return items, nil
}

func normalizeSentiment(label string) string {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "positive", "bullish":
		return "positive"
	case "negative", "bearish":
		return "negative"
	default:
		return "neutral"
	}
}
