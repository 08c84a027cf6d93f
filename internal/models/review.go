// internal/models/review.go
package models

type ReviewSentiment string

const (
	SentimentPositive ReviewSentiment = "positive"
	SentimentNeutral  ReviewSentiment = "neutral"
	SentimentNegative ReviewSentiment = "negative"
)

// Review is a customer review. Reviews are read-only inputs to enrichment;
// nothing in this service mutates them.
type Review struct {
	ID        string          `json:"id"`
	Author    string          `json:"author"`
	Rating    int             `json:"rating"`
	Text      string          `json:"text"`
	Date      string          `json:"date"`
	Sentiment ReviewSentiment `json:"sentiment,omitempty"`
}
