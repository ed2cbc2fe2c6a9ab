package reviews

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

const (
	MinRating         = 1
	MaxRating         = 5
	MinContentLength  = 20
	MaxContentLength  = 500
	ratingRuleMessage = "must be a whole number between 1 and 5"
)

// ValidationError describes the first field of an Input that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Input is a review as submitted by a party. Ratings arrive as JSON numbers, so
// they are kept as floats until Validate has rejected fractional values.
type Input struct {
	OverallRating       *float64
	CommunicationRating *float64
	QualityRating       *float64
	TimelinessRating    *float64
	ValueRating         *float64
	Content             *string
}

func (in Input) Validate() error {
	if in.OverallRating == nil {
		return &ValidationError{Field: "overall_rating", Message: "is required"}
	}

	ratings := []struct {
		field string
		value *float64
	}{
		{"overall_rating", in.OverallRating},
		{"communication_rating", in.CommunicationRating},
		{"quality_rating", in.QualityRating},
		{"timeliness_rating", in.TimelinessRating},
		{"value_rating", in.ValueRating},
	}
	for _, r := range ratings {
		if r.value != nil && !validRating(*r.value) {
			return &ValidationError{Field: r.field, Message: ratingRuleMessage}
		}
	}

	if in.hasContent() {
		// Postgres text columns reject NUL bytes and invalid UTF-8
		if !utf8.ValidString(*in.Content) || strings.ContainsRune(*in.Content, 0) {
			return &ValidationError{Field: "content", Message: "must be valid text without NUL characters"}
		}

		n := utf8.RuneCountInString(*in.Content)
		if n < MinContentLength || n > MaxContentLength {
			return &ValidationError{
				Field:   "content",
				Message: fmt.Sprintf("must be between %d and %d characters", MinContentLength, MaxContentLength),
			}
		}
	}

	return nil
}

func validRating(v float64) bool {
	return v == math.Trunc(v) && v >= MinRating && v <= MaxRating
}

// an empty string is treated the same as no content
func (in Input) hasContent() bool {
	return in.Content != nil && *in.Content != ""
}

// ToReview builds the row to insert. Call it only after Validate succeeded.
func (in Input) ToReview(orderID, reviewerID, revieweeID int64) *Review {
	rv := &Review{
		OrderID:             orderID,
		ReviewerID:          reviewerID,
		RevieweeID:          revieweeID,
		OverallRating:       int(*in.OverallRating),
		CommunicationRating: toInt(in.CommunicationRating),
		QualityRating:       toInt(in.QualityRating),
		TimelinessRating:    toInt(in.TimelinessRating),
		ValueRating:         toInt(in.ValueRating),
	}
	if in.hasContent() {
		content := *in.Content
		rv.Content = &content
	}
	return rv
}

func toInt(v *float64) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}
