package domain

// Classification labels an inbound customer message.
type Classification string

const (
	ClassificationPositiveFeedback Classification = "POSITIVE_FEEDBACK"
	ClassificationNegativeFeedback Classification = "NEGATIVE_FEEDBACK"
	ClassificationQuery            Classification = "QUERY"
)

// Valid reports whether the label is one of the three known values.
func (c Classification) Valid() bool {
	switch c {
	case ClassificationPositiveFeedback, ClassificationNegativeFeedback, ClassificationQuery:
		return true
	}
	return false
}
