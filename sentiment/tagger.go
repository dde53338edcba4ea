package sentiment

import (
	"context"
	"time"

	"github.com/vozlytics/vozlytics/model"
	Logger "github.com/vozlytics/vozlytics/utils/log"
)

const DefaultClassifyTimeout = 15 * time.Second

// Tagger is the sentiment tagging stage: it invokes the classifier once per
// message with a bounded timeout and writes the resulting one-hot count
// vector and analysis timestamp onto the message. A classifier fault
// (error, timeout, unrecognized label) maps to the all-neutral vector and is
// never propagated, so ingestion cannot abort on a broken classifier.
type Tagger struct {
	classifier Classifier
	timeout    time.Duration
}

func NewTagger(classifier Classifier, timeout time.Duration) *Tagger {
	if timeout <= 0 {
		timeout = DefaultClassifyTimeout
	}
	return &Tagger{classifier: classifier, timeout: timeout}
}

func (t *Tagger) TagMessage(msg *model.Message) {
	label := t.classify(msg.MessageContent)
	msg.PositiveCount, msg.NegativeCount, msg.NeutralCount = CountsForLabel(label)
	msg.AnalyzedAt = time.Now()
}

func (t *Tagger) classify(text string) string {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	label, err := t.classifier.Classify(ctx, text)
	if err != nil {
		Logger.Log.Errorf("error in sentiment analysis, falling back to neutral: %v", err)
		return LabelNeutral
	}
	return label
}

// CountsForLabel maps a label to the one-hot (positive, negative, neutral)
// vector. Anything that is not exactly "positive" or "negative", including
// unrecognized labels, is neutral.
func CountsForLabel(label string) (positive, negative, neutral int) {
	switch label {
	case LabelPositive:
		return 1, 0, 0
	case LabelNegative:
		return 0, 1, 0
	default:
		return 0, 0, 1
	}
}
