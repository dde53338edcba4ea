// Package sentiment holds the classifier capability contract and the tagging
// stage that turns labels into the persisted one-hot count vector.
package sentiment

import (
	"context"
	"os"

	Logger "github.com/vozlytics/vozlytics/utils/log"
)

const (
	LabelPositive = "positive"
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
)

// Classifier is the black-box sentiment capability: raw text in, one of the
// three labels out. Implementations may return unrecognized labels or errors;
// callers must map both to neutral.
type Classifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// IsKnownLabel reports whether label is one of the three labels this system
// persists.
func IsKnownLabel(label string) bool {
	return label == LabelPositive || label == LabelNegative || label == LabelNeutral
}

// NeutralClassifier labels everything neutral. Used when no real classifier
// is configured so ingestion keeps working, just without signal.
type NeutralClassifier struct{}

func (NeutralClassifier) Classify(ctx context.Context, text string) (string, error) {
	return LabelNeutral, nil
}

// NewClassifierFromEnv builds the classifier stack from the environment:
// CLASSIFIER_DISABLED=1 forces the always-neutral classifier, otherwise a
// Gemini classifier is built, wrapped in a redis label cache when REDIS_HOST
// is set. Classifier construction failures degrade to neutral instead of
// aborting the process.
func NewClassifierFromEnv(ctx context.Context) Classifier {
	if os.Getenv("CLASSIFIER_DISABLED") == "1" {
		Logger.Log.Warn("classifier disabled, every message will be tagged neutral")
		return NeutralClassifier{}
	}

	var classifier Classifier
	gemini, err := NewGeminiClassifier(ctx, GeminiConfig{})
	if err != nil {
		Logger.Log.Errorf("fail to build gemini classifier, falling back to neutral: %v", err)
		return NeutralClassifier{}
	}
	classifier = gemini

	if os.Getenv("REDIS_HOST") != "" {
		cached, err := NewCachedClassifier(classifier)
		if err != nil {
			Logger.Log.Warnf("redis label cache unavailable, classifying without cache: %v", err)
		} else {
			classifier = cached
		}
	}
	return classifier
}
