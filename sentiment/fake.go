package sentiment

import "context"

// FakeClassifier is a scripted Classifier for tests.
type FakeClassifier struct {
	Label string
	Err   error
	Calls int
}

func (f *FakeClassifier) Classify(ctx context.Context, text string) (string, error) {
	f.Calls++
	if f.Err != nil {
		return "", f.Err
	}
	return f.Label, nil
}
