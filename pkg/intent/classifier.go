package intent

import "context"

// Classifier is the classification capability of a narrative model. It is a
// separate contract from prose generation so interpreters can be tested
// without invoking generation, even when one implementation backs both.
type Classifier interface {
	ClassifyAction(ctx context.Context, rawText string, ictx Context) (Intent, error)
}

// ClassifierInterpreter delegates classification to a model-backed
// classifier, falling back to the keyword lexicon when the model fails or
// returns nothing usable.
type ClassifierInterpreter struct {
	classifier Classifier
	fallback   *KeywordInterpreter
}

// NewClassifierInterpreter wraps a classifier with the keyword fallback.
func NewClassifierInterpreter(c Classifier) *ClassifierInterpreter {
	return &ClassifierInterpreter{
		classifier: c,
		fallback:   NewKeywordInterpreter(),
	}
}

// Interpret asks the classifier first. Any classifier failure degrades to
// the local lexicon rather than failing the turn.
func (ci *ClassifierInterpreter) Interpret(ctx context.Context, rawText string, ictx Context) (Intent, error) {
	if ci.classifier != nil {
		result, err := ci.classifier.ClassifyAction(ctx, rawText, ictx)
		if err == nil && result.Kind != "" {
			return result, nil
		}
	}
	return ci.fallback.Interpret(ctx, rawText, ictx)
}
