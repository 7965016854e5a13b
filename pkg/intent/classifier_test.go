package intent

import (
	"context"
	"errors"
	"testing"
)

type stubClassifier struct {
	result Intent
	err    error
	calls  int
}

func (s *stubClassifier) ClassifyAction(_ context.Context, _ string, _ Context) (Intent, error) {
	s.calls++
	return s.result, s.err
}

func TestClassifierInterpreterDelegates(t *testing.T) {
	stub := &stubClassifier{result: SkillCheck("stealth", "guard")}
	interpreter := NewClassifierInterpreter(stub)

	got, err := interpreter.Interpret(context.Background(), "I slip past the sentry", Context{})
	if err != nil {
		t.Fatalf("Interpret failed: %v", err)
	}
	if got.Kind != KindSkillCheck || got.Skill != "stealth" {
		t.Errorf("got %+v, want stealth skill check", got)
	}
	if stub.calls != 1 {
		t.Errorf("classifier called %d times, want 1", stub.calls)
	}
}

func TestClassifierInterpreterFallsBackOnError(t *testing.T) {
	stub := &stubClassifier{err: errors.New("model unavailable")}
	interpreter := NewClassifierInterpreter(stub)

	got, err := interpreter.Interpret(context.Background(), "I climb the tower", Context{})
	if err != nil {
		t.Fatalf("Interpret failed: %v", err)
	}
	if got.Kind != KindSkillCheck || got.Skill != "athletics" {
		t.Errorf("got %+v, want athletics from keyword fallback", got)
	}
}

func TestClassifierInterpreterFallsBackOnEmptyResult(t *testing.T) {
	stub := &stubClassifier{result: Intent{}}
	interpreter := NewClassifierInterpreter(stub)

	got, err := interpreter.Interpret(context.Background(), "I go north", Context{})
	if err != nil {
		t.Fatalf("Interpret failed: %v", err)
	}
	if got.Kind != KindFreeAction {
		t.Errorf("got %+v, want free action from keyword fallback", got)
	}
}
