package scoring

import (
	"context"
	"testing"
)

func TestSentimentScore(t *testing.T) {
	if got := sentimentScore("the weather report arrived on time"); got != 0.5 {
		t.Fatalf("no cues: %v, want 0.5", got)
	}
	pos := sentimentScore("i am proud of what we achieved and delivered")
	neg := sentimentScore("the project failed and everything went wrong")
	if pos <= 0.5 {
		t.Fatalf("positive text scored %v", pos)
	}
	if neg >= 0.5 {
		t.Fatalf("negative text scored %v", neg)
	}
}

func TestConfidenceScore(t *testing.T) {
	base := confidenceScore("we shipped the release on schedule")
	if base != 0.5 {
		t.Fatalf("neutral text: %v, want 0.5", base)
	}
	up := confidenceScore("i am confident and certain this is proven")
	down := confidenceScore("maybe, perhaps it might work, not sure")
	if up <= base || down >= base {
		t.Fatalf("confidence ordering broken: up=%v base=%v down=%v", up, base, down)
	}
	if up > 1 || down < 0 {
		t.Fatalf("confidence out of range: up=%v down=%v", up, down)
	}
}

func TestClarityScore(t *testing.T) {
	if got := clarityScore("   "); got != 0 {
		t.Fatalf("blank text: %v, want 0", got)
	}

	structured := "First, I reproduced the issue in a test environment because that isolates variables. " +
		"Then I added logging around the failing path to narrow the cause. " +
		"Finally I fixed the race and verified the result with a regression test."
	terse := "Yes."
	hi := clarityScore(structured)
	lo := clarityScore(terse)
	if hi <= lo {
		t.Fatalf("structured answer %v not clearer than %q %v", hi, terse, lo)
	}
	if hi > 1 || lo < 0 {
		t.Fatalf("clarity out of range: %v, %v", hi, lo)
	}
}

func TestEngineScoreWithoutAI(t *testing.T) {
	e := NewEngine(nil)

	card, err := e.Score(context.Background(), "Tell me about a project.",
		"I am proud of a migration I delivered. First we planned it, then we executed in stages, and finally we verified the results.")
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	for name, v := range map[string]float64{
		"sentiment":  card.Sentiment,
		"confidence": card.Confidence,
		"clarity":    card.Clarity,
		"overall":    card.Overall,
	} {
		if v < 0 || v > 1 {
			t.Fatalf("%s = %v out of [0,1]", name, v)
		}
	}

	if _, err := e.Score(context.Background(), "q", "  "); err == nil {
		t.Fatal("scoring an empty answer succeeded")
	}
}
