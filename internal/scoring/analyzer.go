package scoring

import (
	"math"
	"strings"
)

// Lexical analysis of answer text: sentiment, confidence, and clarity, each
// in [0,1]. These are cue-word heuristics; the relevance half of the score
// comes from the AI evaluation in the engine.

var (
	positiveWords = []string{
		"confident", "successful", "proud", "enjoy", "love", "passionate",
		"excited", "achieved", "improved", "delivered", "effective", "great",
	}
	negativeWords = []string{
		"failed", "problem", "difficult", "struggle", "hate", "worried",
		"stress", "blame", "wrong", "bad", "never", "impossible",
	}
	confidenceWords = []string{
		"confident", "certain", "definitely", "sure", "proven", "successful",
	}
	uncertaintyWords = []string{
		"maybe", "perhaps", "might", "uncertain", "not sure", "think",
	}
	structureWords = []string{
		"first", "second", "then", "finally", "because", "therefore",
	}
)

type analysis struct {
	Sentiment  float64
	Confidence float64
	Clarity    float64
}

func analyze(text string) analysis {
	lower := strings.ToLower(text)
	return analysis{
		Sentiment:  sentimentScore(lower),
		Confidence: confidenceScore(lower),
		Clarity:    clarityScore(text),
	}
}

// sentimentScore maps the balance of positive and negative cues onto [0,1],
// with 0.5 neutral.
func sentimentScore(lower string) float64 {
	pos := countHits(lower, positiveWords)
	neg := countHits(lower, negativeWords)
	if pos+neg == 0 {
		return 0.5
	}
	compound := float64(pos-neg) / float64(pos+neg)
	return clamp((compound + 1) / 2)
}

// confidenceScore starts neutral and moves 0.1 per indicator found.
func confidenceScore(lower string) float64 {
	up := countHits(lower, confidenceWords)
	down := countHits(lower, uncertaintyWords)
	return clamp(0.5 + 0.1*float64(up) - 0.1*float64(down))
}

// clarityScore combines sentence length (optimum around 17.5 words), answer
// length, and structural connectives at weights 0.4/0.3/0.3.
func clarityScore(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}

	sentences := strings.Split(text, ".")
	var words int
	for _, s := range sentences {
		words += len(strings.Fields(s))
	}
	avgLen := float64(words) / math.Max(float64(len(sentences)), 1)

	lengthScore := clamp(1 - math.Abs(avgLen-17.5)/17.5)
	wordScore := math.Min(1, float64(len(strings.Fields(text)))/50)
	structureScore := math.Min(1, float64(countHits(strings.ToLower(text), structureWords))/3)

	return clamp(lengthScore*0.4 + wordScore*0.3 + structureScore*0.3)
}

func countHits(lower string, cues []string) int {
	var n int
	for _, c := range cues {
		if strings.Contains(lower, c) {
			n++
		}
	}
	return n
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
