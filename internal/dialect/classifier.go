package dialect

// Classification is the outcome of scoring one file's evidence.
type Classification struct {
	Kind       Kind
	Score      int
	TotalScore int
	Confidence float64 // Score / TotalScore
	// Reason is the strongest hint of Kind, "" for Unknown.
	Reason          string
	RunnerUp        Kind
	RunnerUpScore   int
	ObservedSignals int
}

// MinConfidence is the share of the total score the winner needs before
// Detect trusts it.
const MinConfidence = 0.6

type Classifier struct{}

// Classify picks the dialect with the highest score. Ties go to the earlier
// kind in Kinds() order.
func (Classifier) Classify(e *Evidence) Classification {
	c := Classification{ObservedSignals: len(e.Hints())}
	if c.ObservedSignals == 0 {
		return c
	}
	for _, k := range Kinds() {
		score := e.Score(k)
		c.TotalScore += score
		switch {
		case score > c.Score:
			c.RunnerUp, c.RunnerUpScore = c.Kind, c.Score
			c.Kind, c.Score = k, score
		case score > c.RunnerUpScore:
			c.RunnerUp, c.RunnerUpScore = k, score
		}
	}
	if c.TotalScore > 0 {
		c.Confidence = float64(c.Score) / float64(c.TotalScore)
	}
	if h, ok := e.Strongest(c.Kind); ok {
		c.Reason = h.Reason
	}
	return c
}

// Detect sniffs doc and returns its dialect. The result is Unknown when no
// line voted or the vote was too split.
func Detect(doc Document) Classification {
	c := Classifier{}.Classify(Sniff(doc))
	if c.Kind != Unknown && c.Confidence < MinConfidence {
		c.Kind = Unknown
		c.Reason = ""
	}
	return c
}
