package matcher

import (
	"strings"

	"github.com/aretw0/narrator/pkg/domain"
)

const (
	// DefaultCutoff is the minimum similarity ratio accepted by the similarity tier.
	DefaultCutoff = 0.45
	// DefaultOverlapThreshold is the minimum token overlap accepted by the fallback tier.
	DefaultOverlapThreshold = 0.34
	// DefaultMinTokenLength is the shortest token, in runes, that counts for overlap.
	DefaultMinTokenLength = 3
)

// Tier names the resolution stage that produced a match.
type Tier string

const (
	TierContainment Tier = "containment"
	TierSimilarity  Tier = "similarity"
	TierOverlap     Tier = "overlap"
)

// Match is a resolved choice.
type Match struct {
	Choice    domain.ChoicePayload
	Candidate string
	Tier      Tier
	Score     float64
}

// candidate is a string an utterance can match, tied to the choice that owns it.
type candidate struct {
	text   string
	choice domain.ChoicePayload
}

// Matcher resolves utterances against scene choices. It holds no mutable
// state and is safe for concurrent use.
type Matcher struct {
	cutoff         float64
	overlap        float64
	minTokenLength int
}

// Option configures the Matcher.
type Option func(*Matcher)

// WithCutoff sets the similarity tier threshold.
func WithCutoff(cutoff float64) Option {
	return func(m *Matcher) {
		m.cutoff = cutoff
	}
}

// WithOverlapThreshold sets the token overlap tier threshold.
func WithOverlapThreshold(threshold float64) Option {
	return func(m *Matcher) {
		m.overlap = threshold
	}
}

// WithMinTokenLength sets the shortest token that counts for overlap.
func WithMinTokenLength(n int) Option {
	return func(m *Matcher) {
		m.minTokenLength = n
	}
}

// New creates a Matcher with the default thresholds.
func New(opts ...Option) *Matcher {
	m := &Matcher{
		cutoff:         DefaultCutoff,
		overlap:        DefaultOverlapThreshold,
		minTokenLength: DefaultMinTokenLength,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Cutoff returns the similarity threshold in use.
func (m *Matcher) Cutoff() float64 { return m.cutoff }

// OverlapThreshold returns the token overlap threshold in use.
func (m *Matcher) OverlapThreshold() float64 { return m.overlap }

// Resolve maps an utterance to one of the scene's choices.
// The boolean is false when no tier produced a confident match.
func (m *Matcher) Resolve(scene *domain.Scene, utterance string) (Match, bool) {
	if scene == nil || strings.TrimSpace(utterance) == "" {
		return Match{}, false
	}

	candidates := buildCandidates(domain.FormatChoices(scene))
	if len(candidates) == 0 {
		return Match{}, false
	}

	if match, ok := containment(candidates, utterance); ok {
		return match, true
	}
	if match, ok := m.similarity(candidates, utterance); ok {
		return match, true
	}
	return m.tokenOverlap(candidates, utterance)
}

func buildCandidates(choices []domain.ChoicePayload) []candidate {
	candidates := make([]candidate, 0, len(choices)*2)
	for _, c := range choices {
		if c.Label != "" {
			candidates = append(candidates, candidate{text: c.Label, choice: c})
		}
		if c.ID != nil && *c.ID != "" {
			candidates = append(candidates, candidate{text: *c.ID, choice: c})
		}
	}
	return candidates
}

func containment(candidates []candidate, utterance string) (Match, bool) {
	u := strings.ToLower(strings.TrimSpace(utterance))
	for _, c := range candidates {
		text := strings.ToLower(c.text)
		if strings.Contains(u, text) || strings.Contains(text, u) {
			return Match{Choice: c.choice, Candidate: c.text, Tier: TierContainment, Score: 1}, true
		}
	}
	return Match{}, false
}

func (m *Matcher) similarity(candidates []candidate, utterance string) (Match, bool) {
	best := Match{}
	found := false
	for _, c := range candidates {
		score := Similarity(c.text, utterance)
		if score < m.cutoff {
			continue
		}
		if !found || score > best.Score {
			best = Match{Choice: c.choice, Candidate: c.text, Tier: TierSimilarity, Score: score}
			found = true
		}
	}
	return best, found
}

func (m *Matcher) tokenOverlap(candidates []candidate, utterance string) (Match, bool) {
	words := tokenize(utterance, m.minTokenLength)
	if len(words) == 0 {
		return Match{}, false
	}

	best := Match{}
	found := false
	for _, c := range candidates {
		score, ok := overlapScore(tokenize(c.text, m.minTokenLength), words)
		if !ok {
			continue
		}
		if score > best.Score {
			best = Match{Choice: c.choice, Candidate: c.text, Tier: TierOverlap, Score: score}
			found = true
		}
	}
	if !found || best.Score < m.overlap {
		return Match{}, false
	}
	return best, true
}
