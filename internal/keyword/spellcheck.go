package keyword

import (
	"sort"
	"strings"
	"sync"
)

// SpellChecker suggests corrected queries from the indexed vocabulary. It is
// used when a keyword search comes back empty so the caller can offer a
// "did you mean" alternative.
type SpellChecker struct {
	dictionary  TermDictionary
	maxDistance int
	minFreq     int

	mu      sync.RWMutex
	terms   []string
	termSet map[string]struct{}
	cached  bool
}

// NewSpellChecker creates a spell checker over the given dictionary.
func NewSpellChecker(dict TermDictionary) *SpellChecker {
	return &SpellChecker{
		dictionary:  dict,
		maxDistance: 2,
		minFreq:     1,
		termSet:     make(map[string]struct{}),
	}
}

// RefreshCache reloads the vocabulary from the dictionary. Call after new
// chunks are indexed so suggestions see the latest terms.
func (s *SpellChecker) RefreshCache() error {
	terms, err := s.dictionary.Terms()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.terms = terms
	s.termSet = make(map[string]struct{}, len(terms))
	for _, t := range terms {
		s.termSet[strings.ToLower(t)] = struct{}{}
	}
	s.cached = true
	return nil
}

// SuggestQuery returns a corrected form of the query built from each term's
// best suggestion, or "" when every term is already in the vocabulary or no
// suggestion exists.
func (s *SpellChecker) SuggestQuery(query string) string {
	if !s.ensureCache() {
		return ""
	}

	words := strings.Fields(strings.ToLower(query))
	corrected := make([]string, 0, len(words))
	changed := false
	for _, w := range words {
		s.mu.RLock()
		_, known := s.termSet[w]
		s.mu.RUnlock()
		if known {
			corrected = append(corrected, w)
			continue
		}
		if best := s.bestSuggestion(w); best != "" {
			corrected = append(corrected, best)
			changed = true
		} else {
			corrected = append(corrected, w)
		}
	}
	if !changed {
		return ""
	}
	return strings.Join(corrected, " ")
}

// bestSuggestion returns the highest scoring vocabulary term within the edit
// distance bound, preferring frequent terms at low distance.
func (s *SpellChecker) bestSuggestion(term string) string {
	s.mu.RLock()
	terms := s.terms
	s.mu.RUnlock()

	type candidate struct {
		term  string
		score float64
	}
	candidates := make([]candidate, 0, 4)
	for _, dictTerm := range terms {
		lower := strings.ToLower(dictTerm)
		if lower == term {
			continue
		}
		// Length gap alone can rule a term out before the full distance.
		lenDiff := len(lower) - len(term)
		if lenDiff < 0 {
			lenDiff = -lenDiff
		}
		if lenDiff > s.maxDistance {
			continue
		}
		distance := LevenshteinDistance(term, lower)
		if distance > s.maxDistance {
			continue
		}
		freq, err := s.dictionary.TermFrequency(dictTerm)
		if err != nil || freq < s.minFreq {
			continue
		}
		candidates = append(candidates, candidate{
			term:  lower,
			score: float64(freq) / float64(distance+1),
		})
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
	return candidates[0].term
}

func (s *SpellChecker) ensureCache() bool {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()
	if cached {
		return true
	}
	return s.RefreshCache() == nil
}
