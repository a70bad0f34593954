package lookup

const (
	// sampleThreshold is the dictionary size above which fuzzy matching
	// runs on a sample instead of every headword.
	sampleThreshold = 10000

	// sampleHead keeps the leading headwords, which the data files list
	// first because they are the common words.
	sampleHead = 500

	// sampleRandom is how many additional headwords are drawn at random
	// from the remainder.
	sampleRandom = 2500
)

// sampleKeys returns the headwords to fuzzy-match against. Small
// dictionaries are used whole, large ones are sampled to keep the
// brute-force similarity scan fast.
func (s *Dict) sampleKeys() []string {
	keys := s.dict.Headwords()
	if len(keys) <= sampleThreshold {
		return keys
	}

	sampled := make([]string, 0, sampleHead+sampleRandom)
	sampled = append(sampled, keys[:sampleHead]...)

	rest := keys[sampleHead:]
	n := sampleRandom
	if n > len(rest) {
		n = len(rest)
	}
	s.mu.Lock()
	perm := s.rng.Perm(len(rest))
	s.mu.Unlock()
	for _, idx := range perm[:n] {
		sampled = append(sampled, rest[idx])
	}
	return sampled
}
