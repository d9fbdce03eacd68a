package categorize

import "math"

// maxBits is the longest pattern a single bitap pass can handle (one bit per rune in a uint32).
const maxBits = 32

// Matcher scores approximate occurrences of a pattern inside a text using the Bitap
// (Wu-Manber) algorithm. Scores are in [0, 1]; lower is better. A score combines the
// error ratio (errors / pattern length) with how far from Location the match sits,
// scaled by Distance.
type Matcher struct {
	// Threshold is the worst score still considered a match.
	Threshold float64
	// Location is where in the text the pattern is expected to start.
	Location int
	// Distance is how far from Location a match may drift before its score reaches 1.
	// Zero means any drift scores 1.
	Distance int
}

// DefaultMatcher matches with a 0.4 cutoff, anchored at the start of the text.
func DefaultMatcher() Matcher {
	return Matcher{Threshold: 0.4, Location: 0, Distance: 100}
}

type chunk struct {
	pattern    []rune
	alphabet   map[rune]uint32
	startIndex int
}

// Score returns the best score of pattern against text and whether it is a match.
// Both strings are compared as-is; callers normalize case.
func (m Matcher) Score(pattern, text string) (float64, bool) {
	p := []rune(pattern)
	if len(p) == 0 {
		return 1, false
	}
	if pattern == text {
		return 0, true
	}

	t := []rune(text)
	chunks := splitChunks(p)
	total := 0.0
	matched := false
	for _, c := range chunks {
		score, ok := m.search(t, c.pattern, c.alphabet, m.Location+c.startIndex)
		if ok {
			matched = true
		}
		total += score
	}
	if !matched {
		return 1, false
	}
	return total / float64(len(chunks)), true
}

func splitChunks(p []rune) []chunk {
	add := func(out []chunk, part []rune, start int) []chunk {
		return append(out, chunk{pattern: part, alphabet: patternAlphabet(part), startIndex: start})
	}
	if len(p) <= maxBits {
		return add(nil, p, 0)
	}

	var out []chunk
	remainder := len(p) % maxBits
	end := len(p) - remainder
	for i := 0; i < end; i += maxBits {
		out = add(out, p[i:i+maxBits], i)
	}
	if remainder > 0 {
		start := len(p) - maxBits
		out = add(out, p[start:], start)
	}
	return out
}

func patternAlphabet(p []rune) map[rune]uint32 {
	mask := make(map[rune]uint32, len(p))
	for i, r := range p {
		mask[r] |= 1 << uint(len(p)-i-1)
	}
	return mask
}

func (m Matcher) score(patternLen, errors, current, expected int) float64 {
	accuracy := float64(errors) / float64(patternLen)
	proximity := expected - current
	if proximity < 0 {
		proximity = -proximity
	}
	if m.Distance == 0 {
		if proximity != 0 {
			return 1
		}
		return accuracy
	}
	return accuracy + float64(proximity)/float64(m.Distance)
}

func (m Matcher) search(text, pattern []rune, alphabet map[rune]uint32, location int) (float64, bool) {
	patternLen := len(pattern)
	textLen := len(text)
	expected := max(0, min(location, textLen))

	threshold := m.Threshold
	bestLocation := expected

	// Exact occurrences tighten the threshold before the fuzzy passes.
	for idx := indexRunes(text, pattern, bestLocation); idx > -1; idx = indexRunes(text, pattern, bestLocation) {
		threshold = math.Min(m.score(patternLen, 0, idx, expected), threshold)
		bestLocation = idx + patternLen
	}

	bestLocation = -1
	var lastBits []uint32
	finalScore := 1.0
	binMax := patternLen + textLen
	mask := uint32(1) << uint(patternLen-1)

	for i := 0; i < patternLen; i++ {
		// Binary search for how far from the expected location a match with i errors
		// can still beat the current threshold.
		binMin := 0
		binMid := binMax
		for binMin < binMid {
			if m.score(patternLen, i, expected+binMid, expected) <= threshold {
				binMin = binMid
			} else {
				binMax = binMid
			}
			binMid = (binMax-binMin)/2 + binMin
		}
		binMax = binMid

		start := max(1, expected-binMid+1)
		finish := min(expected+binMid, textLen) + patternLen

		bits := make([]uint32, finish+2)
		bits[finish+1] = (1 << uint(i)) - 1

		for j := finish; j >= start; j-- {
			cur := j - 1
			var charMatch uint32
			if cur < textLen {
				charMatch = alphabet[text[cur]]
			}

			bits[j] = ((bits[j+1] << 1) | 1) & charMatch
			if i > 0 {
				bits[j] |= ((bitAt(lastBits, j+1) | bitAt(lastBits, j)) << 1) | 1 | bitAt(lastBits, j+1)
			}

			if bits[j]&mask != 0 {
				finalScore = m.score(patternLen, i, cur, expected)
				if finalScore <= threshold {
					threshold = finalScore
					bestLocation = cur
					if bestLocation <= expected {
						break
					}
					start = max(1, 2*expected-bestLocation)
				}
			}
		}

		// No point trying more errors if they can't beat the current best.
		if m.score(patternLen, i+1, expected, expected) > threshold {
			break
		}
		lastBits = bits
	}

	return math.Max(0.001, finalScore), bestLocation >= 0
}

func bitAt(bits []uint32, i int) uint32 {
	if i < 0 || i >= len(bits) {
		return 0
	}
	return bits[i]
}

func indexRunes(text, pattern []rune, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i+len(pattern) <= len(text); i++ {
		match := true
		for k, r := range pattern {
			if text[i+k] != r {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
