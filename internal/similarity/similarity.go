// Package similarity holds the pure text and geo distance primitives shared
// by the duplicate detector, the allocator, and the timeline sampler.
package similarity

import (
	"math"
	"strings"
	"unicode"
)

const earthRadiusMiles = 3959

// stopWords are dropped during tokenization alongside words of length <= 3.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {}, "that": {},
	"this": {}, "have": {}, "has": {}, "been": {}, "will": {}, "after": {},
	"amid": {}, "over": {}, "into": {}, "near": {}, "says": {}, "said": {},
	"were": {}, "are": {}, "was": {}, "its": {}, "their": {}, "more": {},
	"than": {}, "about": {}, "when": {}, "what": {}, "where": {}, "who": {},
}

// EditSimilarity returns 1 - levenshtein(a,b)/max(len(a),len(b)) over the
// lowercased, trimmed inputs. Two empty strings are identical (1.0).
func EditSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return 1
	}
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(longest)
}

// levenshtein computes edit distance with a two-row DP over bytes.
func levenshtein(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// Tokenize splits s into lowercase words with punctuation stripped, dropping
// stop words and words of length <= 3.
func Tokenize(s string) []string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}
	var out []string
	for _, w := range strings.Fields(b.String()) {
		if len(w) <= 3 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Keywords returns the first n significant tokens of s, in order.
func Keywords(s string, n int) []string {
	toks := Tokenize(s)
	if len(toks) > n {
		toks = toks[:n]
	}
	return toks
}

// KeywordOverlap returns the Jaccard similarity of the significant word sets
// of a and b: |A∩B| / |A∪B|, or 0 when the union is empty.
func KeywordOverlap(a, b string) float64 {
	setA := tokenSet(Tokenize(a))
	setB := tokenSet(Tokenize(b))
	if len(setA) == 0 && len(setB) == 0 {
		return 0
	}
	inter := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// SharedKeywords counts distinct tokens common to both keyword lists.
func SharedKeywords(a, b []string) int {
	set := tokenSet(a)
	n := 0
	for w := range tokenSet(b) {
		if _, ok := set[w]; ok {
			n++
		}
	}
	return n
}

// DistanceMiles returns the great-circle distance between two WGS84 points
// via the haversine formula.
func DistanceMiles(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLng := radians(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusMiles * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func tokenSet(toks []string) map[string]struct{} {
	set := make(map[string]struct{}, len(toks))
	for _, t := range toks {
		set[t] = struct{}{}
	}
	return set
}
