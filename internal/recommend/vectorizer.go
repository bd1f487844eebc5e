package recommend

import (
	"math"
	"strings"
	"unicode"
)

// englishStopWords are dropped during tokenization so ranking keys on the
// descriptive vocabulary rather than filler.
var englishStopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`
		a about above after again all am an and any are as at be because
		been before being below between both but by can cannot could did
		do does doing down during each few for from further had has have
		having he her here hers herself him himself his how i if in into
		is it its itself just me more most my myself no nor not now of
		off on once only or other our ours ourselves out over own same
		she should so some such than that the their theirs them
		themselves then there these they this those through to too under
		until up very was we were what when where which while who whom
		why will with you your yours yourself yourselves`) {
		englishStopWords[w] = struct{}{}
	}
}

// tokenize lowercases the text and splits it into alphanumeric terms,
// dropping stop words and single characters.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	terms := fields[:0]
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if _, stop := englishStopWords[f]; stop {
			continue
		}
		terms = append(terms, f)
	}
	return terms
}

// vectorize converts documents into unit-length TF-IDF vectors using
// smoothed inverse document frequency: idf = ln((1+n)/(1+df)) + 1.
func vectorize(texts []string) []map[string]float64 {
	n := len(texts)
	counts := make([]map[string]int, n)
	df := make(map[string]int)

	for i, text := range texts {
		tf := make(map[string]int)
		for _, term := range tokenize(text) {
			tf[term]++
		}
		counts[i] = tf
		for term := range tf {
			df[term]++
		}
	}

	idf := make(map[string]float64, len(df))
	for term, d := range df {
		idf[term] = math.Log(float64(1+n)/float64(1+d)) + 1
	}

	vectors := make([]map[string]float64, n)
	for i, tf := range counts {
		vec := make(map[string]float64, len(tf))
		var norm float64
		for term, count := range tf {
			w := float64(count) * idf[term]
			vec[term] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for term := range vec {
				vec[term] /= norm
			}
		}
		vectors[i] = vec
	}
	return vectors
}

// cosine returns the cosine similarity of two unit-length vectors, which
// reduces to their dot product. Iterates the smaller map.
func cosine(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for term, wa := range a {
		if wb, ok := b[term]; ok {
			dot += wa * wb
		}
	}
	return dot
}
