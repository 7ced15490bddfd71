package glossary

import (
	"sort"
	"unicode/utf8"
)

// Candidate is one located occurrence of a glossary term inside a piece of
// text. Start and End are byte offsets into that text; End is exclusive.
type Candidate struct {
	Start int
	End   int
	// Text is the matched substring with its original casing.
	Text  string
	Entry *Entry
}

// Overlaps reports whether c and o share at least one byte.
func (c Candidate) Overlaps(o Candidate) bool {
	return c.Start < o.End && o.Start < c.End
}

// FindCandidates runs every term of idx against text and returns all
// whole-word matches, sorted by Start. Candidates starting at the same
// offset keep the index's longest-first order.
func FindCandidates(text string, idx *Index) []Candidate {
	if idx.Len() == 0 || text == "" {
		return nil
	}

	var out []Candidate
	for i := range idx.terms {
		t := &idx.terms[i]
		pos := 0
		for pos < len(text) {
			loc := t.re.FindStringIndex(text[pos:])
			if loc == nil {
				break
			}
			start, end := pos+loc[0], pos+loc[1]
			if t.atBoundary(text, start, end) {
				out = append(out, Candidate{
					Start: start,
					End:   end,
					Text:  text[start:end],
					Entry: &t.entry,
				})
			}
			// Resume one rune further, not at end: "ha ha" recurs inside
			// "ha ha ha", and Resolve may keep only the later occurrence.
			_, size := utf8.DecodeRuneInString(text[start:])
			pos = start + size
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start < out[j].Start
	})
	return out
}

func (t *indexedTerm) atBoundary(text string, start, end int) bool {
	if t.checkStart && start > 0 {
		prev, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(prev) {
			return false
		}
	}
	last, _ := utf8.DecodeLastRuneInString(text[start:end])
	if isWordRune(last) && end < len(text) {
		next, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(next) {
			return false
		}
	}
	return true
}

// Resolve drops candidates that overlap an earlier kept one. The input must
// be sorted by Start; the result is non-overlapping and keeps that order.
// A candidate is either kept whole or rejected whole.
func Resolve(candidates []Candidate) []Candidate {
	var kept []Candidate
	for _, c := range candidates {
		// Kept spans are sorted and disjoint, so only the last one can
		// reach past c.Start.
		if n := len(kept); n > 0 && kept[n-1].Overlaps(c) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// Scan finds and resolves the matches for text in one step.
func Scan(text string, idx *Index) []Candidate {
	return Resolve(FindCandidates(text, idx))
}

// Segment is a piece of rebuilt text: literal text when Match is nil,
// otherwise the visible label of a marker for Match.
type Segment struct {
	Text  string
	Match *Candidate
}

// Segments splits text into literal runs interleaved with the kept matches.
// Concatenating every Segment's Text reproduces text exactly.
func Segments(text string, kept []Candidate) []Segment {
	var out []Segment
	last := 0
	for i := range kept {
		m := &kept[i]
		if m.Start > last {
			out = append(out, Segment{Text: text[last:m.Start]})
		}
		out = append(out, Segment{Text: text[m.Start:m.End], Match: m})
		last = m.End
	}
	if last < len(text) {
		out = append(out, Segment{Text: text[last:]})
	}
	return out
}
