package locator

import (
	"strings"

	"github.com/playwright-community/playwright-go"
)

// scanSelector enumerates every element the scan strategy considers a
// candidate. The same selector is used for both the JS enumeration and
// the locator lookup so candidate indexes line up.
const scanSelector = `input, textarea, button, a, span[role="button"], div[role="button"], div[contenteditable="true"]`

const scanScript = `() => {
	const nodes = document.querySelectorAll('input, textarea, button, a, span[role="button"], div[role="button"], div[contenteditable="true"]');
	const out = [];
	nodes.forEach((el, i) => {
		out.push({
			index: i,
			tag: el.tagName.toLowerCase(),
			id: el.id || '',
			class: el.className && el.className.toString ? el.className.toString() : '',
			name: el.getAttribute('name') || '',
			placeholder: el.getAttribute('placeholder') || '',
			text: (el.innerText || el.value || '').slice(0, 80),
		});
	});
	return out;
}`

// Candidate is one element considered by the scan strategy.
type Candidate struct {
	Index       int
	Tag         string
	ID          string
	Class       string
	Name        string
	Placeholder string
	Text        string
}

// scanPage enumerates candidates, scores them against the keyword list
// and returns a locator for the best-scoring usable element.
func scanPage(page playwright.Page, keywords string) (playwright.Locator, bool) {
	result, err := page.Evaluate(scanScript)
	if err != nil {
		return nil, false
	}

	raw, ok := result.([]interface{})
	if !ok {
		return nil, false
	}

	candidates := make([]Candidate, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		candidates = append(candidates, Candidate{
			Index:       asInt(m["index"]),
			Tag:         asString(m["tag"]),
			ID:          asString(m["id"]),
			Class:       asString(m["class"]),
			Name:        asString(m["name"]),
			Placeholder: asString(m["placeholder"]),
			Text:        asString(m["text"]),
		})
	}

	for _, c := range RankCandidates(candidates, keywords) {
		loc := page.Locator(scanSelector).Nth(c.Index)
		if usable(loc) {
			return loc, true
		}
	}
	return nil, false
}

// RankCandidates orders candidates by keyword-overlap score, best
// first, dropping candidates that match no keyword at all.
func RankCandidates(candidates []Candidate, keywords string) []Candidate {
	words := strings.Fields(strings.ToLower(keywords))
	type scored struct {
		c     Candidate
		score int
	}

	var ranked []scored
	for _, c := range candidates {
		s := ScoreCandidate(c, words)
		if s > 0 {
			ranked = append(ranked, scored{c: c, score: s})
		}
	}

	// Insertion sort: candidate lists are small and order must be stable
	// so equal scores keep document order.
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && ranked[j].score > ranked[j-1].score; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}

	out := make([]Candidate, len(ranked))
	for i, r := range ranked {
		out[i] = r.c
	}
	return out
}

// ScoreCandidate measures keyword overlap across a candidate's
// attributes. Placeholder and exact text matches weigh most because
// they track user-visible intent rather than styling.
func ScoreCandidate(c Candidate, words []string) int {
	score := 0
	placeholder := strings.ToLower(c.Placeholder)
	id := strings.ToLower(c.ID)
	name := strings.ToLower(c.Name)
	class := strings.ToLower(c.Class)
	text := strings.ToLower(strings.TrimSpace(c.Text))

	for _, w := range words {
		if strings.Contains(placeholder, w) {
			score += 4
		}
		if text == w {
			score += 5
		} else if strings.Contains(text, w) {
			score += 3
		}
		if strings.Contains(id, w) || strings.Contains(name, w) {
			score += 2
		}
		if strings.Contains(class, w) {
			score++
		}
	}
	return score
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asInt(v interface{}) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}
