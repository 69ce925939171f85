// Package catalog matches the free-text product names written on orders
// against the product catalog and prices them by quantity tier.
package catalog

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/ceralandia/api/internal/search"
)

// MatchStatus represents the status of a match operation
type MatchStatus int

const (
	Matched MatchStatus = iota
	Ambiguous
	Unmatched
)

func (s MatchStatus) String() string {
	switch s {
	case Matched:
		return "trovato"
	case Ambiguous:
		return "ambiguo"
	case Unmatched:
		return "non_trovato"
	default:
		return "sconosciuto"
	}
}

// MatchResult contains the result of a matching operation
type MatchResult struct {
	Status     MatchStatus
	Product    *Product  // when Matched
	Candidates []Product // when Ambiguous
}

// Matcher performs keyword-based product matching
type Matcher struct {
	products []Product
	names    []string   // normalized names, for exact hits
	keywords [][]string // pre-tokenized keywords per product
}

const (
	variantWeight = 5
	regularWeight = 1
)

// variantForms maps colour and size words to one canonical form so that
// "rossa" and "rosso" are the same variant.
var variantForms = map[string]string{
	"bianca": "bianco", "bianco": "bianco", "bianche": "bianco", "bianchi": "bianco",
	"rossa": "rosso", "rosso": "rosso", "rosse": "rosso", "rossi": "rosso",
	"nera": "nero", "nero": "nero", "nere": "nero", "neri": "nero",
	"verde": "verde", "verdi": "verde",
	"blu": "blu",
	"rosa": "rosa",
	"oro": "oro", "dorata": "oro", "dorato": "oro",
	"argento": "argento", "argentata": "argento", "argentato": "argento",
	"avorio": "avorio",
	"piccola": "piccolo", "piccolo": "piccolo", "piccole": "piccolo", "piccoli": "piccolo",
	"media": "medio", "medio": "medio", "medie": "medio", "medi": "medio",
	"grande": "grande", "grandi": "grande",
	"mini": "mini",
	"maxi": "maxi",
}

var stopWords = map[string]bool{
	"di": true, "da": true, "con": true, "per": true, "in": true, "a": true,
	"e": true, "il": true, "la": true, "lo": true, "le": true, "gli": true,
	"i": true, "un": true, "una": true, "al": true, "alla": true,
}

// New creates a new Matcher with pre-tokenized product names.
func New(products []Product) *Matcher {
	m := &Matcher{
		products: products,
		names:    make([]string, len(products)),
		keywords: make([][]string, len(products)),
	}
	for i, p := range products {
		m.names[i] = normalize(p.Name)
		_, _, rest := extractQuantity(tokenize(m.names[i]))
		m.keywords[i] = keywordsOf(rest)
	}
	return m
}

func keywordsOf(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if stopWords[tok] {
			continue
		}
		if v, ok := variantForms[tok]; ok {
			tok = v
		}
		out = append(out, tok)
	}
	return out
}

// Match finds the catalog product a line item name refers to.
func (m *Matcher) Match(text string) MatchResult {
	normalized := normalize(text)
	if normalized == "" {
		return MatchResult{Status: Unmatched}
	}

	// An exact name always wins.
	var exact []Product
	for i, name := range m.names {
		if name == normalized {
			exact = append(exact, m.products[i])
		}
	}
	if len(exact) > 0 {
		return resultOf(exact)
	}

	// Quantities like "200g" describe the item, not which product it is.
	_, _, descTokens := extractQuantity(tokenize(normalized))

	inputTokens := make(map[string]bool)
	inputVariants := make(map[string]bool)
	for _, tok := range keywordsOf(descTokens) {
		inputTokens[tok] = true
		if isVariant(tok) {
			inputVariants[tok] = true
		}
	}

	type scoredProduct struct {
		product Product
		score   int
	}

	var scored []scoredProduct
	for i, p := range m.products {
		keywords := m.keywords[i]

		// Hard filter: if input names a variant, candidate MUST have it
		if !hasAll(keywords, inputVariants) {
			continue
		}

		score := 0
		for _, kw := range keywords {
			if inputTokens[kw] {
				if isVariant(kw) {
					score += variantWeight
				} else {
					score += regularWeight
				}
			}
		}
		if score > 0 {
			scored = append(scored, scoredProduct{product: p, score: score})
		}
	}

	if len(scored) == 0 {
		return MatchResult{Status: Unmatched}
	}

	maxScore := 0
	for _, s := range scored {
		if s.score > maxScore {
			maxScore = s.score
		}
	}

	var top []Product
	for _, s := range scored {
		if s.score == maxScore {
			top = append(top, s.product)
		}
	}
	return resultOf(top)
}

func resultOf(products []Product) MatchResult {
	if len(products) == 1 {
		return MatchResult{Status: Matched, Product: &products[0]}
	}
	return MatchResult{Status: Ambiguous, Candidates: products}
}

func isVariant(tok string) bool {
	_, ok := variantForms[tok]
	return ok
}

func hasAll(keywords []string, want map[string]bool) bool {
	for v := range want {
		found := false
		for _, kw := range keywords {
			if kw == v {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// normalize strips accents and case, then replaces non-alphanumeric chars
// with spaces.
func normalize(s string) string {
	s = search.Normalize(s)

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(' ')
		}
	}

	fields := strings.Fields(sb.String())
	for i, f := range fields {
		fields[i] = strings.Trim(f, ".")
	}
	return strings.Join(strings.Fields(strings.Join(fields, " ")), " ")
}

func tokenize(s string) []string {
	return strings.Fields(s)
}

// extractQuantity finds quantity tokens like "200g", "1.5kg", "10pz" and
// separates them
func extractQuantity(tokens []string) (qty float64, unit string, rest []string) {
	qty = 1
	rest = make([]string, 0, len(tokens))

	for _, tok := range tokens {
		parsedQty, parsedUnit, ok := parseQtyUnit(tok)
		if ok {
			qty = parsedQty
			unit = parsedUnit
		} else {
			rest = append(rest, tok)
		}
	}
	return qty, unit, rest
}

// parseQtyUnit parses a token like "200g" into (200, "g", true)
func parseQtyUnit(tok string) (float64, string, bool) {
	digitEnd := 0
	for i, r := range tok {
		if unicode.IsDigit(r) || r == '.' {
			digitEnd = i + 1
		} else {
			break
		}
	}
	if digitEnd == 0 {
		return 0, "", false
	}

	numPart := tok[:digitEnd]
	unitPart := tok[digitEnd:]

	qty, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, "", false
	}

	// Unit part should be letters
	if unitPart == "" {
		return 0, "", false
	}
	for _, r := range unitPart {
		if !unicode.IsLetter(r) {
			return 0, "", false
		}
	}
	return qty, unitPart, true
}
