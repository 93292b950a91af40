package format

import (
	"math/rand/v2"
	"strings"
)

// SymbolRule maps a lower-case keyword to the symbols that may decorate a
// post mentioning it.
type SymbolRule struct {
	Keyword    string
	Candidates []string
}

// SymbolRules is scanned in order and the first matching keyword wins, so
// more specific keywords must come before the ones they contain.
var SymbolRules = []SymbolRule{
	{"ai", []string{"🤖", "🦾"}},
	{"artificial intelligence", []string{"🤖", "🦾"}},
	{"robot", []string{"🤖", "🦾"}},
	{"tech", []string{"💻", "⌨️"}},
	{"software", []string{"💻", "🧑‍💻"}},
	{"hardware", []string{"🖥️", "🔧"}},
	{"startup", []string{"🚀", "🦄"}},
	{"innovation", []string{"💡", "✨"}},
	{"gadget", []string{"📱", "⌚"}},
	{"mobile", []string{"📱", "📲"}},
	{"phone", []string{"📱", "📲"}},
	{"apple", []string{"🍎", "🍏"}},
	{"google", []string{"🔍", "🌈"}},
	{"microsoft", []string{"🪟", "🖱️"}},
	{"amazon", []string{"🛒", "📦"}},
	{"space", []string{"🌌", "🛰️", "🚀"}},
	{"science", []string{"🔬", "🧪"}},
	{"internet", []string{"🌐", "📡"}},
	{"security", []string{"🔒", "🔐"}},
	{"cyber", []string{"🛡️", "🕵️"}},
	{"blockchain", []string{"⛓️", "🧊"}},
	{"crypto", []string{"💰", "🪙"}},
	{"bitcoin", []string{"🪙", "₿"}},
}

// FallbackSymbols are used when no keyword matches.
var FallbackSymbols = []string{"📰", "🗞️", "📢"}

// PickSymbol returns a candidate of the first rule whose keyword occurs in
// text, ignoring case, or a fallback symbol.
func PickSymbol(text string, rules []SymbolRule, fallback []string, rnd *rand.Rand) string {
	lower := strings.ToLower(text)

	for _, rule := range rules {
		if strings.Contains(lower, rule.Keyword) && len(rule.Candidates) > 0 {
			return choose(rule.Candidates, rnd)
		}
	}

	if len(fallback) == 0 {
		return ""
	}

	return choose(fallback, rnd)
}

func choose(candidates []string, rnd *rand.Rand) string {
	if rnd == nil {
		return candidates[rand.IntN(len(candidates))]
	}

	return candidates[rnd.IntN(len(candidates))]
}
