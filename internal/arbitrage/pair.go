package arbitrage

import (
	"fmt"
	"strings"
)

// ParsePair splits a "BASE-QUOTE" trading pair into its legs.
func ParsePair(pair string) (base, quote string, err error) {
	parts := strings.Split(pair, "-")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid trading pair %q, expected BASE-QUOTE", pair)
	}
	return parts[0], parts[1], nil
}

// SymbolUniverse returns the deduplicated union of all symbols appearing in
// the given pairs, in first-seen order. Malformed pairs are ignored.
func SymbolUniverse(pairs []string) []string {
	seen := make(map[string]struct{})
	var symbols []string
	for _, pair := range pairs {
		base, quote, err := ParsePair(pair)
		if err != nil {
			continue
		}
		for _, symbol := range []string{base, quote} {
			if _, ok := seen[symbol]; !ok {
				seen[symbol] = struct{}{}
				symbols = append(symbols, symbol)
			}
		}
	}
	return symbols
}

// SuggestPairs returns the configured pairs whose base asset contains the base
// leg of the unrecognized pair. Used to build "did you mean" messages.
func SuggestPairs(pairs []string, unknown string) []string {
	base := unknown
	if b, _, err := ParsePair(unknown); err == nil {
		base = b
	}

	var similar []string
	for _, p := range pairs {
		if strings.Contains(p, base) {
			similar = append(similar, p)
		}
	}
	return similar
}

// ContainsPair reports whether pair is part of the configured universe.
func ContainsPair(pairs []string, pair string) bool {
	for _, p := range pairs {
		if p == pair {
			return true
		}
	}
	return false
}
