// Address namespace and keyword rewriting between the two relay peers
package translate

import (
	"fmt"
	"oscrelay/pkg/osc"
	"strings"
)

// Creates the peer A -> peer B rule. Use Reverse for the opposite direction.
func New(nameA, prefixA, nameB, prefixB string, pairs []KeywordPair) (rule Rule, err error) {
	keywords, err := keywordMap(pairs)
	if err != nil {
		return
	}

	rule = Rule{
		From:       nameA,
		To:         nameB,
		FromPrefix: prefixA,
		ToPrefix:   prefixB,
		Keywords:   keywords,
	}
	return
}

// Rule for the opposite direction (prefixes swapped, keyword map inverted)
func (rule Rule) Reverse() (reverse Rule) {
	reverse = Rule{
		From:       rule.To,
		To:         rule.From,
		FromPrefix: rule.ToPrefix,
		ToPrefix:   rule.FromPrefix,
		Keywords:   make(map[string]string, len(rule.Keywords)),
	}
	for source, destination := range rule.Keywords {
		reverse.Keywords[destination] = source
	}
	return
}

// Produces the outbound message for the destination peer. Never fails and never
// modifies the received message.
func (rule Rule) Apply(received osc.Message) (outbound osc.Message) {
	outbound = received.Clone()
	outbound.Address = RewriteAddress(received.Address, rule.FromPrefix, rule.ToPrefix)

	if len(outbound.Arguments) == 0 {
		return
	}
	first, isString := outbound.Arguments[0].(string)
	if !isString {
		return
	}
	if replacement, found := rule.Keywords[first]; found {
		outbound.Arguments[0] = replacement
	}
	return
}

// Replaces a leading fromPrefix with toPrefix. Addresses without the prefix are returned unchanged.
func RewriteAddress(address, fromPrefix, toPrefix string) (rewritten string) {
	rewritten = address
	if fromPrefix == "" {
		return
	}
	if rest, found := strings.CutPrefix(address, fromPrefix); found {
		rewritten = toPrefix + rest
	}
	return
}

// Builds the A->B keyword map, rejecting pairs that would make the reverse map ambiguous
func keywordMap(pairs []KeywordPair) (aToB map[string]string, err error) {
	aToB = make(map[string]string, len(pairs))
	seenB := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		if pair.A == "" || pair.B == "" {
			err = fmt.Errorf("keyword pair %q <-> %q has an empty side", pair.A, pair.B)
			return
		}
		if existing, dup := aToB[pair.A]; dup {
			err = fmt.Errorf("keyword %q mapped twice (to %q and %q)", pair.A, existing, pair.B)
			return
		}
		if existing, dup := seenB[pair.B]; dup {
			err = fmt.Errorf("keyword %q mapped twice (from %q and %q)", pair.B, existing, pair.A)
			return
		}
		aToB[pair.A] = pair.B
		seenB[pair.B] = pair.A
	}
	return
}
