package translate

import "oscrelay/pkg/osc"

// Rewrite rule for one direction of the relay
type Rule struct {
	From       string            // Source peer name
	To         string            // Destination peer name
	FromPrefix string            // Namespace prefix used by the source peer
	ToPrefix   string            // Namespace prefix used by the destination peer
	Keywords   map[string]string // First argument vocabulary, source word -> destination word
}

// Same word for the same action, as spoken by each peer
type KeywordPair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// Translation function a listener is bound to
type Func func(osc.Message) osc.Message
