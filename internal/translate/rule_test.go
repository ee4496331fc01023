package translate

import (
	"oscrelay/pkg/osc"
	"reflect"
	"strings"
	"testing"
)

var defaultPairs = []KeywordPair{{A: "Swop", B: "Swap"}}

func newTestRules(t *testing.T) (aToB, bToA Rule) {
	t.Helper()
	aToB, err := New("SC", "/13.13.", "MA", "/14.14.", defaultPairs)
	if err != nil {
		t.Fatalf("expected no error creating rule, got %v", err)
	}
	bToA = aToB.Reverse()
	return
}

func TestRewriteAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		from    string
		to      string
		want    string
	}{
		{"PrefixReplaced", "/13.13.5/Go", "/13.13.", "/14.14.", "/14.14.5/Go"},
		{"OnlyFirstOccurrence", "/13.13.1/13.13.2", "/13.13.", "/14.14.", "/14.14.1/13.13.2"},
		{"PrefixNotAtStart", "/x/13.13.5", "/13.13.", "/14.14.", "/x/13.13.5"},
		{"NoPrefix", "/other/Go", "/13.13.", "/14.14.", "/other/Go"},
		{"EmptyAddress", "", "/13.13.", "/14.14.", ""},
		{"ExactlyPrefix", "/13.13.", "/13.13.", "/14.14.", "/14.14."},
		{"EmptyFromPrefix", "/13.13.5", "", "/14.14.", "/13.13.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RewriteAddress(tt.address, tt.from, tt.to); got != tt.want {
				t.Fatalf("RewriteAddress(%q) = %q, want %q", tt.address, got, tt.want)
			}
		})
	}
}

func TestApply_PrefixRewriteKeepsRemainder(t *testing.T) {
	aToB, _ := newTestRules(t)

	for _, rest := range []string{"", "5/Go", "1.2/Fader", "9999/Key/Press", "5/Go/"} {
		in := osc.NewMessage(aToB.FromPrefix + rest)
		out := aToB.Apply(in)

		if !strings.HasPrefix(out.Address, aToB.ToPrefix) {
			t.Fatalf("address %q does not start with destination prefix", out.Address)
		}
		if strings.TrimPrefix(out.Address, aToB.ToPrefix) != rest {
			t.Fatalf("remainder changed: in %q out %q", in.Address, out.Address)
		}
	}
}

func TestApply_RoundTrip(t *testing.T) {
	aToB, bToA := newTestRules(t)

	inputs := []osc.Message{
		osc.NewMessage("/13.13.5/Go", "Swop", "1"),
		osc.NewMessage("/13.13.1/Flash", "Swap", int32(1)),
		osc.NewMessage("/unprefixed", "Other"),
		osc.NewMessage("/13.13.8"),
	}

	for _, in := range inputs {
		back := bToA.Apply(aToB.Apply(in))
		if back.Address != in.Address {
			t.Errorf("round trip address %q -> %q", in.Address, back.Address)
		}
	}

	// Keyword round trip for peer A vocabulary
	back := bToA.Apply(aToB.Apply(inputs[0]))
	if !reflect.DeepEqual(back.Arguments, inputs[0].Arguments) {
		t.Errorf("round trip arguments %v -> %v", inputs[0].Arguments, back.Arguments)
	}
}

func TestApply_KeywordSubstitution(t *testing.T) {
	aToB, bToA := newTestRules(t)

	tests := []struct {
		name string
		rule Rule
		args []any
		want []any
	}{
		{"AtoBSwop", aToB, []any{"Swop", "1"}, []any{"Swap", "1"}},
		{"BtoASwap", bToA, []any{"Swap", "1"}, []any{"Swop", "1"}},
		{"AtoBAlreadyB", aToB, []any{"Swap", "1"}, []any{"Swap", "1"}},
		{"BtoAAlreadyA", bToA, []any{"Swop", "1"}, []any{"Swop", "1"}},
		{"OtherKeyword", aToB, []any{"Flash", "1"}, []any{"Flash", "1"}},
		{"OnlyFirstPosition", aToB, []any{"Go", "Swop"}, []any{"Go", "Swop"}},
		{"NonStringFirst", aToB, []any{int32(1), "Swop"}, []any{int32(1), "Swop"}},
		{"Empty", aToB, []any{}, []any{}},
		{"Nil", aToB, nil, []any{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := osc.Message{Address: "/13.13.5/Go", Arguments: tt.args}
			out := tt.rule.Apply(in)

			if len(out.Arguments) != len(tt.want) {
				t.Fatalf("expected %d arguments, got %d", len(tt.want), len(out.Arguments))
			}
			for i := range tt.want {
				if !reflect.DeepEqual(out.Arguments[i], tt.want[i]) {
					t.Fatalf("argument %d: want %#v got %#v", i, tt.want[i], out.Arguments[i])
				}
			}
		})
	}
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	aToB, _ := newTestRules(t)

	in := osc.NewMessage("/13.13.5/Go", "Swop", "1")
	aToB.Apply(in)

	if in.Address != "/13.13.5/Go" || in.Arguments[0] != "Swop" {
		t.Fatalf("received message was modified: %+v", in)
	}
}

func TestApply_NoCrossDirectionRules(t *testing.T) {
	aToB, bToA := newTestRules(t)

	// A B-origin message must not be rewritten by the A->B rule
	fromB := osc.NewMessage("/14.14.5/Go", "Swap", "1")
	out := aToB.Apply(fromB)
	if out.Address != "/14.14.5/Go" || out.Arguments[0] != "Swap" {
		t.Fatalf("A->B rule applied B-direction rewrite: %v", out)
	}

	fromA := osc.NewMessage("/13.13.5/Go", "Swop", "1")
	out = bToA.Apply(fromA)
	if out.Address != "/13.13.5/Go" || out.Arguments[0] != "Swop" {
		t.Fatalf("B->A rule applied A-direction rewrite: %v", out)
	}
}

func TestExampleEndToEnd(t *testing.T) {
	aToB, _ := newTestRules(t)

	out := aToB.Apply(osc.NewMessage("/13.13.5/Go", "Swop", "1"))
	if out.Address != "/14.14.5/Go" {
		t.Fatalf("unexpected address %q", out.Address)
	}
	if !reflect.DeepEqual(out.Arguments, []any{"Swap", "1"}) {
		t.Fatalf("unexpected arguments %v", out.Arguments)
	}
}

func TestNew_KeywordValidation(t *testing.T) {
	tests := []struct {
		name    string
		pairs   []KeywordPair
		wantErr bool
	}{
		{"Default", defaultPairs, false},
		{"None", nil, false},
		{"Multiple", []KeywordPair{{"Swop", "Swap"}, {"Fader", "Master"}}, false},
		{"EmptySide", []KeywordPair{{"", "Swap"}}, true},
		{"DuplicateA", []KeywordPair{{"Swop", "Swap"}, {"Swop", "Other"}}, true},
		{"DuplicateB", []KeywordPair{{"Swop", "Swap"}, {"Other", "Swap"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("A", "/a.", "B", "/b.", tt.pairs)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}
