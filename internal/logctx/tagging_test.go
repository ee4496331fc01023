package logctx

import (
	"context"
	"reflect"
	"testing"
)

func TestTagging(t *testing.T) {
	base := context.Background()

	if got := GetTagList(base); len(got) != 0 {
		t.Fatalf("expected empty tag list, got %v", got)
	}

	parent := AppendCtxTag(base, "Relay")
	child := AppendCtxTag(parent, "Listener")

	if got := GetTagList(child); !reflect.DeepEqual(got, []string{"Relay", "Listener"}) {
		t.Fatalf("unexpected child tags %v", got)
	}
	if got := GetTagList(parent); !reflect.DeepEqual(got, []string{"Relay"}) {
		t.Fatalf("parent tags mutated: %v", got)
	}

	popped := RemoveLastCtxTag(child)
	if got := GetTagList(popped); !reflect.DeepEqual(got, []string{"Relay"}) {
		t.Fatalf("unexpected tags after pop %v", got)
	}

	list := []string{"A", "B"}
	over := OverwriteCtxTag(base, list)
	list[0] = "changed"
	if got := GetTagList(over); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("overwrite did not copy list: %v", got)
	}
}
