package token

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "simple words", input: "add 2 3", want: []string{"add", "2", "3"}},
		{name: "empty input", input: "", want: []string{""}},
		{name: "only spaces", input: "   ", want: []string{""}},
		{name: "surrounding spaces trimmed", input: "  add 2  ", want: []string{"add", "2"}},
		{name: "interior run keeps empties", input: "a  b", want: []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Split(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestStreamPeekNext(t *testing.T) {
	st := NewStream([]string{"a", "b", "c"})

	if got, ok := st.Peek(); !ok || got != "a" {
		t.Fatalf("Peek() = %q, %v, want %q, true", got, ok, "a")
	}
	if got := st.Next(); got != "a" {
		t.Fatalf("Next() = %q, want %q", got, "a")
	}
	if got, ok := st.PeekAt(2); !ok || got != "c" {
		t.Fatalf("PeekAt(2) = %q, %v, want %q, true", got, ok, "c")
	}
	if got, ok := st.PeekAt(0); !ok || got != "a" {
		t.Fatalf("PeekAt(0) = %q, %v, want %q, true", got, ok, "a")
	}

	st.Next()
	st.Next()
	if _, ok := st.Peek(); ok {
		t.Fatal("Peek() past the end reported a token")
	}
	if got := st.Remaining(); got != 0 {
		t.Fatalf("Remaining() = %d, want 0", got)
	}
}

func TestStreamNextExhaustedPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("Next on an exhausted stream did not panic")
		}
	}()
	NewStream(nil).Next()
}

func TestStreamDrop(t *testing.T) {
	st := NewStream([]string{"greet", "bob", "loudly"})
	st.Next()

	st.Drop(1)
	if got := st.Len(); got != 2 {
		t.Fatalf("Len() after Drop(1) = %d, want 2", got)
	}
	if got, ok := st.Peek(); !ok || got != "bob" {
		t.Fatalf("Peek() after Drop(1) = %q, %v, want %q, true", got, ok, "bob")
	}
	if got := st.Pos(); got != 0 {
		t.Fatalf("Pos() after Drop(1) = %d, want 0 (cursor rebased)", got)
	}
}

func TestStreamCopyIsIndependent(t *testing.T) {
	st := NewStream([]string{"x", "y"})
	cp := st.Copy()
	cp.Next()
	cp.Next()

	if got := st.Remaining(); got != 2 {
		t.Fatalf("consuming a copy moved the original: Remaining() = %d, want 2", got)
	}
}

func TestStreamConsumed(t *testing.T) {
	st := NewStream([]string{"'big", "bad'", "wolf"})
	start := st.Pos()
	st.Next()
	st.Next()

	if got := st.Consumed(start); got != "'big bad'" {
		t.Fatalf("Consumed(%d) = %q, want %q", start, got, "'big bad'")
	}
}

func TestStreamLast(t *testing.T) {
	if _, ok := NewStream(nil).Last(); ok {
		t.Fatal("Last() on an empty stream reported a token")
	}
	st := NewStream([]string{"add", "2", "3"})
	if got, ok := st.Last(); !ok || got != "3" {
		t.Fatalf("Last() = %q, %v, want %q, true", got, ok, "3")
	}
}
