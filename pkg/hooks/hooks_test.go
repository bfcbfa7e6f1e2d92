package hooks

import (
	"reflect"
	"testing"
)

func TestFilterApplyEmpty(t *testing.T) {
	var f Filter[[]string]

	seed := []string{"a", "b"}
	got := f.Apply(seed)
	if !reflect.DeepEqual(got, seed) {
		t.Errorf("Apply() = %v, want seed %v", got, seed)
	}
}

func TestFilterOrdering(t *testing.T) {
	appender := func(s string) func([]string) []string {
		return func(v []string) []string { return append(v, s) }
	}

	tests := []struct {
		name string
		add  func(f *Filter[[]string])
		want []string
	}{
		{
			name: "ascending priority",
			add: func(f *Filter[[]string]) {
				f.Add("late", 20, appender("late"))
				f.Add("early", 1, appender("early"))
				f.Add("mid", DefaultPriority, appender("mid"))
			},
			want: []string{"early", "mid", "late"},
		},
		{
			name: "equal priority keeps registration order",
			add: func(f *Filter[[]string]) {
				f.Add("first", DefaultPriority, appender("first"))
				f.Add("second", DefaultPriority, appender("second"))
				f.Add("third", DefaultPriority, appender("third"))
			},
			want: []string{"first", "second", "third"},
		},
		{
			name: "negative priority runs before default",
			add: func(f *Filter[[]string]) {
				f.Add("plugin", DefaultPriority, appender("plugin"))
				f.Add("builtin", -10, appender("builtin"))
			},
			want: []string{"builtin", "plugin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f Filter[[]string]
			tt.add(&f)

			got := f.Apply(nil)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterAddIdempotent(t *testing.T) {
	var f Filter[int]

	f.Add("inc", DefaultPriority, func(v int) int { return v + 1 })
	f.Add("inc", DefaultPriority, func(v int) int { return v + 100 })

	if got := f.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
	if got := f.Apply(0); got != 1 {
		t.Errorf("Apply(0) = %d, want 1", got)
	}
}

func TestFilterHas(t *testing.T) {
	var f Filter[int]

	if f.Has("inc") {
		t.Error("Has() = true before registration")
	}
	f.Add("inc", DefaultPriority, func(v int) int { return v + 1 })
	if !f.Has("inc") {
		t.Error("Has() = false after registration")
	}
}

func TestFilterApplyDoesNotMutateOrder(t *testing.T) {
	var f Filter[[]string]
	f.Add("b", 2, func(v []string) []string { return append(v, "b") })
	f.Add("a", 1, func(v []string) []string { return append(v, "a") })

	want := []string{"a", "b"}
	for i := 0; i < 3; i++ {
		got := f.Apply(nil)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Apply() run %d = %v, want %v", i, got, want)
		}
	}
}
