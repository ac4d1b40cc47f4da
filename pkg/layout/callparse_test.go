package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseFormatterCalls(t *testing.T) {
	tests := []struct {
		input string
		want  []FormatterSpec
	}{
		{"bla", []FormatterSpec{{Name: "bla"}}},
		{"bla,", []FormatterSpec{{Name: "bla"}}},
		{"_bla.bla.blub,", []FormatterSpec{{Name: "_bla.bla.blub"}}},
		{"bla,foo", []FormatterSpec{{Name: "bla"}, {Name: "foo"}}},
		{
			`bla("test"),foo("fark")`,
			[]FormatterSpec{
				{Name: "bla", Argument: "test", HasArgument: true},
				{Name: "foo", Argument: "fark", HasArgument: true},
			},
		},
		{
			`bla(test),foo(fark)`,
			[]FormatterSpec{
				{Name: "bla", Argument: "test", HasArgument: true},
				{Name: "foo", Argument: "fark", HasArgument: true},
			},
		},
		{
			`Replace("\s+,_")`,
			[]FormatterSpec{{Name: "Replace", Argument: `\s+,_`, HasArgument: true}},
		},
		{
			`Foo(a(b)c),Bar`,
			[]FormatterSpec{{Name: "Foo", Argument: "a(b)c", HasArgument: true}, {Name: "Bar"}},
		},
		{
			`Foo("f(")"),Bar`,
			[]FormatterSpec{{Name: "Foo", Argument: `f(")`, HasArgument: true}, {Name: "Bar"}},
		},
		{
			`Replace("(\d+)\),$1"),ToUpperCase`,
			[]FormatterSpec{{Name: "Replace", Argument: `(\d+)\),$1`, HasArgument: true}, {Name: "ToUpperCase"}},
		},
		{`Foo("x(y"),Bar`, []FormatterSpec{{Name: "Foo"}}},
		{
			`Foo("say \"hi\")")`,
			[]FormatterSpec{{Name: "Foo", Argument: `say \"hi\")`, HasArgument: true}},
		},
		{`Foo("")`, []FormatterSpec{{Name: "Foo", Argument: "", HasArgument: true}}},
		{`Foo()`, []FormatterSpec{{Name: "Foo", Argument: "", HasArgument: true}}},
		{`A,B(x`, []FormatterSpec{{Name: "A"}, {Name: "B"}}},
		{`A("x),B`, []FormatterSpec{{Name: "A"}}},
		{" Default(n.d.) ; ToLowerCase", []FormatterSpec{
			{Name: "Default", Argument: "n.d.", HasArgument: true},
			{Name: "ToLowerCase"},
		}},
		{"", nil},
		{",,", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseFormatterCalls(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseFormatterCalls(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestFormatterSpec_String(t *testing.T) {
	if got := (FormatterSpec{Name: "Default", Argument: "x", HasArgument: true}).String(); got != "Default(x)" {
		t.Errorf("String() = %q", got)
	}
	if got := (FormatterSpec{Name: "ToLowerCase"}).String(); got != "ToLowerCase" {
		t.Errorf("String() = %q", got)
	}
}
