package layout

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRegistry_ResolutionOrder(t *testing.T) {
	registry := NewRegistry(&Preferences{
		CustomNameFormatters: map[string]string{"ToUpperCase": "1@*@{ll}"},
		NameFormatters: map[string]string{
			"ToLowerCase": "1@*@{ff}",
			" LastOnly ":  "1@*@{ll}",
		},
	})

	tests := []struct {
		name  string
		spec  FormatterSpec
		value string
		want  string
	}{
		{"custom shadows built-in", FormatterSpec{Name: "ToUpperCase"}, "Smith, John", "Smith"},
		{"built-in shadows user", FormatterSpec{Name: "ToLowerCase"}, "Smith, John", "smith, john"},
		{"user formatter", FormatterSpec{Name: "LastOnly"}, "Smith, John", "Smith"},
		{"name is trimmed", FormatterSpec{Name: "  ToLowerCase "}, "ABC", "abc"},
		{"argument reaches built-in", FormatterSpec{Name: "Default", Argument: "none", HasArgument: true}, "", "none"},
		{"unknown passes through", FormatterSpec{Name: "Nope"}, "Smith", "Smith"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := registry.Resolve(tt.spec)
			if got := entry.Apply(tt.value); got != tt.want {
				t.Errorf("Apply(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestRegistry_Missing(t *testing.T) {
	logs := captureLogs(t, LogWarn)

	entry := NewRegistry(nil).Resolve(FormatterSpec{Name: "Nope", Argument: "x", HasArgument: true})
	if !entry.Missing() {
		t.Fatal("expected a missing entry")
	}
	if _, ok := entry.Formatter(); ok {
		t.Error("missing entry should have no formatter")
	}
	if entry.String() != "!Nope(x)" {
		t.Errorf("String() = %q", entry.String())
	}
	if !strings.Contains(logs.String(), "Unknown formatter formatter=Nope") {
		t.Errorf("expected warning, got:\n%s", logs.String())
	}
}

func TestRegistry_FreshInstances(t *testing.T) {
	registry := NewRegistry(nil)
	chain := registry.ResolveChain("Number,Number")
	if len(chain) != 2 {
		t.Fatalf("got %d entries", len(chain))
	}
	a, b := chain[0].Apply(""), chain[0].Apply("")
	c := chain[1].Apply("")
	if a != "1" || b != "2" || c != "1" {
		t.Errorf("counters = %s %s %s, want 1 2 1", a, b, c)
	}
}

func TestRegistry_ResolveChain(t *testing.T) {
	chain := NewRegistry(nil).ResolveChain(`AuthorLastFirst,Replace("\s+,_"),Unknown`)

	var got []string
	for _, e := range chain {
		got = append(got, e.String())
	}
	want := []string{"AuthorLastFirst", `Replace(\s+,_)`, "!Unknown"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ResolveChain() mismatch (-want +got):\n%s", diff)
	}
	if got := chain[1].Apply("a  b c"); got != "a_b_c" {
		t.Errorf("Replace = %q, want a_b_c", got)
	}
}

func TestRegistry_WithCustomNameFormatters(t *testing.T) {
	base := NewRegistry(&Preferences{NameFormatters: map[string]string{"Short": "1@*@{ll}"}})
	scoped := base.WithCustomNameFormatters(map[string]string{"Initials": "1@*@{f}"})

	if base.Resolve(FormatterSpec{Name: "Initials"}).Missing() == false {
		t.Error("base registry must not see scoped formatters")
	}
	if scoped.Resolve(FormatterSpec{Name: "Initials"}).Missing() {
		t.Error("scoped registry should resolve its custom formatter")
	}
	if scoped.Resolve(FormatterSpec{Name: "Short"}).Missing() {
		t.Error("scoped registry should keep user formatters")
	}
}

func TestRegistry_Names(t *testing.T) {
	names := NewRegistry(&Preferences{
		CustomNameFormatters: map[string]string{"Zeta": "x"},
		NameFormatters:       map[string]string{"Alpha": "x", "ToUpperCase": "x"},
	}).Names()

	if !sort.StringsAreSorted(names) {
		t.Error("Names() should be sorted")
	}
	count := 0
	for _, name := range names {
		if name == "ToUpperCase" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("ToUpperCase listed %d times", count)
	}
	for _, want := range []string{"Alpha", "Zeta", "AuthorLastFirst"} {
		if sort.SearchStrings(names, want) == len(names) || names[sort.SearchStrings(names, want)] != want {
			t.Errorf("Names() missing %s", want)
		}
	}
}

func TestParsePreferences(t *testing.T) {
	prefs, err := ParsePreferences([]byte(`
custom_name_formatters:
  Short: "1@*@{ll}"
name_formatters:
  Full: "*@*@{ff }{ll}"
file_directories: [/papers, /archive]
main_file_directory: /home/me
doi_base_url: https://dx.doi.org
journal_abbreviations:
  Journal of Foo: J. Foo
`))
	if err != nil {
		t.Fatal(err)
	}

	if prefs.CustomNameFormatters["Short"] != "1@*@{ll}" || prefs.NameFormatters["Full"] != "*@*@{ff }{ll}" {
		t.Errorf("name formatters not decoded: %+v", prefs)
	}

	deps := prefs.Dependencies()
	if diff := cmp.Diff([]string{"/papers", "/archive"}, deps.FileDirectories); diff != "" {
		t.Errorf("FileDirectories mismatch (-want +got):\n%s", diff)
	}
	if deps.MainFileDirectory != "/home/me" || deps.DOIBaseURL != "https://dx.doi.org" {
		t.Errorf("unexpected dependencies: %+v", deps)
	}
	if abbr, ok := deps.Journals.Abbreviation("journal of foo"); !ok || abbr != "J. Foo" {
		t.Errorf("Abbreviation() = (%q, %v)", abbr, ok)
	}

	registry := NewRegistry(prefs)
	if got := registry.ResolveChain("JournalAbbreviator")[0].Apply("Journal of Foo"); got != "J. Foo" {
		t.Errorf("JournalAbbreviator = %q, want J. Foo", got)
	}
}

func TestLoadPreferences(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadPreferences(filepath.Join(dir, "missing.yaml"))
	if !IsFileError(err) {
		t.Errorf("expected FileError, got %v", err)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("name_formatters: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err = LoadPreferences(bad)
	if err == nil || !strings.Contains(err.Error(), "load preferences") {
		t.Errorf("expected context error, got %v", err)
	}

	good := filepath.Join(dir, "prefs.yaml")
	if err := os.WriteFile(good, []byte("doi_base_url: https://example.org/"), 0o644); err != nil {
		t.Fatal(err)
	}
	prefs, err := LoadPreferences(good)
	if err != nil {
		t.Fatal(err)
	}
	if prefs.DOIBaseURL != "https://example.org/" {
		t.Errorf("DOIBaseURL = %q", prefs.DOIBaseURL)
	}
}

func TestPreferences_NilDependencies(t *testing.T) {
	var prefs *Preferences
	deps := prefs.Dependencies()
	if deps.Journals != nil || len(deps.FileDirectories) != 0 {
		t.Errorf("nil preferences should give empty dependencies: %+v", deps)
	}
}
