package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEntry_ResolveFieldOrAlias(t *testing.T) {
	entry := NewEntry("inproceedings").
		SetCitationKey("doe2019").
		SetField("Author", "Doe, Jane").
		SetField("journaltitle", "#acm# Transactions").
		SetField("location", "Berlin").
		SetField("date", "2019-08-11")
	db := NewDatabase().AddString("ACM", "ACM")

	tests := []struct {
		field  string
		want   string
		wantOK bool
	}{
		{"author", "Doe, Jane", true},
		{"AUTHOR", "Doe, Jane", true},
		{"journal", "ACM Transactions", true},
		{"address", "Berlin", true},
		{"year", "2019", true},
		{"month", "8", true},
		{"date", "2019-08-11", true},
		{"entrytype", "InProceedings", true},
		{"citationkey", "doe2019", true},
		{"bibtexkey", "doe2019", true},
		{"editor", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, ok := entry.ResolveFieldOrAlias(tt.field, db)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ResolveFieldOrAlias(%q) = (%q, %v), want (%q, %v)", tt.field, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestEntry_DateFromYear(t *testing.T) {
	entry := NewEntry("article").SetField("year", "2021").SetField("month", "3")
	if got, _ := entry.ResolveFieldOrAlias("date", nil); got != "2021-03" {
		t.Errorf("date = %q, want 2021-03", got)
	}

	entry.SetField("month", "mar")
	if got, _ := entry.ResolveFieldOrAlias("date", nil); got != "2021" {
		t.Errorf("date = %q, want 2021", got)
	}
}

func TestEntry_SetFieldEmptyClears(t *testing.T) {
	entry := NewEntry("misc").SetField("note", "x")
	entry.SetField("note", "")
	if _, ok := entry.Field("note"); ok {
		t.Error("empty value should clear the field")
	}
	if diff := cmp.Diff([]string{}, entry.FieldNames()); diff != "" {
		t.Errorf("FieldNames() mismatch (-want +got):\n%s", diff)
	}
}

func TestEntry_NilCollection(t *testing.T) {
	entry := NewEntry("misc").SetField("publisher", "#pub#")
	got, ok := entry.ResolveFieldOrAlias("publisher", nil)
	if !ok || got != "#pub#" {
		t.Errorf("got (%q, %v), want raw value", got, ok)
	}
}

func TestDatabase_ResolveText(t *testing.T) {
	db := NewDatabase().
		AddString("jan", "January").
		AddString("ieee", "Institute of #ee#").
		AddString("ee", "Electrical Engineers").
		AddString("loop", "#loop#")

	tests := []struct {
		text string
		want string
	}{
		{"plain", "plain"},
		{"#jan#", "January"},
		{"#JAN# 2020", "January 2020"},
		{"#ieee#", "Institute of Electrical Engineers"},
		{"#unknown# and #jan#", "#unknown# and January"},
		{"C# and #jan#", "C# and January"},
		{"a # b", "a # b"},
		{"#loop#", "#loop#"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := db.ResolveText(tt.text); got != tt.want {
				t.Errorf("ResolveText(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}

	var nilDB *Database
	if got := nilDB.ResolveText("#jan#"); got != "#jan#" {
		t.Errorf("nil database should return text, got %q", got)
	}
}

func TestDatabase_Records(t *testing.T) {
	a, b := NewEntry("article"), NewEntry("book")
	db := NewDatabase().AddEntry(a, b)

	records := db.Records()
	if len(records) != 2 || records[0] != Record(a) || records[1] != Record(b) {
		t.Errorf("Records() = %v", records)
	}
}

func TestDatabaseContext(t *testing.T) {
	ctx := &DatabaseContext{}
	if ctx.Collection() != nil {
		t.Error("Collection() without database should be nil")
	}
	if _, ok := ctx.DatabasePath(); ok {
		t.Error("DatabasePath() without path should report false")
	}

	ctx = &DatabaseContext{Database: NewDatabase(), Path: "refs.bib"}
	if ctx.Collection() == nil {
		t.Error("Collection() should return the database")
	}
	if path, ok := ctx.DatabasePath(); !ok || path != "refs.bib" {
		t.Errorf("DatabasePath() = (%q, %v)", path, ok)
	}
}
