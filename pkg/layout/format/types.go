package format

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// entryTypes maps lower-case BibTeX/biblatex types to their display name.
var entryTypes = map[string]string{
	"article":       "Article",
	"book":          "Book",
	"booklet":       "Booklet",
	"conference":    "Conference",
	"inbook":        "InBook",
	"incollection":  "InCollection",
	"inproceedings": "InProceedings",
	"manual":        "Manual",
	"mastersthesis": "MastersThesis",
	"misc":          "Misc",
	"online":        "Online",
	"patent":        "Patent",
	"periodical":    "Periodical",
	"phdthesis":     "PhdThesis",
	"proceedings":   "Proceedings",
	"report":        "Report",
	"software":      "Software",
	"techreport":    "TechReport",
	"thesis":        "Thesis",
	"unpublished":   "Unpublished",
	"electronic":    "Electronic",
	"dataset":       "Dataset",
}

// OpenOffice bibliography type numbers
var openOfficeTypes = map[string]string{
	"article":       "7",
	"book":          "1",
	"booklet":       "2",
	"inbook":        "5",
	"incollection":  "5",
	"inproceedings": "6",
	"conference":    "6",
	"manual":        "8",
	"mastersthesis": "9",
	"misc":          "10",
	"phdthesis":     "11",
	"proceedings":   "12",
	"techreport":    "13",
	"report":        "13",
	"unpublished":   "14",
	"online":        "16",
	"electronic":    "16",
}

var cslTypes = map[string]string{
	"article":       "article-journal",
	"book":          "book",
	"booklet":       "pamphlet",
	"inbook":        "chapter",
	"incollection":  "chapter",
	"inproceedings": "paper-conference",
	"conference":    "paper-conference",
	"manual":        "book",
	"mastersthesis": "thesis",
	"phdthesis":     "thesis",
	"thesis":        "thesis",
	"proceedings":   "book",
	"techreport":    "report",
	"report":        "report",
	"online":        "webpage",
	"electronic":    "webpage",
	"patent":        "patent",
	"software":      "software",
	"dataset":       "dataset",
	"unpublished":   "manuscript",
}

var hayagrivaTypes = map[string]string{
	"article":       "article",
	"book":          "book",
	"inbook":        "chapter",
	"incollection":  "anthology",
	"inproceedings": "article",
	"conference":    "article",
	"proceedings":   "proceedings",
	"mastersthesis": "thesis",
	"phdthesis":     "thesis",
	"thesis":        "thesis",
	"techreport":    "report",
	"report":        "report",
	"online":        "web",
	"electronic":    "web",
	"patent":        "patent",
	"manual":        "reference",
	"periodical":    "periodical",
	"unpublished":   "manuscript",
	"misc":          "misc",
}

func registerTypeFormatters(table map[string]Constructor) {
	table["EntryTypeFormatter"] = simple(EntryTypeDisplayName)
	table["GetOpenOfficeType"] = simple(lookup(openOfficeTypes, "10"))
	table["CSLType"] = simple(lookup(cslTypes, "article"))
	table["HayagrivaType"] = simple(lookup(hayagrivaTypes, "misc"))
	table["RisKeywords"] = simple(risKeywords)
}

// EntryTypeDisplayName returns the canonical capitalisation of a known
// entry type, or the type with its first letter upper-cased.
func EntryTypeDisplayName(t string) string {
	t = strings.TrimSpace(t)
	if name, ok := entryTypes[strings.ToLower(t)]; ok {
		return name
	}
	if t == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(t)
	return string(unicode.ToUpper(r)) + t[size:]
}

func lookup(table map[string]string, fallback string) func(string) string {
	return func(s string) string {
		if v, ok := table[strings.ToLower(strings.TrimSpace(s))]; ok {
			return v
		}
		return fallback
	}
}

func risKeywords(s string) string {
	var lines []string
	for _, kw := range strings.Split(s, ",") {
		if kw = strings.TrimSpace(kw); kw != "" {
			lines = append(lines, "KW  - "+kw)
		}
	}
	return strings.Join(lines, "\n")
}
