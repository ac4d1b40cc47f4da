package format

import (
	"strconv"
	"strings"
)

const biboAuthorRole = "http://purl.org/ontology/bibo/roles/author"

func registerAuthorMarkupFormatters(table map[string]Constructor) {
	table["CreateBibORDFAuthors"] = simple(biboAuthors)
	table["CreateDocBook4Authors"] = simple(func(s string) string { return docBookNames(s, "author", false) })
	table["CreateDocBook4Editors"] = simple(func(s string) string { return docBookNames(s, "editor", false) })
	table["CreateDocBook5Authors"] = simple(func(s string) string { return docBookNames(s, "author", true) })
	table["CreateDocBook5Editors"] = simple(func(s string) string { return docBookNames(s, "editor", true) })
	table["Iso690NamesAuthors"] = simple(iso690Names)
}

// biboAuthors renders one bibo:contribution per name, numbered from 1.
func biboAuthors(s string) string {
	var blocks []string
	for _, name := range splitTopLevel(s, " and ") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		var b strings.Builder
		b.WriteString("<bibo:contribution>\n")
		b.WriteString("  <bibo:Contribution>\n")
		b.WriteString(`    <bibo:role rdf:resource="` + biboAuthorRole + `"/>` + "\n")
		b.WriteString(`    <bibo:contributor><foaf:Person foaf:name="` + xmlEscape(LatexToUnicode(name)) + `"/></bibo:contributor>` + "\n")
		b.WriteString("    <bibo:position>" + strconv.Itoa(len(blocks)+1) + "</bibo:position>\n")
		b.WriteString("  </bibo:Contribution>\n")
		b.WriteString("</bibo:contribution>")
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n")
}

// docBookNames renders every name as a tag element. DocBook 5 wraps the name
// parts in personname.
func docBookNames(s, tag string, personName bool) string {
	list := ParseAuthors(s)
	parts := make([]string, 0, list.Len())
	for _, a := range list.Authors {
		var b strings.Builder
		b.WriteString("<" + tag + ">")
		if personName {
			b.WriteString("<personname>")
		}
		if a.First != "" {
			b.WriteString("<firstname>" + xmlEscape(LatexToUnicode(a.First)) + "</firstname>")
		}
		if a.Von != "" {
			b.WriteString("<othername>" + xmlEscape(LatexToUnicode(a.Von)) + "</othername>")
		}
		if a.Last != "" {
			last := a.Last
			if a.Jr != "" {
				last += " " + a.Jr
			}
			b.WriteString("<surname>" + xmlEscape(LatexToUnicode(last)) + "</surname>")
		}
		if personName {
			b.WriteString("</personname>")
		}
		b.WriteString("</" + tag + ">")
		parts = append(parts, b.String())
	}
	return strings.Join(parts, "\n")
}

// iso690Names renders "SURNAME, First" names joined with ", " and " y "
// before the last one.
func iso690Names(s string) string {
	list := ParseAuthors(s)
	names := make([]string, 0, list.Len())
	for _, a := range list.Authors {
		surname := a.Last
		if a.Von != "" {
			surname = a.Von + " " + surname
		}
		name := strings.ToUpper(surname)
		if a.First != "" {
			name += ", " + a.First
		}
		names = append(names, name)
	}
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " y " + names[len(names)-1]
}
