package format

import (
	"path/filepath"
	"strconv"
	"strings"
)

// LinkedFile is one entry of a file field, "description:path:type".
type LinkedFile struct {
	Description string
	Link        string
	FileType    string
}

// ParseFileField splits a file field into its linked files. ':' and ';'
// may be escaped with a backslash. A single element is taken as the link.
func ParseFileField(value string) []LinkedFile {
	var files []LinkedFile
	for _, entry := range splitUnescaped(value, ';') {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		parts := splitUnescaped(entry, ':')
		// rejoin a Windows drive letter ("C:\...") split off from the link
		if len(parts) > 3 && len(parts[1]) == 1 {
			parts = append([]string{parts[0], parts[1] + ":" + parts[2]}, parts[3:]...)
		}
		var f LinkedFile
		switch len(parts) {
		case 1:
			f.Link = parts[0]
		case 2:
			f.Description, f.Link = parts[0], parts[1]
		default:
			f.Description, f.Link, f.FileType = parts[0], parts[1], parts[2]
		}
		files = append(files, f)
	}
	return files
}

func splitUnescaped(s string, sep byte) []string {
	var parts []string
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\\' && i+1 < len(s) && s[i+1] == sep:
			b.WriteByte(s[i+1])
			i++
		case s[i] == sep:
			parts = append(parts, b.String())
			b.Reset()
		default:
			b.WriteByte(s[i])
		}
	}
	return append(parts, b.String())
}

// resolveLink joins a relative link with the first configured directory.
// No file system access takes place.
func (d Dependencies) resolveLink(link string) string {
	if link == "" || filepath.IsAbs(link) || strings.Contains(link, "://") {
		return link
	}
	for _, dir := range d.FileDirectories {
		if dir != "" {
			return filepath.Join(dir, link)
		}
	}
	if d.MainFileDirectory != "" {
		return filepath.Join(d.MainFileDirectory, link)
	}
	return link
}

func registerFileFormatters(table map[string]Constructor) {
	table["FileLink"] = func(deps Dependencies) Formatter { return &FileLink{deps: deps} }
	table["WrapFileLinks"] = func(deps Dependencies) Formatter { return &WrapFileLinks{deps: deps} }
}

// FileLink renders the resolved path of the first linked file, or of the
// first file of the type named by its argument.
type FileLink struct {
	deps     Dependencies
	fileType string
}

func (f *FileLink) SetArgument(arg string) { f.fileType = strings.TrimSpace(arg) }

func (f *FileLink) Format(value string) string {
	for _, file := range ParseFileField(value) {
		if f.fileType == "" || strings.EqualFold(file.FileType, f.fileType) {
			return f.deps.resolveLink(file.Link)
		}
	}
	return ""
}

// WrapFileLinks expands its argument once per linked file and concatenates
// the results. In the pattern \i is the 1-based index, \p the resolved path,
// \f the file type, \d the description and \x the file extension.
type WrapFileLinks struct {
	deps    Dependencies
	pattern string
}

func (f *WrapFileLinks) SetArgument(arg string) { f.pattern = arg }

func (f *WrapFileLinks) Format(value string) string {
	var b strings.Builder
	for i, file := range ParseFileField(value) {
		b.WriteString(f.expand(i+1, file))
	}
	return b.String()
}

func (f *WrapFileLinks) expand(index int, file LinkedFile) string {
	var b strings.Builder
	p := f.pattern
	for i := 0; i < len(p); i++ {
		if p[i] != '\\' || i+1 >= len(p) {
			b.WriteByte(p[i])
			continue
		}
		i++
		switch p[i] {
		case 'i':
			b.WriteString(strconv.Itoa(index))
		case 'p':
			b.WriteString(f.deps.resolveLink(file.Link))
		case 'f':
			b.WriteString(file.FileType)
		case 'd':
			b.WriteString(file.Description)
		case 'x':
			b.WriteString(strings.TrimPrefix(filepath.Ext(file.Link), "."))
		default:
			b.WriteByte(p[i])
		}
	}
	return b.String()
}
