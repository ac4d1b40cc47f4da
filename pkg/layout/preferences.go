package layout

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/benjaminschreck/go-layout/pkg/layout/format"
)

// Preferences configure formatter resolution. They are usually loaded from
// a YAML file:
//
//	custom_name_formatters:
//	  ShortAuthors: "*@1@{ll}@*@, {ll}"
//	name_formatters:
//	  FullNames: "*@*@{ff }{ll}"
//	file_directories: [/papers]
//	doi_base_url: https://doi.org/
//	journal_abbreviations:
//	  Journal of Foo: J. Foo
type Preferences struct {
	// CustomNameFormatters are scoped to one layout set and take precedence
	// over the built-in formatters
	CustomNameFormatters map[string]string `yaml:"custom_name_formatters"`
	// NameFormatters are user-defined name formatters consulted after the
	// built-in formatters
	NameFormatters       map[string]string `yaml:"name_formatters"`
	FileDirectories      []string          `yaml:"file_directories"`
	MainFileDirectory    string            `yaml:"main_file_directory"`
	DOIBaseURL           string            `yaml:"doi_base_url"`
	JournalAbbreviations map[string]string `yaml:"journal_abbreviations"`
}

// LoadPreferences reads preferences from a YAML file.
func LoadPreferences(path string) (*Preferences, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewFileError("read preferences", path, err)
	}
	prefs, err := ParsePreferences(data)
	if err != nil {
		return nil, WithContext(err, "load preferences", map[string]interface{}{"path": path})
	}
	return prefs, nil
}

// ParsePreferences decodes preferences from YAML.
func ParsePreferences(data []byte) (*Preferences, error) {
	var prefs Preferences
	if err := yaml.Unmarshal(data, &prefs); err != nil {
		return nil, err
	}
	return &prefs, nil
}

// Dependencies returns the settings built-in formatters need.
func (p *Preferences) Dependencies() format.Dependencies {
	if p == nil {
		return format.Dependencies{}
	}
	deps := format.Dependencies{
		FileDirectories:   p.FileDirectories,
		MainFileDirectory: p.MainFileDirectory,
		DOIBaseURL:        p.DOIBaseURL,
	}
	if len(p.JournalAbbreviations) > 0 {
		deps.Journals = format.JournalList(p.JournalAbbreviations)
	}
	return deps
}
