package main

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/benjaminschreck/go-layout/pkg/layout"
)

// recordFile is the YAML form of a small bibliography:
//
//	path: refs.bib
//	strings:
//	  jfoo: Journal of Foo
//	entries:
//	  - type: article
//	    key: smith2020
//	    fields:
//	      author: Smith, John
//	      journal: "#jfoo#"
type recordFile struct {
	Path    string            `yaml:"path"`
	Strings map[string]string `yaml:"strings"`
	Entries []struct {
		Type   string            `yaml:"type"`
		Key    string            `yaml:"key"`
		Fields map[string]string `yaml:"fields"`
	} `yaml:"entries"`
}

// loadRecords reads a record file. The database path defaults to the file
// itself.
func loadRecords(path string) (*layout.DatabaseContext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, layout.NewFileError("read records", path, err)
	}

	var rf recordFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, layout.WithContext(err, "decode records", map[string]interface{}{"path": path})
	}

	db := layout.NewDatabase()
	for name, value := range rf.Strings {
		db.AddString(name, value)
	}
	for _, e := range rf.Entries {
		entry := layout.NewEntry(e.Type).SetCitationKey(e.Key)
		for name, value := range e.Fields {
			entry.SetField(name, value)
		}
		db.AddEntry(entry)
	}

	ctx := &layout.DatabaseContext{Database: db, Path: rf.Path}
	if ctx.Path == "" {
		ctx.Path = path
	}
	return ctx, nil
}
