package policy

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tables holds the rule table for each trust surface.
type Tables struct {
	API *Table
	Web *Table
}

// Defaults returns the built-in tables.
func Defaults() Tables {
	return Tables{API: APIRules(), Web: WebRules()}
}

type fileRule struct {
	Method  string   `yaml:"method"`
	Path    string   `yaml:"path"`
	Require string   `yaml:"require"`
	Roles   []string `yaml:"roles"`
}

type fileTables struct {
	API []fileRule `yaml:"api"`
	Web []fileRule `yaml:"web"`
}

// LoadFile reads rule tables from a YAML document of the form
//
//	api:
//	  - method: POST
//	    path: /api/auth/login
//	    require: public
//	  - method: DELETE
//	    path: /api/**
//	    require: role
//	    roles: [ADMIN]
//	web:
//	  - ...
//
// A surface missing from the file keeps its built-in table. An empty path
// returns the defaults.
func LoadFile(path string) (Tables, error) {
	tables := Defaults()
	if path == "" {
		return tables, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("policy: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes tables from YAML. See LoadFile for the format.
func Parse(data []byte) (Tables, error) {
	tables := Defaults()

	var doc fileTables
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return Tables{}, fmt.Errorf("policy: decode: %w", err)
	}

	if doc.API != nil {
		t, err := buildTable("api", doc.API)
		if err != nil {
			return Tables{}, err
		}
		tables.API = t
	}
	if doc.Web != nil {
		t, err := buildTable("web", doc.Web)
		if err != nil {
			return Tables{}, err
		}
		tables.Web = t
	}
	return tables, nil
}

func buildTable(name string, in []fileRule) (*Table, error) {
	rules := make([]Rule, 0, len(in))
	for _, fr := range in {
		rules = append(rules, Rule{
			Method:  fr.Method,
			Pattern: fr.Path,
			Requirement: Requirement{
				Access: Access(strings.ToLower(strings.TrimSpace(fr.Require))),
				Roles:  fr.Roles,
			},
		})
	}
	return NewTable(name, rules...)
}
