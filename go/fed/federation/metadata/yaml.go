/*
Copyright 2026 The Fedgate Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package metadata

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"

	"fedgate.io/fedgate/go/fed/rule"
)

// Parse decodes a YAML snapshot and builds the rules of every database
// with builders. Unknown fields are rejected.
func Parse(data []byte, builders *rule.BuilderRegistry) (*FederationMetaData, error) {
	md := &FederationMetaData{}
	if err := yaml.UnmarshalStrict(data, md); err != nil {
		return nil, fmt.Errorf("decoding metadata: %w", err)
	}
	if md.Databases == nil {
		md.Databases = map[string]*LogicalDatabase{}
	}
	for name, db := range md.Databases {
		if db == nil {
			db = &LogicalDatabase{}
			md.Databases[name] = db
		}
		db.Name = name
		if err := normalizeDatabase(db); err != nil {
			return nil, err
		}
		rules, err := builders.Build(name, rule.Configurations(db.RuleConfigs))
		if err != nil {
			return nil, err
		}
		db.Rules = rules
	}
	return md, nil
}

// Load reads and parses the snapshot at path.
func Load(path string, builders *rule.BuilderRegistry) (*FederationMetaData, error) {
	return LoadFS(afero.NewOsFs(), path, builders)
}

// LoadFS reads and parses the snapshot at path of fs.
func LoadFS(fs afero.Fs, path string, builders *rule.BuilderRegistry) (*FederationMetaData, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	md, err := Parse(data, builders)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return md, nil
}

func normalizeDatabase(db *LogicalDatabase) error {
	if db.Schemas == nil {
		db.Schemas = map[string]*LogicalSchema{}
	}
	for name, s := range db.Schemas {
		if s == nil {
			s = &LogicalSchema{}
			db.Schemas[name] = s
		}
		s.Name = name
		if s.Tables == nil {
			s.Tables = map[string]*LogicalTable{}
		}
		for tname, t := range s.Tables {
			if t == nil || len(t.Columns) == 0 {
				return fmt.Errorf("table %s.%s.%s has no columns", db.Name, name, tname)
			}
			t.Name = tname
			seen := make(map[string]bool, len(t.Columns))
			for _, c := range t.Columns {
				if c.Name == "" {
					return fmt.Errorf("table %s.%s.%s has a column without name", db.Name, name, tname)
				}
				key := strings.ToLower(c.Name)
				if seen[key] {
					return fmt.Errorf("duplicate column %s in table %s.%s.%s", c.Name, db.Name, name, tname)
				}
				seen[key] = true
			}
			if rc := t.Statistics.RowCount; rc != nil && *rc < 0 {
				return fmt.Errorf("negative row count for table %s.%s.%s", db.Name, name, tname)
			}
		}
	}
	return nil
}
