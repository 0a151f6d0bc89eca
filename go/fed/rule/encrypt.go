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

package rule

import "fmt"

// EncryptConfiguration configures encrypted columns.
type EncryptConfiguration struct {
	Tables                []*EncryptTableConfiguration      `json:"tables"`
	Encryptors            map[string]AlgorithmConfiguration `json:"encryptors,omitempty"`
	QueryWithCipherColumn *bool                             `json:"queryWithCipherColumn,omitempty"`
}

// EncryptTableConfiguration configures the encrypted columns of a table.
type EncryptTableConfiguration struct {
	Name    string                        `json:"name"`
	Columns []*EncryptColumnConfiguration `json:"columns"`
}

// EncryptColumnConfiguration maps a logic column onto its cipher column.
type EncryptColumnConfiguration struct {
	LogicColumn   string `json:"logicColumn"`
	CipherColumn  string `json:"cipherColumn"`
	PlainColumn   string `json:"plainColumn,omitempty"`
	EncryptorName string `json:"encryptorName"`
}

// Kind implements Configuration.
func (*EncryptConfiguration) Kind() Kind { return KindEncrypt }

// EncryptRule is the built encrypt rule of a database.
type EncryptRule struct {
	config *EncryptConfiguration
	tables map[string]*EncryptTableConfiguration
}

// Kind implements DatabaseRule.
func (*EncryptRule) Kind() Kind { return KindEncrypt }

// Configuration implements DatabaseRule.
func (r *EncryptRule) Configuration() Configuration { return r.config }

// Tables implements DatabaseRule.
func (r *EncryptRule) Tables() []string { return sortedKeys(r.tables) }

// QueryWithCipherColumn reports whether queries read cipher columns. It
// defaults to true.
func (r *EncryptRule) QueryWithCipherColumn() bool {
	return r.config.QueryWithCipherColumn == nil || *r.config.QueryWithCipherColumn
}

// CipherColumn returns the cipher column of table.column.
func (r *EncryptRule) CipherColumn(table, column string) (string, bool) {
	t, ok := r.tables[table]
	if !ok {
		return "", false
	}
	for _, c := range t.Columns {
		if c.LogicColumn == column {
			return c.CipherColumn, true
		}
	}
	return "", false
}

type encryptBuilder struct{}

func (encryptBuilder) Kind() Kind { return KindEncrypt }
func (encryptBuilder) Order() int { return 10 }

func (encryptBuilder) Build(database string, config Configuration, _ []DatabaseRule) (DatabaseRule, error) {
	cfg := config.(*EncryptConfiguration)
	r := &EncryptRule{config: cfg, tables: make(map[string]*EncryptTableConfiguration, len(cfg.Tables))}
	for _, t := range cfg.Tables {
		for _, c := range t.Columns {
			if c.CipherColumn == "" {
				return nil, fmt.Errorf("cipher column of %s.%s is required in database %s", t.Name, c.LogicColumn, database)
			}
			if _, ok := cfg.Encryptors[c.EncryptorName]; !ok {
				return nil, fmt.Errorf("encryptor %q of %s.%s does not exist in database %s", c.EncryptorName, t.Name, c.LogicColumn, database)
			}
		}
		r.tables[t.Name] = t
	}
	return r, nil
}
