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

import (
	"fmt"
	"sort"
)

// ShardingConfiguration configures sharded tables.
type ShardingConfiguration struct {
	Tables                     []*ShardingTableConfiguration     `json:"tables"`
	ShardingAlgorithms         map[string]AlgorithmConfiguration `json:"shardingAlgorithms,omitempty"`
	KeyGenerators              map[string]AlgorithmConfiguration `json:"keyGenerators,omitempty"`
	Auditors                   map[string]AlgorithmConfiguration `json:"auditors,omitempty"`
	DefaultKeyGenerateStrategy *KeyGenerateStrategy              `json:"defaultKeyGenerateStrategy,omitempty"`
}

// ShardingTableConfiguration configures one sharded logical table.
type ShardingTableConfiguration struct {
	LogicTable          string               `json:"logicTable"`
	ActualDataNodes     string               `json:"actualDataNodes,omitempty"`
	DatabaseStrategy    *ShardingStrategy    `json:"databaseStrategy,omitempty"`
	TableStrategy       *ShardingStrategy    `json:"tableStrategy,omitempty"`
	KeyGenerateStrategy *KeyGenerateStrategy `json:"keyGenerateStrategy,omitempty"`
	AuditStrategy       *AuditStrategy       `json:"auditStrategy,omitempty"`
}

// ShardingStrategy shards on a column with a named algorithm.
type ShardingStrategy struct {
	ShardingColumn string `json:"shardingColumn"`
	AlgorithmName  string `json:"shardingAlgorithmName"`
}

// KeyGenerateStrategy generates a column with a named key generator.
type KeyGenerateStrategy struct {
	Column        string `json:"column"`
	GeneratorName string `json:"keyGeneratorName"`
}

// AuditStrategy names the auditors of a table.
type AuditStrategy struct {
	AuditorNames          []string `json:"auditorNames"`
	AllowHintDisableAudit bool     `json:"allowHintDisableAudit,omitempty"`
}

// Kind implements Configuration.
func (*ShardingConfiguration) Kind() Kind { return KindSharding }

// ShardingRule is the built sharding rule of a database.
type ShardingRule struct {
	config *ShardingConfiguration
	tables map[string]*ShardingTableConfiguration
}

// Kind implements DatabaseRule.
func (*ShardingRule) Kind() Kind { return KindSharding }

// Configuration implements DatabaseRule.
func (r *ShardingRule) Configuration() Configuration { return r.config }

// Tables implements DatabaseRule.
func (r *ShardingRule) Tables() []string {
	return sortedKeys(r.tables)
}

// ShardingColumns returns the columns table is sharded on.
func (r *ShardingRule) ShardingColumns(table string) []string {
	t, ok := r.tables[table]
	if !ok {
		return nil
	}
	var cols []string
	for _, s := range []*ShardingStrategy{t.DatabaseStrategy, t.TableStrategy} {
		if s != nil && s.ShardingColumn != "" {
			cols = append(cols, s.ShardingColumn)
		}
	}
	return cols
}

type shardingBuilder struct{}

func (shardingBuilder) Kind() Kind { return KindSharding }
func (shardingBuilder) Order() int { return 0 }

func (shardingBuilder) Build(database string, config Configuration, _ []DatabaseRule) (DatabaseRule, error) {
	cfg := config.(*ShardingConfiguration)
	if err := checkSharding(database, cfg); err != nil {
		return nil, err
	}
	r := &ShardingRule{config: cfg, tables: make(map[string]*ShardingTableConfiguration, len(cfg.Tables))}
	for _, t := range cfg.Tables {
		if _, ok := r.tables[t.LogicTable]; ok {
			return nil, fmt.Errorf("sharding table %s configured twice in database %s", t.LogicTable, database)
		}
		r.tables[t.LogicTable] = t
	}
	return r, nil
}

// checkSharding verifies that every algorithm, key generator and auditor
// a table refers to is declared.
func checkSharding(database string, cfg *ShardingConfiguration) error {
	keyGen := func(s *KeyGenerateStrategy) error {
		if s == nil {
			return nil
		}
		if _, ok := cfg.KeyGenerators[s.GeneratorName]; !ok {
			return fmt.Errorf("key generator %q does not exist in database %s", s.GeneratorName, database)
		}
		return nil
	}
	if err := keyGen(cfg.DefaultKeyGenerateStrategy); err != nil {
		return err
	}
	for _, t := range cfg.Tables {
		if t.LogicTable == "" {
			return fmt.Errorf("sharding table without logicTable in database %s", database)
		}
		for _, s := range []*ShardingStrategy{t.DatabaseStrategy, t.TableStrategy} {
			if s == nil {
				continue
			}
			if _, ok := cfg.ShardingAlgorithms[s.AlgorithmName]; !ok {
				return fmt.Errorf("sharding algorithm %q of table %s does not exist in database %s", s.AlgorithmName, t.LogicTable, database)
			}
		}
		if err := keyGen(t.KeyGenerateStrategy); err != nil {
			return err
		}
		if t.AuditStrategy != nil {
			for _, name := range t.AuditStrategy.AuditorNames {
				if _, ok := cfg.Auditors[name]; !ok {
					return fmt.Errorf("auditor %q of table %s does not exist in database %s", name, t.LogicTable, database)
				}
			}
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
