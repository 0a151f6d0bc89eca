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

// DiscoveryConfiguration configures primary discovery for groups of data
// sources.
type DiscoveryConfiguration struct {
	DataSources         []*DiscoveryDataSourceConfiguration `json:"dataSources"`
	DiscoveryHeartbeats map[string]map[string]string        `json:"discoveryHeartbeats,omitempty"`
	DiscoveryTypes      map[string]AlgorithmConfiguration   `json:"discoveryTypes,omitempty"`
}

// DiscoveryDataSourceConfiguration is one discovered group.
type DiscoveryDataSourceConfiguration struct {
	GroupName              string   `json:"groupName"`
	DataSourceNames        []string `json:"dataSourceNames"`
	DiscoveryHeartbeatName string   `json:"discoveryHeartbeatName"`
	DiscoveryTypeName      string   `json:"discoveryTypeName"`
}

// Kind implements Configuration.
func (*DiscoveryConfiguration) Kind() Kind { return KindDBDiscovery }

// DiscoveryRule is the built discovery rule of a database.
type DiscoveryRule struct {
	config *DiscoveryConfiguration
	groups map[string]*DiscoveryDataSourceConfiguration
}

// Kind implements DatabaseRule.
func (*DiscoveryRule) Kind() Kind { return KindDBDiscovery }

// Configuration implements DatabaseRule.
func (r *DiscoveryRule) Configuration() Configuration { return r.config }

// Tables implements DatabaseRule. Discovery applies to data sources, not
// tables.
func (r *DiscoveryRule) Tables() []string { return nil }

// Groups returns the discovered group names.
func (r *DiscoveryRule) Groups() []string { return sortedKeys(r.groups) }

type discoveryBuilder struct{}

func (discoveryBuilder) Kind() Kind { return KindDBDiscovery }
func (discoveryBuilder) Order() int { return 20 }

func (discoveryBuilder) Build(database string, config Configuration, _ []DatabaseRule) (DatabaseRule, error) {
	cfg := config.(*DiscoveryConfiguration)
	r := &DiscoveryRule{config: cfg, groups: make(map[string]*DiscoveryDataSourceConfiguration, len(cfg.DataSources))}
	for _, ds := range cfg.DataSources {
		if len(ds.DataSourceNames) == 0 {
			return nil, fmt.Errorf("discovery group %s has no data sources in database %s", ds.GroupName, database)
		}
		if _, ok := cfg.DiscoveryTypes[ds.DiscoveryTypeName]; !ok {
			return nil, fmt.Errorf("discovery type %q of group %s does not exist in database %s", ds.DiscoveryTypeName, ds.GroupName, database)
		}
		if _, ok := cfg.DiscoveryHeartbeats[ds.DiscoveryHeartbeatName]; !ok {
			return nil, fmt.Errorf("discovery heartbeat %q of group %s does not exist in database %s", ds.DiscoveryHeartbeatName, ds.GroupName, database)
		}
		r.groups[ds.GroupName] = ds
	}
	return r, nil
}
