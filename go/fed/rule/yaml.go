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

// YAMLConfiguration is one entry of the rules list of a metadata snapshot.
// Exactly one field is set.
type YAMLConfiguration struct {
	Sharding    *ShardingConfiguration  `json:"sharding,omitempty"`
	Encrypt     *EncryptConfiguration   `json:"encrypt,omitempty"`
	DBDiscovery *DiscoveryConfiguration `json:"dbDiscovery,omitempty"`
}

// Configurations returns the configurations set in the entries, in order.
func Configurations(entries []YAMLConfiguration) []Configuration {
	var configs []Configuration
	for _, e := range entries {
		if e.Sharding != nil {
			configs = append(configs, e.Sharding)
		}
		if e.Encrypt != nil {
			configs = append(configs, e.Encrypt)
		}
		if e.DBDiscovery != nil {
			configs = append(configs, e.DBDiscovery)
		}
	}
	return configs
}
