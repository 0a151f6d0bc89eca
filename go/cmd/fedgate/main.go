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

// fedgate plans federated queries over the logical databases of a
// metadata snapshot.
package main

import (
	"os"

	"fedgate.io/fedgate/go/cmd/fedgate/command"
	"fedgate.io/fedgate/go/fed/log"
)

func main() {
	defer log.Flush()
	if err := command.Main().Execute(); err != nil {
		log.Error(err)
		log.Flush()
		os.Exit(1)
	}
}
