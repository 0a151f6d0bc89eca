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

/*
Package viperutil declares typed configuration values backed by viper.

A package declares its values once, at init time:

	var conformance = viperutil.Configure(
		"federation.conformance",
		viperutil.Options[string]{
			FlagName: "federation-conformance",
			Default:  "default",
		},
	)

A value resolves, in order, from its bound flag, the FEDGATE_ environment
variable named after its key (FEDGATE_FEDERATION_CONFORMANCE), the config
file read by LoadConfig, and its default.
*/
package viperutil

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables of every value.
const EnvPrefix = "FEDGATE"

var registry = newRegistry()

func newRegistry() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// Options configure a Value.
type Options[T any] struct {
	// FlagName is the flag BindFlags binds the value to, if any.
	FlagName string
	Default  T
	// GetFunc reads the value out of a viper. GetFuncForType provides it
	// when omitted.
	GetFunc func(v *viper.Viper) func(key string) T
}

// Value is a configuration value of type T. It is safe for concurrent use.
type Value[T any] struct {
	key      string
	flagName string
	def      T
	getFunc  func(v *viper.Viper) func(key string) T
	source   atomic.Pointer[viper.Viper]
}

// Configure declares the value of key.
func Configure[T any](key string, opts Options[T]) *Value[T] {
	val := &Value[T]{key: key, flagName: opts.FlagName, def: opts.Default, getFunc: opts.GetFunc}
	if val.getFunc == nil {
		val.getFunc = GetFuncForType[T]()
	}
	registry.SetDefault(key, opts.Default)
	val.source.Store(registry)
	return val
}

func (val *Value[T]) Key() string      { return val.key }
func (val *Value[T]) FlagName() string { return val.flagName }
func (val *Value[T]) Default() T       { return val.def }

// Get resolves the current value.
func (val *Value[T]) Get() T {
	return val.getFunc(val.source.Load())(val.key)
}

// Rebind makes val read from v until the returned function is called.
// Tests use it through vipertest.Stub.
func (val *Value[T]) Rebind(v *viper.Viper) (restore func()) {
	old := val.source.Swap(v)
	return func() { val.source.Store(old) }
}

// Bindable is implemented by every *Value.
type Bindable interface {
	Key() string
	FlagName() string
}

// BindFlags binds values to their flags on fs. It panics when a value
// names a flag that fs does not define.
func BindFlags(fs *pflag.FlagSet, values ...Bindable) {
	for _, val := range values {
		if val.FlagName() == "" {
			continue
		}
		flag := fs.Lookup(val.FlagName())
		if flag == nil {
			panic(fmt.Sprintf("flag %s of config key %s is not defined", val.FlagName(), val.Key()))
		}
		if err := registry.BindPFlag(val.Key(), flag); err != nil {
			panic(err)
		}
	}
}

// LoadConfig reads the config file at path. An empty path is a no-op.
func LoadConfig(path string) error {
	if path == "" {
		return nil
	}
	registry.SetConfigFile(path)
	return registry.ReadInConfig()
}
