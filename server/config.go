/*
 * Copyright 2026 The Coedit Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package server

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/coedit-team/coedit/server/backend"
	"github.com/coedit-team/coedit/server/gateway"
	"github.com/coedit-team/coedit/server/profiling"
)

// Below are the default values of the Coedit config.
const (
	DefaultGatewayHost = "0.0.0.0"
	DefaultGatewayPort = 1133

	DefaultProfilingPort = 1134

	DefaultDocumentPath     = "shared_text.txt"
	DefaultMaxDocumentBytes = 1024 * 1024
)

// Config is the configuration for creating a Coedit instance.
type Config struct {
	Gateway   *gateway.Config   `yaml:"Gateway"`
	Profiling *profiling.Config `yaml:"Profiling"`
	Backend   *backend.Config   `yaml:"Backend"`
}

// NewConfig returns a Config struct that contains reasonable defaults
// for most of the configurations.
func NewConfig() *Config {
	return newConfig(DefaultGatewayPort, DefaultProfilingPort)
}

// NewConfigFromFile returns a Config struct for the given conf file.
func NewConfigFromFile(path string) (*Config, error) {
	conf := &Config{}
	bytes, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err = yaml.Unmarshal(bytes, conf); err != nil {
		return nil, fmt.Errorf("unmarshal config file: %w", err)
	}

	conf.ensureDefaultValue()
	return conf, nil
}

// GatewayAddr returns the gateway address.
func (c *Config) GatewayAddr() string {
	return fmt.Sprintf("localhost:%d", c.Gateway.Port)
}

// Validate returns an error if the provided Config is invalidated.
func (c *Config) Validate() error {
	if err := c.Gateway.Validate(); err != nil {
		return err
	}

	// The profiling section is optional; a nil section disables the
	// profiling server.
	if c.Profiling != nil {
		if err := c.Profiling.Validate(); err != nil {
			return err
		}
	}

	if err := c.Backend.Validate(); err != nil {
		return err
	}

	return nil
}

// ensureDefaultValue sets the value of the option to which the default
// value should be applied when the user does not input it.
func (c *Config) ensureDefaultValue() {
	if c.Gateway == nil {
		c.Gateway = &gateway.Config{}
	}
	if c.Gateway.Host == "" {
		c.Gateway.Host = DefaultGatewayHost
	}
	if c.Gateway.Port == 0 {
		c.Gateway.Port = DefaultGatewayPort
	}

	if c.Profiling == nil {
		c.Profiling = &profiling.Config{}
	}
	if c.Profiling.Port == 0 {
		c.Profiling.Port = DefaultProfilingPort
	}

	if c.Backend == nil {
		c.Backend = &backend.Config{}
	}
	if c.Backend.DocumentPath == "" {
		c.Backend.DocumentPath = DefaultDocumentPath
	}
	if c.Backend.MaxDocumentBytes == 0 {
		c.Backend.MaxDocumentBytes = DefaultMaxDocumentBytes
	}
}

func newConfig(port int, profilingPort int) *Config {
	return &Config{
		Gateway: &gateway.Config{
			Host: DefaultGatewayHost,
			Port: port,
		},
		Profiling: &profiling.Config{
			Port: profilingPort,
		},
		Backend: &backend.Config{
			DocumentPath:     DefaultDocumentPath,
			MaxDocumentBytes: DefaultMaxDocumentBytes,
		},
	}
}
