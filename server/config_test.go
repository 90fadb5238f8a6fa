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

package server_test

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coedit-team/coedit/server"
	"github.com/coedit-team/coedit/server/backend"
	"github.com/coedit-team/coedit/server/gateway"
)

func TestNewConfigFromFile(t *testing.T) {
	t.Run("fail read config file test", func(t *testing.T) {
		conf := server.NewConfig()
		assert.Equal(t, conf.GatewayAddr(), "localhost:"+strconv.Itoa(server.DefaultGatewayPort))
		_, err := server.NewConfigFromFile("nowhere.yml")
		assert.Error(t, err)

		assert.Equal(t, conf.Gateway.Host, server.DefaultGatewayHost)
		assert.Equal(t, conf.Gateway.Port, server.DefaultGatewayPort)
		assert.Equal(t, conf.Profiling.Port, server.DefaultProfilingPort)
		assert.Equal(t, conf.Backend.DocumentPath, server.DefaultDocumentPath)
		assert.Equal(t, conf.Backend.MaxDocumentBytes, server.DefaultMaxDocumentBytes)
	})

	t.Run("read config file test", func(t *testing.T) {
		conf, err := server.NewConfigFromFile("config.sample.yml")
		assert.NoError(t, err)

		assert.Equal(t, conf.Gateway.Host, server.DefaultGatewayHost)
		assert.Equal(t, conf.Gateway.Port, server.DefaultGatewayPort)
		assert.Equal(t, conf.Profiling.Port, server.DefaultProfilingPort)
		assert.Equal(t, conf.Backend.DocumentPath, server.DefaultDocumentPath)
		assert.Equal(t, conf.Backend.MaxDocumentBytes, server.DefaultMaxDocumentBytes)
		assert.NoError(t, conf.Validate())
	})

	t.Run("defaults fill missing sections test", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		assert.NoError(t, os.WriteFile(path, []byte("Gateway:\n  Port: 8080\n"), 0600))

		conf, err := server.NewConfigFromFile(path)
		assert.NoError(t, err)
		assert.Equal(t, conf.Gateway.Port, 8080)
		assert.Equal(t, conf.Profiling.Port, server.DefaultProfilingPort)
		assert.Equal(t, conf.Backend.DocumentPath, server.DefaultDocumentPath)
		assert.NoError(t, conf.Validate())
	})

	t.Run("validate test", func(t *testing.T) {
		conf := server.NewConfig()
		conf.Gateway.Port = -1
		assert.ErrorIs(t, conf.Validate(), gateway.ErrInvalidGatewayPort)

		conf = server.NewConfig()
		conf.Backend.DocumentPath = ""
		assert.ErrorIs(t, conf.Validate(), backend.ErrEmptyDocumentPath)

		conf = server.NewConfig()
		conf.Backend.MaxDocumentBytes = -1
		assert.ErrorIs(t, conf.Validate(), backend.ErrInvalidMaxDocumentBytes)
	})
}
