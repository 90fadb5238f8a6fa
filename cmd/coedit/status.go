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

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	flagServerAddr string
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the status of a running Coedit server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cli := &http.Client{Timeout: 5 * time.Second}
			res, err := cli.Get(fmt.Sprintf("http://%s/status", flagServerAddr))
			if err != nil {
				return fmt.Errorf("fetch status: %w", err)
			}
			defer func() {
				_ = res.Body.Close()
			}()

			if res.StatusCode != http.StatusOK {
				return fmt.Errorf("fetch status: %s", res.Status)
			}

			var status struct {
				ConnectedClients int    `json:"connected_clients"`
				TextLength       int    `json:"text_length"`
				LastUpdated      string `json:"last_updated"`
				FilePath         string `json:"file_path"`
			}
			if err := json.NewDecoder(res.Body).Decode(&status); err != nil {
				return fmt.Errorf("decode status: %w", err)
			}

			tw := table.NewWriter()
			tw.Style().Options.DrawBorder = false
			tw.Style().Options.SeparateColumns = false
			tw.Style().Options.SeparateFooter = false
			tw.Style().Options.SeparateHeader = false
			tw.Style().Options.SeparateRows = false
			tw.AppendHeader(table.Row{
				"CONNECTED CLIENTS",
				"TEXT LENGTH",
				"LAST UPDATED",
				"FILE PATH",
			})
			tw.AppendRow(table.Row{
				status.ConnectedClients,
				status.TextLength,
				status.LastUpdated,
				status.FilePath,
			})
			cmd.Printf("%s\n", tw.Render())
			return nil
		},
	}
}

func init() {
	cmd := newStatusCmd()
	cmd.Flags().StringVar(
		&flagServerAddr,
		"addr",
		"localhost:1133",
		"Address of the Coedit server",
	)

	rootCmd.AddCommand(cmd)
}
