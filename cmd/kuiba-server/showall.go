// Copyright 2026 The KuiBa Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/kuiba-db/kuiba/pkg/guc"
	"github.com/pingcap/errors"
	"github.com/spf13/cobra"
)

const flagVerbose = "verbose"

func newShowAllCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show-all",
		Short: "Print every runtime parameter as the server would start with it, then exit.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := bootstrapFromFlags(cmd.Context(), cmd, false)
			if err != nil {
				return err
			}
			b.store.Start()
			verbose, err := cmd.Flags().GetBool(flagVerbose)
			if err != nil {
				return errors.Trace(err)
			}
			renderSettings(cmd.OutOrStdout(), b.store.Enumerate(), verbose)
			return nil
		},
	}
	cmd.Flags().BoolP(flagVerbose, "v", false, "also print the context, source and description of every parameter")
	return cmd
}

func renderSettings(w io.Writer, settings []guc.Setting, verbose bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	if verbose {
		t.AppendHeader(table.Row{"Name", "Setting", "Type", "Context", "Source", "Description"})
		t.SetColumnConfigs([]table.ColumnConfig{
			{Name: "Description", WidthMax: 60},
		})
	} else {
		t.AppendHeader(table.Row{"Name", "Setting"})
	}
	for _, st := range settings {
		if verbose {
			t.AppendRow(table.Row{st.Name, st.Value, st.Type, st.Context, st.Source, st.ShortDesc})
		} else {
			t.AppendRow(table.Row{st.Name, st.Value})
		}
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}
