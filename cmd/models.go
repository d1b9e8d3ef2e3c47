// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/acwebremote/acremote/pkg/acmodel"
)

var modelsAll bool

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List known air conditioner models",
	Long: `List the models known to the encoder registry.

Only supported models can be used with send. The rest are known brands whose
protocols are not implemented yet; they are listed with --all.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeModels(os.Stdout, acmodel.Default(), modelsAll)
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.Flags().BoolVarP(&modelsAll, "all", "a", false, "Include unsupported models")
}

func writeModels(out io.Writer, registry *acmodel.Registry, all bool) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATUS")
	for _, m := range registry.Models() {
		if !m.Supported && !all {
			continue
		}
		status := "supported"
		if !m.Supported {
			status = "unsupported"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\n", m.ID, m.Name, status)
	}
	return tw.Flush()
}
