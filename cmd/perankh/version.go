// Version command for the perankh CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/becked/per-ankh-sub000/pkg/perankh"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the perankh version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("perankh", perankh.Version)
	},
}
