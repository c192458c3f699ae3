// Reset command for the perankh CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagResetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop and recreate the database schema",
	Long:  `Reset drops every table and view and recreates the schema empty. All imported matches are lost.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !flagResetForce {
			return fmt.Errorf("reset deletes all imported data; re-run with --force to confirm")
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Reset(); err != nil {
			return err
		}
		fmt.Println("Database reset")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&flagResetForce, "force", false, "confirm the reset")
}
