// Version command for the ngsistore CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/contextgrid/ngsistore/pkg/ngsistore"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ngsistore version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("ngsistore", ngsistore.Version)
	},
}
