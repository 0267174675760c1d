// Tenant registry commands for the ngsistore CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/contextgrid/ngsistore/pkg/types"
)

var tenantCmd = &cobra.Command{
	Use:   "tenant",
	Short: "Manage the tenant-to-database registry",
}

var tenantAddCmd = &cobra.Command{
	Use:   "add <tenant-id>",
	Short: "Record a tenant mapping and provision its database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, "tenant add:", err)
			os.Exit(exitSysError)
		}
		defer st.Close()

		ctx := context.Background()
		tenant := args[0]
		if err := st.StoreTenant(ctx, tenant, types.TenantDatabase(tenant)); err != nil {
			fmt.Fprintln(os.Stderr, "tenant add:", err)
			os.Exit(exitUserError)
		}
		dbName, err := st.LookupTenantDatabase(ctx, tenant)
		if err != nil {
			fmt.Fprintln(os.Stderr, "tenant add:", err)
			os.Exit(exitSysError)
		}
		fmt.Println("tenant", tenant, "->", dbName)
		return nil
	},
}

var tenantRemoveCmd = &cobra.Command{
	Use:   "rm <tenant-id>",
	Short: "Remove a tenant mapping (its database is kept)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, "tenant rm:", err)
			os.Exit(exitSysError)
		}
		defer st.Close()

		if err := st.DeleteTenant(context.Background(), args[0]); err != nil {
			fmt.Fprintln(os.Stderr, "tenant rm:", err)
			os.Exit(exitUserError)
		}
		fmt.Println("tenant", args[0], "removed")
		return nil
	},
}

var tenantDBCmd = &cobra.Command{
	Use:   "db <tenant-id>",
	Short: "Print the database name mapped to a tenant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			fmt.Fprintln(os.Stderr, "tenant db:", err)
			os.Exit(exitSysError)
		}
		defer st.Close()

		dbName, err := st.LookupTenantDatabase(context.Background(), args[0])
		if errors.Is(err, types.ErrTenantNotFound) {
			fmt.Fprintln(os.Stderr, "tenant db: no mapping for", args[0])
			os.Exit(exitUserError)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "tenant db:", err)
			os.Exit(exitSysError)
		}
		fmt.Println(dbName)
		return nil
	},
}

func init() {
	tenantCmd.AddCommand(tenantAddCmd)
	tenantCmd.AddCommand(tenantRemoveCmd)
	tenantCmd.AddCommand(tenantDBCmd)
}
