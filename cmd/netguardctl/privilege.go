package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPrivilegeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "privilege",
		Short: "grant, revoke, and inspect the caller's privilege token",
	}

	var minutes int
	var allowedUID uint32
	var restrictUID bool
	grant := &cobra.Command{
		Use:   "grant",
		Short: "grant a privilege token",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			var uidPtr *uint32
			if restrictUID {
				uidPtr = &allowedUID
			}
			tok, err := c.PrivilegeGrant(cmd.Context(), minutes, uidPtr)
			if err != nil {
				return err
			}
			fmt.Printf("granted, expires at unix time %d\n", tok.ExpiresAt)
			return nil
		},
	}
	grant.Flags().IntVar(&minutes, "minutes", 5, "how many minutes the token is valid for")
	grant.Flags().Uint32Var(&allowedUID, "allowed-uid", 0, "restrict the token to this UID")
	grant.Flags().BoolVar(&restrictUID, "restrict-uid", false, "restrict the token to --allowed-uid rather than the caller")

	revoke := &cobra.Command{
		Use:   "revoke",
		Short: "revoke the outstanding privilege token",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			return c.PrivilegeRevoke(cmd.Context())
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "report whether the caller's token is valid and how long it lasts",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			valid, remaining, err := c.PrivilegeStatus(cmd.Context())
			if err != nil {
				return err
			}
			if !valid {
				fmt.Println("no valid token")
				return nil
			}
			fmt.Printf("valid, %s remaining\n", remaining)
			return nil
		},
	}

	cmd.AddCommand(grant, revoke, status)
	return cmd
}
