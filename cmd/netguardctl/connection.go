package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/netguard/netguardd/daemon/model"
)

func newConnectionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connection",
		Short: "manage stored connection profiles",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "list stored connection profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			profiles, err := c.ConnectionProfiles(cmd.Context())
			if err != nil {
				return err
			}
			for _, p := range profiles {
				fmt.Printf("%s\t%s\t%s\n", p.UUID, p.Name, p.Kind)
			}
			return nil
		},
	}

	var fromFile string
	add := &cobra.Command{
		Use:   "add",
		Short: "store a connection profile read from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			raw, err := os.ReadFile(fromFile)
			if err != nil {
				return err
			}
			var p model.ConnectionProfile
			if err := json.Unmarshal(raw, &p); err != nil {
				return fmt.Errorf("parsing %s: %w", fromFile, err)
			}
			return c.ConnectionAdd(cmd.Context(), p)
		},
	}
	add.Flags().StringVar(&fromFile, "file", "", "path to a JSON-encoded connection profile")
	add.MarkFlagRequired("file")

	del := &cobra.Command{
		Use:   "delete UUID",
		Short: "remove the stored profile identified by UUID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			return c.ConnectionDelete(cmd.Context(), args[0])
		},
	}

	activate := &cobra.Command{
		Use:   "activate UUID DEVICE",
		Short: "activate the profile identified by UUID on DEVICE",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			return c.ConnectionActivate(cmd.Context(), args[0], args[1])
		},
	}

	deactivate := &cobra.Command{
		Use:   "deactivate UUID",
		Short: "deactivate the active connection for UUID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			return c.ConnectionDeactivate(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(list, add, del, activate, deactivate)
	return cmd
}
