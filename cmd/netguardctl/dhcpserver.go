package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDHCPServerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dhcp-server",
		Short: "run and inspect the built-in DHCP server",
	}

	var configPath string
	start := &cobra.Command{
		Use:   "start",
		Short: "start the DHCP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			return c.DHCPServerStart(cmd.Context(), configPath)
		},
	}
	start.Flags().StringVar(&configPath, "config", "", "path to the DHCP server's configuration file")
	start.MarkFlagRequired("config")

	stop := &cobra.Command{
		Use:   "stop",
		Short: "stop the DHCP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			return c.DHCPServerStop(cmd.Context())
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "report whether the DHCP server is running",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			running, err := c.DHCPServerStatus(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(runningString(running))
			return nil
		},
	}

	leases := &cobra.Command{
		Use:   "leases",
		Short: "list active DHCP leases",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			ls, err := c.DHCPServerLeases(cmd.Context())
			if err != nil {
				return err
			}
			for _, l := range ls {
				fmt.Printf("%+v\n", l)
			}
			return nil
		},
	}

	cmd.AddCommand(start, stop, status, leases)
	return cmd
}

func runningString(b bool) string {
	if b {
		return "running"
	}
	return "stopped"
}
