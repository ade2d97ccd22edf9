package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGlobalCommands() []*cobra.Command {
	version := &cobra.Command{
		Use:   "version",
		Short: "print the daemon's version",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			v, err := c.Version(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(v)
			return nil
		},
	}

	networking := &cobra.Command{
		Use:   "networking [enable|disable|status]",
		Short: "enable, disable, or report global networking state",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			action := "status"
			if len(args) == 1 {
				action = args[0]
			}
			switch action {
			case "enable":
				return c.SetNetworkingEnabled(cmd.Context(), true)
			case "disable":
				return c.SetNetworkingEnabled(cmd.Context(), false)
			case "status":
				enabled, err := c.NetworkingEnabled(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Println(enabledString(enabled))
				return nil
			default:
				return fmt.Errorf("networking: unknown action %q (want enable, disable, or status)", action)
			}
		},
	}

	connectivity := &cobra.Command{
		Use:   "connectivity",
		Short: "report whether the daemon believes it has connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			check, _ := cmd.Flags().GetBool("check")
			var connected bool
			if check {
				connected, err = c.CheckConnectivity(cmd.Context())
			} else {
				connected, err = c.Connectivity(cmd.Context())
			}
			if err != nil {
				return err
			}
			fmt.Println(connectedString(connected))
			return nil
		},
	}
	connectivity.Flags().Bool("check", false, "force a fresh connectivity probe instead of reporting the cached state")

	devices := &cobra.Command{
		Use:   "devices",
		Short: "list every interface the daemon knows about",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			names, err := c.Devices(cmd.Context())
			if err != nil {
				return err
			}
			for _, n := range names {
				fmt.Println(n)
			}
			return nil
		},
	}

	return []*cobra.Command{version, networking, connectivity, devices}
}

func enabledString(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}

func connectedString(b bool) string {
	if b {
		return "connected"
	}
	return "disconnected"
}
