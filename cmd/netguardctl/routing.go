package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRoutingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routing",
		Short: "inspect and modify the routing table",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "list the current routing table",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			routes, err := c.RoutingRoutes(cmd.Context())
			if err != nil {
				return err
			}
			for _, r := range routes {
				dest := r.Dest
				if dest == "" {
					dest = "default"
				}
				fmt.Printf("%s via %s dev %s metric %d\n", dest, r.Gateway, r.Interface, r.Metric)
			}
			return nil
		},
	}

	var metric int
	addRoute := &cobra.Command{
		Use:   "add DEST GATEWAY DEVICE",
		Short: "add a route to DEST via GATEWAY out DEVICE",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			return c.RoutingAddRoute(cmd.Context(), args[0], args[1], args[2], metric)
		},
	}
	addRoute.Flags().IntVar(&metric, "metric", 0, "route metric")

	removeRoute := &cobra.Command{
		Use:   "remove DEST",
		Short: "remove the route to DEST",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			return c.RoutingRemoveRoute(cmd.Context(), args[0])
		},
	}

	setGateway := &cobra.Command{
		Use:   "set-default-gateway GATEWAY DEVICE",
		Short: "set the default gateway to GATEWAY out DEVICE",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			return c.RoutingSetDefaultGateway(cmd.Context(), args[0], args[1])
		},
	}

	var ipv6 bool
	getGateway := &cobra.Command{
		Use:   "default-gateway",
		Short: "print the default gateway address",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			gw, err := c.RoutingDefaultGateway(cmd.Context(), ipv6)
			if err != nil {
				return err
			}
			fmt.Println(gw)
			return nil
		},
	}
	getGateway.Flags().BoolVar(&ipv6, "ipv6", false, "query the IPv6 default gateway instead of IPv4")

	var clearIPv6 bool
	clearGateway := &cobra.Command{
		Use:   "clear-default-gateway",
		Short: "remove the default gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			return c.RoutingClearDefaultGateway(cmd.Context(), clearIPv6)
		},
	}
	clearGateway.Flags().BoolVar(&clearIPv6, "ipv6", false, "clear the IPv6 default gateway instead of IPv4")

	cmd.AddCommand(list, addRoute, removeRoute, setGateway, getGateway, clearGateway)
	return cmd
}
