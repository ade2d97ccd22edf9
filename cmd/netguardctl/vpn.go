package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/netguard/netguardd/daemon/model"
)

func newVPNCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vpn",
		Short: "manage stored VPN connections",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "list stored VPN connections",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			conns, err := c.VPNConnections(cmd.Context())
			if err != nil {
				return err
			}
			for _, conn := range conns {
				fmt.Printf("%s\t%s\n", conn.Name, conn.Backend)
			}
			return nil
		},
	}

	info := &cobra.Command{
		Use:   "info NAME",
		Short: "show stored metadata for NAME",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			conn, err := c.VPNConnectionInfo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s\t%s\n", conn.Name, conn.Backend)
			return nil
		},
	}

	connect := &cobra.Command{
		Use:   "connect NAME",
		Short: "bring up the VPN connection named NAME",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			return c.VPNConnect(cmd.Context(), args[0])
		},
	}

	disconnect := &cobra.Command{
		Use:   "disconnect NAME",
		Short: "tear down the VPN connection named NAME",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			return c.VPNDisconnect(cmd.Context(), args[0])
		},
	}

	del := &cobra.Command{
		Use:   "delete NAME",
		Short: "remove the stored VPN connection named NAME",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			return c.VPNDelete(cmd.Context(), args[0])
		},
	}

	var backend string
	var configPath string
	doImport := &cobra.Command{
		Use:   "import NAME",
		Short: "store a VPN connection config under NAME",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			f, err := os.Open(configPath)
			if err != nil {
				return err
			}
			defer f.Close()
			return c.VPNImport(cmd.Context(), args[0], model.VPNBackend(backend), f)
		},
	}
	doImport.Flags().StringVar(&backend, "backend", "", "VPN backend (wireguard, openvpn, ipsec, tor-proxy)")
	doImport.Flags().StringVar(&configPath, "config", "", "path to the backend's config file")
	doImport.MarkFlagRequired("backend")
	doImport.MarkFlagRequired("config")

	export := &cobra.Command{
		Use:   "export NAME",
		Short: "print NAME's stored config content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			content, err := c.VPNExport(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Print(content)
			return nil
		},
	}

	cmd.AddCommand(list, info, connect, disconnect, del, doImport, export)
	return cmd
}
