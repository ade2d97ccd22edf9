package main

import (
	"fmt"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"
)

func newDeviceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "device",
		Short: "inspect and control a single network interface",
	}

	info := &cobra.Command{
		Use:   "info NAME",
		Short: "show an interface's addresses and traffic counters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			d, err := c.DeviceInfo(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s\n", d.Name, enabledString(d.Up))
			for _, a := range d.Addresses {
				fmt.Printf("  address %s\n", a.CIDR)
			}
			fmt.Printf("  rx %s (%d packets, %d errors)\n", units.BytesSize(float64(d.Stats.RxBytes)), d.Stats.RxPackets, d.Stats.RxErrors)
			fmt.Printf("  tx %s (%d packets, %d errors)\n", units.BytesSize(float64(d.Stats.TxBytes)), d.Stats.TxPackets, d.Stats.TxErrors)
			return nil
		},
	}

	activate := &cobra.Command{
		Use:   "activate NAME",
		Short: "activate the stored profile matching NAME",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			return c.DeviceActivate(cmd.Context(), args[0])
		},
	}

	deactivate := &cobra.Command{
		Use:   "deactivate NAME",
		Short: "tear down the active connection on NAME",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			return c.DeviceDeactivate(cmd.Context(), args[0])
		},
	}

	var mtu int
	setMTU := &cobra.Command{
		Use:   "set-mtu NAME",
		Short: "set an interface's MTU",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			return c.DeviceSetMTU(cmd.Context(), args[0], mtu)
		},
	}
	setMTU.Flags().IntVar(&mtu, "mtu", 1500, "new MTU value")

	setManaged := &cobra.Command{
		Use:   "set-managed NAME true|false",
		Short: "mark whether the daemon manages NAME",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			managed, err := parseBoolArg(args[1])
			if err != nil {
				return err
			}
			return c.DeviceSetManaged(cmd.Context(), args[0], managed)
		},
	}

	setAutoconnect := &cobra.Command{
		Use:   "set-autoconnect NAME true|false",
		Short: "toggle autoconnect on NAME's stored profile",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			autoconnect, err := parseBoolArg(args[1])
			if err != nil {
				return err
			}
			return c.DeviceSetAutoconnect(cmd.Context(), args[0], autoconnect)
		},
	}

	cmd.AddCommand(info, activate, deactivate, setMTU, setManaged, setAutoconnect)
	return cmd
}

func parseBoolArg(s string) (bool, error) {
	switch s {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	default:
		return false, fmt.Errorf("expected true or false, got %q", s)
	}
}
