package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/netguard/netguardd/daemon/drivers/supplicant"
)

func newWiFiCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wifi",
		Short: "scan, associate, and run an access point over WiFi",
	}

	scan := &cobra.Command{
		Use:   "scan NAME",
		Short: "trigger a fresh scan and print the results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			aps, err := c.WiFiScan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printAccessPoints(aps)
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "access-points NAME",
		Short: "print the most recently scanned access points",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			aps, err := c.WiFiAccessPoints(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printAccessPoints(aps)
			return nil
		},
	}

	var secret string
	connect := &cobra.Command{
		Use:   "connect NAME SSID",
		Short: "associate NAME to SSID",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			return c.WiFiConnect(cmd.Context(), args[0], args[1], secret)
		},
	}
	connect.Flags().StringVar(&secret, "secret", "", "passphrase or PSK for the network (empty for open networks)")

	disconnect := &cobra.Command{
		Use:   "disconnect NAME",
		Short: "tear down NAME's current WiFi association",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			return c.WiFiDisconnect(cmd.Context(), args[0])
		},
	}

	var (
		apConfigPath string
		apSSID       string
		apSecret     string
		apBand       string
		apChannel    int
	)
	startAP := &cobra.Command{
		Use:   "start-ap NAME",
		Short: "bring up an access point on NAME",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			return c.WiFiStartAP(cmd.Context(), args[0], apSSID, apSecret, apBand, apChannel, apConfigPath)
		},
	}
	startAP.Flags().StringVar(&apConfigPath, "config", "", "path to the access point configuration file")
	startAP.Flags().StringVar(&apSSID, "ssid", "", "access point SSID")
	startAP.Flags().StringVar(&apSecret, "secret", "", "access point pre-shared key (empty for an open network)")
	startAP.Flags().StringVar(&apBand, "band", "2.4GHz", "access point band (2.4GHz or 5GHz)")
	startAP.Flags().IntVar(&apChannel, "channel", 1, "access point channel")

	stopAP := &cobra.Command{
		Use:   "stop-ap NAME",
		Short: "tear down the access point running on NAME",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			return c.WiFiStopAP(cmd.Context(), args[0])
		},
	}

	setEnabled := &cobra.Command{
		Use:   "set-enabled NAME true|false",
		Short: "enable or disable WiFi association on NAME",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			enabled, err := parseBoolArg(args[1])
			if err != nil {
				return err
			}
			return c.WiFiSetEnabled(cmd.Context(), args[0], enabled)
		},
	}

	cmd.AddCommand(scan, list, connect, disconnect, startAP, stopAP, setEnabled)
	return cmd
}

func printAccessPoints(aps []supplicant.AccessPoint) {
	for _, ap := range aps {
		fmt.Printf("%s\t%s\t%d MHz\t%d dBm\n", ap.SSID, ap.BSSID, ap.Frequency, ap.SignalDBM)
	}
}
