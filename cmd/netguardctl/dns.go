package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDNSCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dns",
		Short: "run and inspect the forwarding resolver",
	}

	var listenAddr string
	var port int
	var forwarders []string
	start := &cobra.Command{
		Use:   "start",
		Short: "start the forwarding resolver",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			return c.DNSStart(cmd.Context(), listenAddr, port, forwarders)
		},
	}
	start.Flags().StringVar(&listenAddr, "listen", "127.0.0.1", "address to listen on")
	start.Flags().IntVar(&port, "port", 53, "port to listen on")
	start.Flags().StringSliceVar(&forwarders, "forwarder", nil, "upstream resolver address (repeatable)")

	stop := &cobra.Command{
		Use:   "stop",
		Short: "stop the forwarding resolver",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			return c.DNSStop(cmd.Context())
		},
	}

	addForwarder := &cobra.Command{
		Use:   "add-forwarder ADDR",
		Short: "add an upstream resolver",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			return c.DNSAddForwarder(cmd.Context(), args[0])
		},
	}

	removeForwarder := &cobra.Command{
		Use:   "remove-forwarder ADDR",
		Short: "remove an upstream resolver",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			return c.DNSRemoveForwarder(cmd.Context(), args[0])
		},
	}

	listForwarders := &cobra.Command{
		Use:   "forwarders",
		Short: "list configured upstream resolvers",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			fwds, err := c.DNSForwarders(cmd.Context())
			if err != nil {
				return err
			}
			for _, f := range fwds {
				fmt.Println(f)
			}
			return nil
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "show the resolver's current state",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			st, err := c.DNSStatus(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%+v\n", st)
			return nil
		},
	}

	cmd.AddCommand(start, stop, addForwarder, removeForwarder, listForwarders, status)
	return cmd
}
