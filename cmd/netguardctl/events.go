package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/netguard/netguardd/client"
)

func newEventsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "stream network events until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient()
			if err != nil {
				return err
			}
			defer c.Close()
			return c.Events(cmd.Context(), func(l client.EventLine) error {
				if l.Event != nil {
					fmt.Printf("%s %s\n", l.Event.Kind, l.Event.Name)
					return nil
				}
				fmt.Printf("lagged %d events\n", l.Lagged)
				return nil
			})
		},
	}
}
