// netguardctl is the command-line client for netguardd: one subcommand
// per C8 gateway operation, talking to the daemon over its Unix domain
// socket through the client package.
//
// Grounded on cmd/netguardd's cobra root-command shape (itself grounded
// on the teacher's cmd/docker, per cmd/netguardd/main.go's own doc
// comment) and on the teacher's --host/DOCKER_HOST convention, carried
// over here as --host/NETGUARDD_HOST.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/netguard/netguardd/client"
)

var (
	hostFlag    string
	timeoutFlag time.Duration
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "netguardctl",
		Short:         "netguardctl controls a running netguardd daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&hostFlag, "host", "", "netguardd gateway address (default: "+client.DefaultSocket+", or $"+client.HostEnvVar+")")
	cmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 10*time.Second, "per-request timeout")

	cmd.AddCommand(
		newGlobalCommands()...,
	)
	cmd.AddCommand(newDeviceCommand())
	cmd.AddCommand(newWiFiCommand())
	cmd.AddCommand(newVPNCommand())
	cmd.AddCommand(newConnectionCommand())
	cmd.AddCommand(newDHCPServerCommand())
	cmd.AddCommand(newDNSCommand())
	cmd.AddCommand(newRoutingCommand())
	cmd.AddCommand(newPrivilegeCommand())
	cmd.AddCommand(newEventsCommand())
	return cmd
}

// newClient builds a client.Client from the --host/--timeout flags,
// falling back to NETGUARDD_HOST and then the default socket when
// --host wasn't given.
func newClient() (*client.Client, error) {
	opts := []client.Opt{client.WithTimeout(timeoutFlag)}
	if hostFlag != "" {
		opts = append(opts, client.WithHost(hostFlag))
	} else {
		opts = append(opts, client.WithHostFromEnv())
	}
	return client.NewClientWithOpts(opts...)
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
