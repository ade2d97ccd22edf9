// netguardd is the daemon binary: it wires together every collaborator
// (C1-C9), serves the request gateway over a Unix domain socket, and
// runs until SIGTERM/SIGINT.
//
// Grounded on cmd/dockerd's entrypoint shape: a cobra root command with
// installFlags-style persistent flags, a loadDaemonCliConfig-style
// config load (daemon_test.go's TestLoadDaemonCliConfig* family, itself
// an orphaned test with no implementation anywhere in the pack), and
// cmd/dockerd/trap for graceful shutdown — now cmd/netguardd/trap.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/containerd/log"
	"github.com/docker/go-connections/sockets"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/netguard/netguardd/cmd/netguardd/trap"
	"github.com/netguard/netguardd/daemon/automator"
	"github.com/netguard/netguardd/daemon/config"
	"github.com/netguard/netguardd/daemon/drivers/aphost"
	"github.com/netguard/netguardd/daemon/drivers/dhcpclient"
	"github.com/netguard/netguardd/daemon/drivers/dhcpserver"
	"github.com/netguard/netguardd/daemon/drivers/dns"
	"github.com/netguard/netguardd/daemon/drivers/supplicant"
	"github.com/netguard/netguardd/daemon/drivers/vpn"
	"github.com/netguard/netguardd/daemon/eventbus"
	"github.com/netguard/netguardd/daemon/iface"
	"github.com/netguard/netguardd/daemon/model"
	"github.com/netguard/netguardd/daemon/netmon"
	"github.com/netguard/netguardd/daemon/orchestrator"
	"github.com/netguard/netguardd/daemon/privtoken"
	"github.com/netguard/netguardd/daemon/profile"
	"github.com/netguard/netguardd/daemon/server"
)

// daemonOptions mirrors the teacher's daemonOptions/installFlags split:
// the CLI surface is declared once and loaded into a config.Config
// before MergeDaemonConfigurations sees it.
type daemonOptions struct {
	configFile  string
	flagsConfig *config.Config
}

func newDaemonOptions() *daemonOptions {
	return &daemonOptions{flagsConfig: config.New()}
}

func (o *daemonOptions) installFlags(flags *pflag.FlagSet) {
	c := o.flagsConfig
	flags.StringVar(&o.configFile, "config-file", "", "path to a JSON configuration file")
	flags.StringVar(&c.APISocket, "api-socket", c.APISocket, "path of the Unix domain socket to serve the gateway on")
	flags.IntVar(&c.SocketGID, "api-socket-gid", c.SocketGID, "group id to own the api socket (defaults to the daemon's own gid)")
	flags.StringVar(&c.RegulatoryDomain, "regulatory-domain", c.RegulatoryDomain, "two-letter WiFi regulatory domain country code (\"00\" for world)")
	flags.StringVar(&c.RuntimeDir, "runtime-dir", c.RuntimeDir, "directory for runtime state (privilege tokens, ...)")
	flags.StringVar(&c.ProfilesDir, "profiles-dir", c.ProfilesDir, "directory of persisted connection profiles")
	flags.StringVar(&c.VPNStoreDir, "vpn-store-dir", c.VPNStoreDir, "directory of persisted VPN connection configs")
	flags.StringVar(&c.DHCPLeaseFile, "dhcp-lease-file", c.DHCPLeaseFile, "path of the DHCP server lease database")
	flags.BoolVar(&c.Debug, "debug", c.Debug, "enable debug logging")
	flags.StringVar(&c.LogLevel, "log-level", c.LogLevel, "logging level (debug, info, warn, error, fatal, panic)")
	flags.StringVar(&c.LogFormat, "log-format", c.LogFormat, "logging format (text, json)")
	flags.IntVar(&c.EventBacklog, "event-backlog", c.EventBacklog, "per-subscriber event bus backlog")
}

// loadDaemonCliConfig merges the config file named by opts.configFile
// into the flags-derived configuration, the same split the teacher's
// own loadDaemonCliConfig makes between CLI flags and file config.
func loadDaemonCliConfig(opts *daemonOptions, flags *pflag.FlagSet) (*config.Config, error) {
	return config.MergeDaemonConfigurations(opts.flagsConfig, flags, opts.configFile)
}

func configureLogging(cfg *config.Config) {
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(lvl)
	}
	if cfg.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{})
	}
}

// collaborators holds every component the daemon wires together, so
// run() can build it once and pass it down to the gateway and the
// background loops that serve C1/C7.
type collaborators struct {
	bus          *eventbus.Bus
	monitor      *netmon.Monitor
	orchestrator *orchestrator.Orchestrator
	automator    *automator.Automator
	profiles     *profile.Store
	gw           *server.Gateway
}

func buildCollaborators(cfg *config.Config) (*collaborators, error) {
	d := iface.New()
	sup := supplicant.New()
	dhcp := dhcpclient.New()
	v := vpn.New()

	orch, err := orchestrator.New(d, sup, dhcp, v)
	if err != nil {
		return nil, fmt.Errorf("building orchestrator: %w", err)
	}

	profiles := profile.New(cfg.ProfilesDir)

	policies, err := autoDHCPPolicies(profiles)
	if err != nil {
		return nil, fmt.Errorf("loading connection profiles: %w", err)
	}
	auto := automator.New(dhcp, policies)

	bus := eventbus.New()
	monitor := netmon.New(bus)

	gw := server.NewGateway()
	gw.Version = "netguardd"
	gw.RegulatoryDomain = cfg.RegulatoryDomain
	gw.Orchestrator = orch
	gw.Iface = d
	gw.Tokens = privtoken.New(cfg.RuntimeDir)
	gw.Supplicant = sup
	gw.DHCPClient = dhcp
	gw.VPN = v
	gw.VPNStore = vpn.NewStore(cfg.VPNStoreDir)
	gw.DHCPServer = dhcpserver.New(cfg.DHCPLeaseFile)
	gw.DNS = dns.New()
	gw.APHost = aphost.New()
	gw.Profiles = profiles
	gw.Automator = auto
	gw.Bus = bus

	return &collaborators{
		bus:          bus,
		monitor:      monitor,
		orchestrator: orch,
		automator:    auto,
		profiles:     profiles,
		gw:           gw,
	}, nil
}

// autoDHCPPolicies derives automator.Policy per interface from the
// profiles whose IPv4 block asks for DHCP: an autoconnect profile with
// method "auto" and an interface hint means the automator should request a
// lease whenever that interface comes up, mirroring what activating
// the profile manually would do.
func autoDHCPPolicies(profiles *profile.Store) (map[string]automator.Policy, error) {
	list, err := profiles.List()
	if err != nil {
		return nil, err
	}
	policies := make(map[string]automator.Policy, len(list))
	for _, p := range list {
		if !p.Autoconnect || p.InterfaceHint == "" {
			continue
		}
		if p.IPv4.Method == model.MethodAuto {
			policies[p.InterfaceHint] = automator.Policy{AutoDHCP: true}
		}
	}
	return policies, nil
}

func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c, err := buildCollaborators(cfg)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.RuntimeDir, 0o750); err != nil {
		return fmt.Errorf("creating runtime directory: %w", err)
	}
	if err := os.RemoveAll(cfg.APISocket); err != nil {
		return fmt.Errorf("clearing stale socket: %w", err)
	}

	// sockets.NewUnixSocket does what dockerd does for its own daemon.sock:
	// unlink any stale socket, bind, then chown/chmod it 0660 under the
	// requested group so only root and that group can dial the gateway.
	ln, err := sockets.NewUnixSocket(cfg.APISocket, cfg.SocketGID)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.APISocket, err)
	}

	srv := server.New(c.gw)
	httpSrv := server.NewHTTPServer(srv)

	c.gw.Orchestrator.AutoConnectAll(ctx, mustList(c.profiles))

	go c.monitor.Run(ctx)
	go c.automator.Run(ctx, c.bus)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.G(ctx).WithError(err).Error("netguardd: gateway server stopped")
		}
	}()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for range hup {
			policies, err := autoDHCPPolicies(c.profiles)
			if err != nil {
				log.G(ctx).WithError(err).Warn("netguardd: SIGHUP profile reload failed")
				continue
			}
			c.automator.SetPolicies(policies)
			log.G(ctx).Info("netguardd: reloaded connection profiles")
		}
	}()

	trap.Trap(func() {
		cancel()
		_ = httpSrv.Close()
		_ = ln.Close()
		c.bus.Close()
	})

	<-ctx.Done()
	return nil
}

func mustList(s *profile.Store) []model.ConnectionProfile {
	list, err := s.List()
	if err != nil {
		return nil
	}
	return list
}

func newRootCommand() *cobra.Command {
	opts := newDaemonOptions()
	cmd := &cobra.Command{
		Use:           "netguardd",
		Short:         "netguardd is a Linux network-management daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadDaemonCliConfig(opts, cmd.Flags())
			if err != nil {
				return err
			}
			configureLogging(cfg)
			return run(cfg)
		},
	}
	opts.installFlags(cmd.Flags())
	return cmd
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
