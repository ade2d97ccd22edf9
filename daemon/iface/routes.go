// routes.go extends the interface driver façade with the system-wide
// route table operations the request gateway's Routing group needs
// (§6): arbitrary route add/remove/list plus default-gateway
// convenience wrappers.
package iface

import (
	"net"

	"github.com/netguard/netguardd/internal/errdefs"
	"github.com/netguard/netguardd/internal/validate"
	"github.com/vishvananda/netlink"
)

// Route is one row of the system route table.
type Route struct {
	Dest      string // CIDR, empty for the default route
	Gateway   string
	Interface string
	Metric    int
}

func (d *Driver) routeList(family int) ([]netlink.Route, error) {
	if d.handle != nil {
		return d.handle.RouteList(nil, family)
	}
	return netlink.RouteList(nil, family)
}

func (d *Driver) routeAdd(r *netlink.Route) error {
	if d.handle != nil {
		return d.handle.RouteAdd(r)
	}
	return netlink.RouteAdd(r)
}

func (d *Driver) routeDel(r *netlink.Route) error {
	if d.handle != nil {
		return d.handle.RouteDel(r)
	}
	return netlink.RouteDel(r)
}

// AddRoute installs a route to dest (CIDR) via gw on the named
// interface, with the given metric.
func (d *Driver) AddRoute(dest, gw, name string, metric int) error {
	prefix, err := validate.CIDR(dest)
	if err != nil {
		return err
	}
	if err := validate.IP(gw); err != nil {
		return err
	}
	link, err := d.linkByName(name)
	if err != nil {
		return err
	}
	_, ipNet, err := net.ParseCIDR(prefix.String())
	if err != nil {
		return errdefs.InvalidParameter(err)
	}
	route := &netlink.Route{
		LinkIndex: link.Attrs().Index,
		Dst:       ipNet,
		Gw:        net.ParseIP(gw),
		Priority:  metric,
	}
	if err := d.routeAdd(route); err != nil {
		return errdefs.IO(err)
	}
	return nil
}

// RemoveRoute deletes one route to dest (CIDR); further routes to the
// same destination are left in place.
func (d *Driver) RemoveRoute(dest string) error {
	prefix, err := validate.CIDR(dest)
	if err != nil {
		return err
	}
	_, ipNet, err := net.ParseCIDR(prefix.String())
	if err != nil {
		return errdefs.InvalidParameter(err)
	}
	if err := d.routeDel(&netlink.Route{Dst: ipNet}); err != nil {
		return errdefs.IO(err)
	}
	return nil
}

// GetRoutes lists every IPv4 and IPv6 route currently installed.
func (d *Driver) GetRoutes() ([]Route, error) {
	routes, err := d.routeList(netlink.FAMILY_ALL)
	if err != nil {
		return nil, errdefs.IO(err)
	}
	out := make([]Route, 0, len(routes))
	for _, r := range routes {
		rt := Route{Metric: r.Priority}
		if r.Dst != nil {
			rt.Dest = r.Dst.String()
		}
		if r.Gw != nil {
			rt.Gateway = r.Gw.String()
		}
		if r.LinkIndex > 0 {
			if link, err := d.linkByIndex(r.LinkIndex); err == nil {
				rt.Interface = link.Attrs().Name
			}
		}
		out = append(out, rt)
	}
	return out, nil
}

func (d *Driver) linkByIndex(index int) (netlink.Link, error) {
	if d.handle != nil {
		return d.handle.LinkByIndex(index)
	}
	return netlink.LinkByIndex(index)
}

// SetDefaultGateway installs (replacing any existing) the IPv4 or IPv6
// default route via gw on the named interface, selected by gw's family.
func (d *Driver) SetDefaultGateway(gw, name string) error {
	if err := validate.IP(gw); err != nil {
		return err
	}
	link, err := d.linkByName(name)
	if err != nil {
		return err
	}
	gwIP := net.ParseIP(gw)
	route := &netlink.Route{LinkIndex: link.Attrs().Index, Gw: gwIP}
	replace := netlink.RouteReplace
	if d.handle != nil {
		replace = d.handle.RouteReplace
	}
	if err := replace(route); err != nil {
		return errdefs.IO(err)
	}
	return nil
}

// GetDefaultGateway returns the default route's gateway for the given
// family (netlink.FAMILY_V4 or netlink.FAMILY_V6), or "" if none is set.
func (d *Driver) GetDefaultGateway(family int) (string, error) {
	routes, err := d.routeList(family)
	if err != nil {
		return "", errdefs.IO(err)
	}
	for _, r := range routes {
		if r.Dst == nil && r.Gw != nil {
			return r.Gw.String(), nil
		}
	}
	return "", nil
}

// ClearDefaultGateway removes the default route for the given family.
func (d *Driver) ClearDefaultGateway(isV6 bool) error {
	family := netlink.FAMILY_V4
	if isV6 {
		family = netlink.FAMILY_V6
	}
	routes, err := d.routeList(family)
	if err != nil {
		return errdefs.IO(err)
	}
	for _, r := range routes {
		if r.Dst == nil {
			route := r
			if err := d.routeDel(&route); err != nil {
				return errdefs.IO(err)
			}
		}
	}
	return nil
}
