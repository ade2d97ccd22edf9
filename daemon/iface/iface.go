// Package iface is the interface driver façade (C4, §4.2 of the
// overview table): a uniform set of link/address/stats operations over
// the kernel's routing-netlink interface, used by the orchestrator and
// the automator so neither has to touch vishvananda/netlink directly.
//
// Grounded on the teacher's daemon/libnetwork/osl (Namespace.AddInterface,
// generateIfaceName) and daemon/libnetwork/netutils (random MAC/veth name
// generation, on-link route setup in TestInferReservedNetworksV4) for
// the calling conventions around github.com/vishvananda/netlink.
package iface

import (
	"net"
	"net/netip"

	"github.com/netguard/netguardd/internal/errdefs"
	"github.com/netguard/netguardd/internal/validate"
	"github.com/vishvananda/netlink"
)

// AddressInfo is one address enumerated by Addresses.
type AddressInfo struct {
	CIDR  netip.Prefix
	Scope int
}

// Stats is the subset of link statistics §4 (Interface driver façade)
// asks for.
type Stats struct {
	RxBytes, TxBytes     uint64
	RxPackets, TxPackets uint64
	RxErrors, TxErrors   uint64
}

// Driver wraps the netlink handle used for every operation below. The
// zero value uses the default (root network namespace) handle.
type Driver struct {
	handle *netlink.Handle
}

// New returns a Driver bound to the default network namespace.
func New() *Driver {
	return &Driver{}
}

// NewWithHandle returns a Driver bound to an explicit netlink handle,
// used when operating inside another network namespace (e.g. a VPN
// backend's tunnel namespace).
func NewWithHandle(h *netlink.Handle) *Driver {
	return &Driver{handle: h}
}

func (d *Driver) linkByName(name string) (netlink.Link, error) {
	if err := validate.InterfaceID(name); err != nil {
		return nil, err
	}
	var link netlink.Link
	var err error
	if d.handle != nil {
		link, err = d.handle.LinkByName(name)
	} else {
		link, err = netlink.LinkByName(name)
	}
	if err != nil {
		return nil, errdefs.NotFound(err)
	}
	return link, nil
}

// SetUp administratively brings the interface up.
func (d *Driver) SetUp(name string) error {
	link, err := d.linkByName(name)
	if err != nil {
		return err
	}
	if err := d.linkSetUp(link); err != nil {
		return errdefs.IO(err)
	}
	return nil
}

// SetDown administratively brings the interface down.
func (d *Driver) SetDown(name string) error {
	link, err := d.linkByName(name)
	if err != nil {
		return err
	}
	if err := d.linkSetDown(link); err != nil {
		return errdefs.IO(err)
	}
	return nil
}

func (d *Driver) linkSetUp(l netlink.Link) error {
	if d.handle != nil {
		return d.handle.LinkSetUp(l)
	}
	return netlink.LinkSetUp(l)
}

func (d *Driver) linkSetDown(l netlink.Link) error {
	if d.handle != nil {
		return d.handle.LinkSetDown(l)
	}
	return netlink.LinkSetDown(l)
}

// AddAddr adds prefix to the interface.
func (d *Driver) AddAddr(name string, prefix netip.Prefix) error {
	link, err := d.linkByName(name)
	if err != nil {
		return err
	}
	addr := &netlink.Addr{IPNet: prefixToIPNet(prefix)}
	if d.handle != nil {
		err = d.handle.AddrAdd(link, addr)
	} else {
		err = netlink.AddrAdd(link, addr)
	}
	if err != nil {
		return errdefs.IO(err)
	}
	return nil
}

// DelAddr removes prefix from the interface.
func (d *Driver) DelAddr(name string, prefix netip.Prefix) error {
	link, err := d.linkByName(name)
	if err != nil {
		return err
	}
	addr := &netlink.Addr{IPNet: prefixToIPNet(prefix)}
	if d.handle != nil {
		err = d.handle.AddrDel(link, addr)
	} else {
		err = netlink.AddrDel(link, addr)
	}
	if err != nil {
		return errdefs.IO(err)
	}
	return nil
}

// FlushAddrs removes every address the interface currently carries for
// the given family (netlink.FAMILY_V4, netlink.FAMILY_V6, or
// netlink.FAMILY_ALL).
func (d *Driver) FlushAddrs(name string, family int) error {
	link, err := d.linkByName(name)
	if err != nil {
		return err
	}
	addrs, err := d.addrList(link, family)
	if err != nil {
		return errdefs.IO(err)
	}
	for _, a := range addrs {
		addr := &netlink.Addr{IPNet: a.IPNet}
		if d.handle != nil {
			err = d.handle.AddrDel(link, addr)
		} else {
			err = netlink.AddrDel(link, addr)
		}
		if err != nil {
			return errdefs.IO(err)
		}
	}
	return nil
}

func (d *Driver) addrList(l netlink.Link, family int) ([]netlink.Addr, error) {
	if d.handle != nil {
		return d.handle.AddrList(l, family)
	}
	return netlink.AddrList(l, family)
}

// Addresses enumerates every address currently on the interface.
func (d *Driver) Addresses(name string) ([]AddressInfo, error) {
	link, err := d.linkByName(name)
	if err != nil {
		return nil, err
	}
	addrs, err := d.addrList(link, netlink.FAMILY_ALL)
	if err != nil {
		return nil, errdefs.IO(err)
	}
	out := make([]AddressInfo, 0, len(addrs))
	for _, a := range addrs {
		ones, _ := a.Mask.Size()
		addr, ok := netip.AddrFromSlice(a.IP)
		if !ok {
			continue
		}
		out = append(out, AddressInfo{
			CIDR:  netip.PrefixFrom(addr.Unmap(), ones),
			Scope: a.Scope,
		})
	}
	return out, nil
}

// SetMTU sets the interface MTU after validating it (§4.7).
func (d *Driver) SetMTU(name string, mtu int) error {
	if err := validate.MTU(mtu); err != nil {
		return err
	}
	link, err := d.linkByName(name)
	if err != nil {
		return err
	}
	var setErr error
	if d.handle != nil {
		setErr = d.handle.LinkSetMTU(link, mtu)
	} else {
		setErr = netlink.LinkSetMTU(link, mtu)
	}
	if setErr != nil {
		return errdefs.IO(setErr)
	}
	return nil
}

// SetMAC sets the interface's hardware address after validating it.
func (d *Driver) SetMAC(name string, mac string) error {
	if err := validate.MAC(mac); err != nil {
		return err
	}
	hw, err := net.ParseMAC(mac)
	if err != nil {
		return errdefs.InvalidParameter(err)
	}
	link, err := d.linkByName(name)
	if err != nil {
		return err
	}
	var setErr error
	if d.handle != nil {
		setErr = d.handle.LinkSetHardwareAddr(link, hw)
	} else {
		setErr = netlink.LinkSetHardwareAddr(link, hw)
	}
	if setErr != nil {
		return errdefs.IO(setErr)
	}
	return nil
}

// AddDefaultRoute installs a default route via gw on the given interface.
func (d *Driver) AddDefaultRoute(name, gw string) error {
	if err := validate.IP(gw); err != nil {
		return err
	}
	link, err := d.linkByName(name)
	if err != nil {
		return err
	}
	gwAddr := net.ParseIP(gw)
	route := &netlink.Route{LinkIndex: link.Attrs().Index, Gw: gwAddr}
	if d.handle != nil {
		err = d.handle.RouteAdd(route)
	} else {
		err = netlink.RouteAdd(route)
	}
	if err != nil {
		return errdefs.IO(err)
	}
	return nil
}

// Stats reads link byte/packet/error counters.
func (d *Driver) Stats(name string) (Stats, error) {
	link, err := d.linkByName(name)
	if err != nil {
		return Stats{}, err
	}
	st := link.Attrs().Statistics
	if st == nil {
		return Stats{}, nil
	}
	return Stats{
		RxBytes:   st.RxBytes,
		TxBytes:   st.TxBytes,
		RxPackets: st.RxPackets,
		TxPackets: st.TxPackets,
		RxErrors:  st.RxErrors,
		TxErrors:  st.TxErrors,
	}, nil
}

// IsUp reports the interface's administrative+operational up flag the
// same way C1 derives it: operstate if present, else flags.
func (d *Driver) IsUp(name string) (bool, error) {
	link, err := d.linkByName(name)
	if err != nil {
		return false, err
	}
	attrs := link.Attrs()
	if attrs.OperState != netlink.OperUnknown {
		return attrs.OperState == netlink.OperUp, nil
	}
	return attrs.Flags&net.FlagUp != 0 && attrs.Flags&net.FlagRunning != 0, nil
}

// List enumerates every interface name currently known to the kernel.
func (d *Driver) List() ([]string, error) {
	var links []netlink.Link
	var err error
	if d.handle != nil {
		links, err = d.handle.LinkList()
	} else {
		links, err = netlink.LinkList()
	}
	if err != nil {
		return nil, errdefs.IO(err)
	}
	names := make([]string, 0, len(links))
	for _, l := range links {
		names = append(names, l.Attrs().Name)
	}
	return names, nil
}

func prefixToIPNet(p netip.Prefix) *net.IPNet {
	addr := p.Addr()
	bits := addr.BitLen()
	return &net.IPNet{
		IP:   addr.AsSlice(),
		Mask: net.CIDRMask(p.Bits(), bits),
	}
}
