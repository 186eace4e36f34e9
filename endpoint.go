// SPDX-License-Identifier: GPL-3.0-or-later

package sockaddr

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strconv"
)

// AddrPort returns the equivalent [netip.AddrPort].
func (sa SocketAddrV4) AddrPort() netip.AddrPort {
	return netip.AddrPortFrom(sa.ip.Addr(), sa.port)
}

// AddrPort returns the equivalent [netip.AddrPort].
//
// A nonzero scope ID becomes the numeric zone. The flow information is lost.
func (sa SocketAddrV6) AddrPort() netip.AddrPort {
	return netip.AddrPortFrom(sa.ip.Addr().WithZone(zoneOf(sa.scopeID)), sa.port)
}

// AddrPort returns the equivalent [netip.AddrPort] of the populated variant.
func (sa SocketAddr) AddrPort() netip.AddrPort {
	switch sa.family {
	case FamilyV6:
		return sa.v6.AddrPort()
	default:
		return sa.v4.AddrPort()
	}
}

// TCPAddr returns a [*net.TCPAddr] suitable for [net.DialTCP] and [net.ListenTCP].
func (sa SocketAddr) TCPAddr() *net.TCPAddr {
	return net.TCPAddrFromAddrPort(sa.AddrPort())
}

// UDPAddr returns a [*net.UDPAddr] suitable for [net.DialUDP] and [net.ListenUDP].
func (sa SocketAddr) UDPAddr() *net.UDPAddr {
	return net.UDPAddrFromAddrPort(sa.AddrPort())
}

// errInvalidAddrPort indicates a zero [netip.AddrPort].
var errInvalidAddrPort = errors.New("invalid netip.AddrPort")

// FromAddrPort converts a [netip.AddrPort] into a [SocketAddr].
//
// IPv4 addresses become [FamilyV4]. IPv6 addresses, including IPv4-mapped
// ones, become [FamilyV6]. The zone, if any, must be a decimal uint32 and
// becomes the scope ID.
func FromAddrPort(ap netip.AddrPort) (SocketAddr, error) {
	addr := ap.Addr()
	switch {
	case !addr.IsValid():
		return SocketAddr{}, errInvalidAddrPort

	case addr.Is4():
		return V4(NewSocketAddrV4(IPv4Addr{octets: addr.As4()}, ap.Port())), nil

	default:
		scopeID, err := scopeIDOf(addr.Zone())
		if err != nil {
			return SocketAddr{}, err
		}
		raw := addr.As16()
		var ip IPv6Addr
		for idx := range ip.segments {
			ip.segments[idx] = uint16(raw[2*idx])<<8 | uint16(raw[2*idx+1])
		}
		return V6(NewSocketAddrV6(ip, ap.Port(), 0, scopeID)), nil
	}
}

// scopeIDOf parses a numeric IPv6 zone.
func scopeIDOf(zone string) (uint32, error) {
	if zone == "" {
		return 0, nil
	}
	value, err := strconv.ParseUint(zone, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid scope ID %q: must be a decimal uint32", zone)
	}
	return uint32(value), nil
}
