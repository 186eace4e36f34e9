// SPDX-License-Identifier: GPL-3.0-or-later

package sockaddr

import (
	"net/netip"
	"strconv"
)

// IPv4Addr is an IPv4 address made of four octets.
type IPv4Addr struct {
	octets [4]uint8
}

// NewIPv4Addr returns the IPv4 address a.b.c.d.
func NewIPv4Addr(a, b, c, d uint8) IPv4Addr {
	return IPv4Addr{octets: [4]uint8{a, b, c, d}}
}

// Octets returns the four octets in network order.
func (ip IPv4Addr) Octets() [4]uint8 {
	return ip.octets
}

// Addr returns the equivalent [netip.Addr].
func (ip IPv4Addr) Addr() netip.Addr {
	return netip.AddrFrom4(ip.octets)
}

// String returns the dotted decimal form.
func (ip IPv4Addr) String() string {
	return ip.Addr().String()
}

// IPv6Addr is an IPv6 address made of eight 16-bit segments.
type IPv6Addr struct {
	segments [8]uint16
}

// NewIPv6Addr returns the IPv6 address a:b:c:d:e:f:g:h.
func NewIPv6Addr(a, b, c, d, e, f, g, h uint16) IPv6Addr {
	return IPv6Addr{segments: [8]uint16{a, b, c, d, e, f, g, h}}
}

// Segments returns the eight segments in network order.
func (ip IPv6Addr) Segments() [8]uint16 {
	return ip.segments
}

// Addr returns the equivalent [netip.Addr] (without zone).
func (ip IPv6Addr) Addr() netip.Addr {
	var raw [16]byte
	for idx, seg := range ip.segments {
		raw[2*idx] = byte(seg >> 8)
		raw[2*idx+1] = byte(seg)
	}
	return netip.AddrFrom16(raw)
}

// String returns the RFC 5952 form (e.g., "2606:4700:4700::1111").
func (ip IPv6Addr) String() string {
	return ip.Addr().String()
}

// SocketAddrV4 is an IPv4 address plus a port.
type SocketAddrV4 struct {
	ip   IPv4Addr
	port uint16
}

// NewSocketAddrV4 returns a [SocketAddrV4].
func NewSocketAddrV4(ip IPv4Addr, port uint16) SocketAddrV4 {
	return SocketAddrV4{ip: ip, port: port}
}

// IP returns the IPv4 address.
func (sa SocketAddrV4) IP() IPv4Addr {
	return sa.ip
}

// Port returns the port.
func (sa SocketAddrV4) Port() uint16 {
	return sa.port
}

// String returns the "a.b.c.d:port" form.
func (sa SocketAddrV4) String() string {
	return sa.AddrPort().String()
}

// SocketAddrV6 is an IPv6 address plus port, flow information, and scope ID.
type SocketAddrV6 struct {
	ip       IPv6Addr
	port     uint16
	flowInfo uint32
	scopeID  uint32
}

// NewSocketAddrV6 returns a [SocketAddrV6].
func NewSocketAddrV6(ip IPv6Addr, port uint16, flowInfo, scopeID uint32) SocketAddrV6 {
	return SocketAddrV6{ip: ip, port: port, flowInfo: flowInfo, scopeID: scopeID}
}

// IP returns the IPv6 address.
func (sa SocketAddrV6) IP() IPv6Addr {
	return sa.ip
}

// Port returns the port.
func (sa SocketAddrV6) Port() uint16 {
	return sa.port
}

// FlowInfo returns the IPv6 flow information (sin6_flowinfo).
func (sa SocketAddrV6) FlowInfo() uint32 {
	return sa.flowInfo
}

// ScopeID returns the IPv6 scope ID (sin6_scope_id).
func (sa SocketAddrV6) ScopeID() uint32 {
	return sa.scopeID
}

// String returns the "[addr]:port" form, or "[addr%scope]:port" when the
// scope ID is not zero. The flow information has no textual form.
func (sa SocketAddrV6) String() string {
	return sa.AddrPort().String()
}

// Family is the address family of a [SocketAddr].
type Family int

const (
	// FamilyV4 is the IPv4 family.
	FamilyV4 Family = iota

	// FamilyV6 is the IPv6 family.
	FamilyV6
)

// String returns "v4" or "v6".
func (f Family) String() string {
	switch f {
	case FamilyV6:
		return "v6"
	default:
		return "v4"
	}
}

// SocketAddr is either a [SocketAddrV4] or a [SocketAddrV6].
//
// Exactly one variant is populated, as selected by [SocketAddr.Family]. Use
// [V4] and [V6] to construct values and [SocketAddr.AsV4] and
// [SocketAddr.AsV6] to take them apart. The zero value is 0.0.0.0:0.
//
// SocketAddr values are comparable with ==.
type SocketAddr struct {
	family Family
	v4     SocketAddrV4
	v6     SocketAddrV6
}

// V4 returns a [SocketAddr] holding an IPv4 socket address.
func V4(sa SocketAddrV4) SocketAddr {
	return SocketAddr{family: FamilyV4, v4: sa}
}

// V6 returns a [SocketAddr] holding an IPv6 socket address.
func V6(sa SocketAddrV6) SocketAddr {
	return SocketAddr{family: FamilyV6, v6: sa}
}

// Family returns the address family.
func (sa SocketAddr) Family() Family {
	return sa.family
}

// AsV4 returns the IPv4 variant and true, or the zero value and false.
func (sa SocketAddr) AsV4() (SocketAddrV4, bool) {
	return sa.v4, sa.family == FamilyV4
}

// AsV6 returns the IPv6 variant and true, or the zero value and false.
func (sa SocketAddr) AsV6() (SocketAddrV6, bool) {
	return sa.v6, sa.family == FamilyV6
}

// IP returns the IP address as a [netip.Addr], including the zone
// derived from a nonzero IPv6 scope ID.
func (sa SocketAddr) IP() netip.Addr {
	return sa.AddrPort().Addr()
}

// Port returns the port of either variant.
func (sa SocketAddr) Port() uint16 {
	switch sa.family {
	case FamilyV6:
		return sa.v6.port
	default:
		return sa.v4.port
	}
}

// String returns the textual form of the populated variant.
func (sa SocketAddr) String() string {
	switch sa.family {
	case FamilyV6:
		return sa.v6.String()
	default:
		return sa.v4.String()
	}
}

// zoneOf returns the textual zone for a scope ID.
func zoneOf(scopeID uint32) string {
	if scopeID == 0 {
		return ""
	}
	return strconv.FormatUint(uint64(scopeID), 10)
}
