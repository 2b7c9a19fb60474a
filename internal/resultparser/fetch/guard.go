package fetch

import (
	"fmt"
	"net/netip"
	"syscall"
)

// sharedAddressSpace is the carrier-grade NAT range (RFC 6598).
var sharedAddressSpace = netip.MustParsePrefix("100.64.0.0/10")

// BlockedAddressError reports a dial to an address outside the public internet.
type BlockedAddressError struct {
	Address string
}

// Error handles internal error behavior.
func (e *BlockedAddressError) Error() string {
	if e == nil {
		return "blocked address"
	}
	return fmt.Sprintf("blocked non-public address %s", e.Address)
}

// IsPublicAddr reports whether addr is routable on the public internet.
// Loopback, private, link-local, multicast, unspecified and shared
// addresses are not.
func IsPublicAddr(addr netip.Addr) bool {
	if !addr.IsValid() {
		return false
	}
	addr = addr.Unmap()
	switch {
	case addr.IsLoopback(), addr.IsPrivate(), addr.IsUnspecified(), addr.IsMulticast():
		return false
	case addr.IsLinkLocalUnicast(), addr.IsLinkLocalMulticast(), addr.IsInterfaceLocalMulticast():
		return false
	case sharedAddressSpace.Contains(addr):
		return false
	}
	return true
}

// publicOnlyControl is a net.Dialer Control hook. It runs after DNS
// resolution, so names resolving to internal addresses are refused too.
func publicOnlyControl(_, address string, _ syscall.RawConn) error {
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return &BlockedAddressError{Address: address}
	}
	if !IsPublicAddr(ap.Addr()) {
		return &BlockedAddressError{Address: address}
	}
	return nil
}
