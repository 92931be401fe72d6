package model

import (
	"fmt"
	"strings"
)

// Family selects the management dialect of the OLT. It is fixed at startup
// from configuration and never changes at runtime.
type Family string

const (
	FamilyUnknown Family = ""
	FamilyEPON    Family = "EPON"
	FamilyGPON    Family = "GPON"
)

func ParseFamily(s string) (Family, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "EPON":
		return FamilyEPON, nil
	case "GPON":
		return FamilyGPON, nil
	}
	return FamilyUnknown, fmt.Errorf("unsupported device family %q", s)
}

// State is the attachment state of an ONU. The numeric values match the
// rstate codes the GPON firmware uses.
type State int

const (
	StateInitial State = 0
	StateOnline  State = 1
	StateOffline State = 2
	StateUnknown State = 3
)

func (s State) String() string {
	switch s {
	case StateInitial:
		return "Initial"
	case StateOnline:
		return "Online"
	case StateOffline:
		return "Offline"
	}
	return "Unknown"
}

// Source marks which table supplied a record's identity. Offline-sourced
// records cannot be enriched via the live-detail endpoints.
type Source int

const (
	SourceLive Source = iota
	SourceOffline
)

// PortAddress locates an ONU on the OLT's PON tree.
type PortAddress struct {
	PortID   int
	DeviceID int
}

func (p PortAddress) String() string {
	return fmt.Sprintf("%d/%d", p.PortID, p.DeviceID)
}

// OnuRecord is the canonical representation of one ONU, reconciled from the
// live table, the offline/auth table and any detail calls. Instances are
// transient and rebuilt on every query.
type OnuRecord struct {
	// Identifier is the stable hardware key: MAC for EPON, SN for GPON.
	Identifier string
	// Name is the operator-assigned label, not guaranteed unique.
	Name  string
	Port  PortAddress
	State State
	// RxPower is the optical receive power in dBm, when reported.
	RxPower *float64
	// RoutingID is the opaque handle GPON mutating calls require. The
	// firmware exposes it only in the offline/auth table.
	RoutingID string
	Source    Source
	// Attrs carries every raw field seen for this device.
	Attrs Row
}

// Merge folds detail-call fields into Attrs, later values winning. A null
// never clobbers an earlier value.
func (r *OnuRecord) Merge(fields Row) {
	if r.Attrs == nil {
		r.Attrs = Row{}
	}
	for k, v := range fields {
		if v == nil {
			continue
		}
		r.Attrs[k] = v
	}
}
