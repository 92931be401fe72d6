// Package family hides the endpoint and field-name differences between the
// EPON and GPON management dialects behind one adapter interface. Exactly one
// implementation is selected at startup from configuration.
package family

import (
	"errors"
	"fmt"
	"strings"

	"hsgq-olt-bot/model"
)

// ErrNoRoutingID means a GPON mutating call cannot be built because the
// offline/auth table did not expose a routing handle for the device.
var ErrNoRoutingID = errors.New("routing identifier missing from offline table")

// DetailCall is one secondary read that enriches a live record.
type DetailCall struct {
	Name string
	Path string
}

type Adapter interface {
	Family() model.Family
	// IdentifierLabel names the identifier type in user-facing hints.
	IdentifierLabel() string
	TablePath() string
	// OfflineTablePath is empty when the family has no offline table.
	OfflineTablePath() string
	// RefreshPath is the best-effort "refresh authorization list" call
	// issued before a table read.
	RefreshPath() string
	MutationPath() string
	ParseRow(row model.Row) model.OnuRecord
	DetailCalls(rec model.OnuRecord) []DetailCall
	RebootParam(rec model.OnuRecord) (any, error)
	RenameParam(rec model.OnuRecord, name string) (any, error)
}

func New(f model.Family) (Adapter, error) {
	switch f {
	case model.FamilyGPON:
		return gpon{}, nil
	case model.FamilyEPON:
		return epon{}, nil
	}
	return nil, fmt.Errorf("no adapter for device family %q", f)
}

// deriveState picks the attachment state from whichever status field the
// firmware supplied. Order of preference: auth_state code, rstate code,
// textual run state.
func deriveState(row model.Row) model.State {
	if v, ok := row.Int("auth_state"); ok {
		switch v {
		case 1:
			return model.StateOnline
		case 0:
			return model.StateInitial
		default:
			return model.StateOffline
		}
	}
	if v, ok := row.Int("rstate"); ok {
		switch v {
		case 0:
			return model.StateInitial
		case 1:
			return model.StateOnline
		case 2:
			return model.StateOffline
		default:
			return model.StateUnknown
		}
	}
	return stateFromText(row.String("run_state", "status"))
}

func stateFromText(s string) model.State {
	switch strings.ToLower(s) {
	case "online", "up", "registered":
		return model.StateOnline
	case "offline", "down":
		return model.StateOffline
	case "initial":
		return model.StateInitial
	}
	return model.StateUnknown
}
