package family

import (
	"fmt"
	"strconv"

	"hsgq-olt-bot/model"
)

type gpon struct{}

func (gpon) Family() model.Family { return model.FamilyGPON }

func (gpon) IdentifierLabel() string { return "Serial Number (SN)" }

func (gpon) TablePath() string { return "/gponmgmt?form=optical_onu" }

func (gpon) OfflineTablePath() string { return "/ontinfo_table" }

func (gpon) RefreshPath() string { return "/gponont_mgmt?form=auth&port_id=0" }

func (gpon) MutationPath() string { return "/gponont_mgmt?form=info" }

func (gpon) ParseRow(row model.Row) model.OnuRecord {
	rec := model.OnuRecord{
		Identifier: row.String("ont_sn"),
		Name:       row.String("ont_name"),
		State:      deriveState(row),
		RoutingID:  row.String("identifier"),
		Attrs:      row,
	}
	rec.Port.PortID, _ = row.Int("port_id")
	rec.Port.DeviceID, _ = row.Int("ont_id")
	if p, ok := row.Power("receive_power", "rx_power"); ok {
		rec.RxPower = &p
	}
	return rec
}

func (gpon) DetailCalls(rec model.OnuRecord) []DetailCall {
	q := fmt.Sprintf("port_id=%d&ont_id=%d", rec.Port.PortID, rec.Port.DeviceID)
	return []DetailCall{
		{Name: "base", Path: "/gponont_mgmt?form=base&" + q},
		{Name: "optical", Path: "/gponont_mgmt?form=ont_optical&" + q},
		{Name: "version", Path: "/gponont_mgmt?form=ont_version&" + q},
	}
}

func (gpon) RebootParam(rec model.OnuRecord) (any, error) {
	id, err := routingID(rec)
	if err != nil {
		return nil, err
	}
	return model.GponMutationParam{Identifier: id, Flags: 4}, nil
}

func (gpon) RenameParam(rec model.OnuRecord, name string) (any, error) {
	id, err := routingID(rec)
	if err != nil {
		return nil, err
	}
	return model.GponMutationParam{Identifier: id, Flags: 8, OntName: name}, nil
}

func routingID(rec model.OnuRecord) (int, error) {
	if rec.RoutingID == "" {
		return 0, ErrNoRoutingID
	}
	id, err := strconv.Atoi(rec.RoutingID)
	if err != nil {
		return 0, ErrNoRoutingID
	}
	return id, nil
}
