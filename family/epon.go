package family

import (
	"fmt"
	"time"

	"hsgq-olt-bot/model"
)

type epon struct{}

func (epon) Family() model.Family { return model.FamilyEPON }

func (epon) IdentifierLabel() string { return "MAC Address" }

func (epon) TablePath() string { return "/onutable" }

func (epon) OfflineTablePath() string { return "" }

func (epon) RefreshPath() string {
	// The firmware caches this list aggressively; the timestamp busts it.
	return fmt.Sprintf("/onu_allow_list?t=%d", time.Now().UnixMilli())
}

func (epon) MutationPath() string { return "/onumgmt?form=config" }

func (epon) ParseRow(row model.Row) model.OnuRecord {
	rec := model.OnuRecord{
		Identifier: row.String("macaddr", "sn"),
		Name:       row.String("onu_name", "ont_name"),
		State:      deriveState(row),
		Attrs:      row,
	}
	rec.Port.PortID, _ = row.Int("port_id")
	rec.Port.DeviceID, _ = row.Int("onu_id")
	if p, ok := row.Power("receive_power", "rx_optical_power", "rx_power"); ok {
		rec.RxPower = &p
	}
	return rec
}

func (epon) DetailCalls(rec model.OnuRecord) []DetailCall {
	q := fmt.Sprintf("port_id=%d&onu_id=%d", rec.Port.PortID, rec.Port.DeviceID)
	return []DetailCall{
		{Name: "base", Path: "/onumgmt?form=base-info&" + q},
		{Name: "optical", Path: "/onumgmt?form=optical-diagnose&" + q},
	}
}

func (epon) RebootParam(rec model.OnuRecord) (any, error) {
	return model.EponMutationParam{
		PortID:  rec.Port.PortID,
		OnuID:   rec.Port.DeviceID,
		Flags:   1,
		FecMode: 1,
	}, nil
}

func (epon) RenameParam(rec model.OnuRecord, name string) (any, error) {
	return model.EponMutationParam{
		PortID:  rec.Port.PortID,
		OnuID:   rec.Port.DeviceID,
		Flags:   8,
		FecMode: 1,
		OnuName: name,
	}, nil
}
