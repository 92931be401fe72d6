package family

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hsgq-olt-bot/model"
)

func TestNewAdapter(t *testing.T) {
	a, err := New(model.FamilyGPON)
	require.NoError(t, err)
	assert.Equal(t, model.FamilyGPON, a.Family())

	a, err = New(model.FamilyEPON)
	require.NoError(t, err)
	assert.Equal(t, model.FamilyEPON, a.Family())

	_, err = New(model.FamilyUnknown)
	assert.Error(t, err)
}

func TestDeriveStatePreference(t *testing.T) {
	tests := []struct {
		name string
		row  model.Row
		want model.State
	}{
		{"auth_state wins over rstate", model.Row{"auth_state": float64(0), "rstate": float64(1)}, model.StateInitial},
		{"auth_state online", model.Row{"auth_state": float64(1)}, model.StateOnline},
		{"auth_state other means offline", model.Row{"auth_state": float64(5)}, model.StateOffline},
		{"rstate initial", model.Row{"rstate": float64(0)}, model.StateInitial},
		{"rstate online", model.Row{"rstate": float64(1)}, model.StateOnline},
		{"rstate offline", model.Row{"rstate": float64(2)}, model.StateOffline},
		{"rstate out of range", model.Row{"rstate": float64(9)}, model.StateUnknown},
		{"textual run state", model.Row{"run_state": "Online"}, model.StateOnline},
		{"textual status", model.Row{"status": "down"}, model.StateOffline},
		{"nothing known", model.Row{}, model.StateUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveState(tt.row))
		})
	}
}

func TestGponParseRow(t *testing.T) {
	a, err := New(model.FamilyGPON)
	require.NoError(t, err)

	rec := a.ParseRow(model.Row{
		"ont_sn":        "HWTC0001",
		"ont_name":      "Budi",
		"rstate":        float64(1),
		"port_id":       float64(1),
		"ont_id":        float64(5),
		"identifier":    float64(1234),
		"receive_power": "-18.50 dBm",
	})

	assert.Equal(t, "HWTC0001", rec.Identifier)
	assert.Equal(t, "Budi", rec.Name)
	assert.Equal(t, model.StateOnline, rec.State)
	assert.Equal(t, "1/5", rec.Port.String())
	assert.Equal(t, "1234", rec.RoutingID)
	require.NotNil(t, rec.RxPower)
	assert.InDelta(t, -18.5, *rec.RxPower, 0.001)
}

func TestGponMutationParams(t *testing.T) {
	a, err := New(model.FamilyGPON)
	require.NoError(t, err)

	rec := model.OnuRecord{Identifier: "HWTC0001", RoutingID: "1234"}

	param, err := a.RebootParam(rec)
	require.NoError(t, err)
	assert.Equal(t, model.GponMutationParam{Identifier: 1234, Flags: 4}, param)

	param, err = a.RenameParam(rec, "Dewi")
	require.NoError(t, err)
	assert.Equal(t, model.GponMutationParam{Identifier: 1234, Flags: 8, OntName: "Dewi"}, param)
}

func TestGponMutationWithoutRoutingID(t *testing.T) {
	a, err := New(model.FamilyGPON)
	require.NoError(t, err)

	_, err = a.RebootParam(model.OnuRecord{Identifier: "HWTC0001"})
	assert.ErrorIs(t, err, ErrNoRoutingID)

	_, err = a.RenameParam(model.OnuRecord{Identifier: "HWTC0001", RoutingID: "abc"}, "x")
	assert.ErrorIs(t, err, ErrNoRoutingID)
}

func TestEponParseRowAndParams(t *testing.T) {
	a, err := New(model.FamilyEPON)
	require.NoError(t, err)

	rec := a.ParseRow(model.Row{
		"macaddr":  "80:14:A8:00:00:01",
		"onu_name": "Sari",
		"status":   "Online",
		"port_id":  float64(2),
		"onu_id":   float64(7),
	})
	assert.Equal(t, "80:14:A8:00:00:01", rec.Identifier)
	assert.Equal(t, "Sari", rec.Name)
	assert.Equal(t, model.StateOnline, rec.State)

	param, err := a.RebootParam(rec)
	require.NoError(t, err)
	assert.Equal(t, model.EponMutationParam{PortID: 2, OnuID: 7, Flags: 1, FecMode: 1}, param)

	param, err = a.RenameParam(rec, "Baru")
	require.NoError(t, err)
	assert.Equal(t, model.EponMutationParam{PortID: 2, OnuID: 7, Flags: 8, FecMode: 1, OnuName: "Baru"}, param)
}

func TestEponRefreshPathCacheBuster(t *testing.T) {
	a, err := New(model.FamilyEPON)
	require.NoError(t, err)
	assert.Contains(t, a.RefreshPath(), "/onu_allow_list?t=")
}

func TestGponDetailCalls(t *testing.T) {
	a, err := New(model.FamilyGPON)
	require.NoError(t, err)

	rec := model.OnuRecord{Port: model.PortAddress{PortID: 1, DeviceID: 5}}
	calls := a.DetailCalls(rec)
	require.Len(t, calls, 3)
	assert.Equal(t, "/gponont_mgmt?form=base&port_id=1&ont_id=5", calls[0].Path)
	assert.Equal(t, "/gponont_mgmt?form=ont_optical&port_id=1&ont_id=5", calls[1].Path)
	assert.Equal(t, "/gponont_mgmt?form=ont_version&port_id=1&ont_id=5", calls[2].Path)
}
