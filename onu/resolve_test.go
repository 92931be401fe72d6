package onu

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hsgq-olt-bot/model"
)

const (
	gponDetailBase    = "/gponont_mgmt?form=base&port_id=1&ont_id=5"
	gponDetailOptical = "/gponont_mgmt?form=ont_optical&port_id=1&ont_id=5"
	gponDetailVersion = "/gponont_mgmt?form=ont_version&port_id=1&ont_id=5"
)

func gponLiveBudi(t *testing.T) *model.Envelope {
	return tableEnv(t, []model.Row{
		{"ont_sn": "HWTC0001", "ont_name": "Budi", "rstate": float64(1), "port_id": float64(1), "ont_id": float64(5)},
	})
}

func TestResolveLiveRecordEnriched(t *testing.T) {
	api := &fakeAPI{envs: map[string]*model.Envelope{
		gponTable: gponLiveBudi(t),
		gponOffline: tableEnv(t, []model.Row{
			{"ont_sn": "HWTC0001", "ont_name": "Budi", "rstate": float64(1), "identifier": float64(1234)},
		}),
		gponDetailBase:    objectEnv(t, model.Row{"ont_description": "Rumah Budi", "lineprof_name": "line1"}),
		gponDetailOptical: objectEnv(t, model.Row{"receive_power": "-18.50 dBm", "work_temperature": "45"}),
		gponDetailVersion: objectEnv(t, model.Row{"equipmentid": "HG8310M"}),
	}}
	svc := newTestService(t, model.FamilyGPON, api)

	rec, err := svc.Resolve(context.Background(), "budi")
	require.NoError(t, err)

	assert.Equal(t, "HWTC0001", rec.Identifier)
	assert.Equal(t, model.SourceLive, rec.Source)
	assert.Equal(t, "1234", rec.RoutingID, "routing handle comes from the offline table")
	assert.Equal(t, "Rumah Budi", rec.Attrs.String("ont_description"))
	assert.Equal(t, "HG8310M", rec.Attrs.String("equipmentid"))
	require.NotNil(t, rec.RxPower)
	assert.InDelta(t, -18.5, *rec.RxPower, 0.001)
	assert.Equal(t, TierGood, Classify(rec.RxPower))
}

func TestResolveIdentifierBeatsName(t *testing.T) {
	api := &fakeAPI{envs: map[string]*model.Envelope{
		gponTable: tableEnv(t, []model.Row{
			{"ont_sn": "AAA111", "ont_name": "BBB222", "rstate": float64(1)},
			{"ont_sn": "BBB222", "ont_name": "Other", "rstate": float64(1)},
		}),
	}}
	svc := newTestService(t, model.FamilyGPON, api)

	rec, err := svc.Resolve(context.Background(), "bbb222")
	require.NoError(t, err)
	assert.Equal(t, "BBB222", rec.Identifier)
}

func TestResolveSwallowsDetailFailures(t *testing.T) {
	api := &fakeAPI{
		envs: map[string]*model.Envelope{
			gponTable:      gponLiveBudi(t),
			gponDetailBase: objectEnv(t, model.Row{"ont_description": "Rumah Budi"}),
		},
		errs: map[string]error{
			gponDetailOptical: errors.New("optical boom"),
			gponDetailVersion: errors.New("version boom"),
		},
	}
	svc := newTestService(t, model.FamilyGPON, api)

	rec, err := svc.Resolve(context.Background(), "HWTC0001")
	require.NoError(t, err)
	assert.Equal(t, "Rumah Budi", rec.Attrs.String("ont_description"))
	assert.Nil(t, rec.RxPower)
}

func TestResolveOfflineHitNotEnriched(t *testing.T) {
	api := &fakeAPI{envs: map[string]*model.Envelope{
		gponOffline: tableEnv(t, []model.Row{
			{"ont_sn": "HWTC0009", "ont_name": "Dewi", "rstate": float64(2), "identifier": float64(99)},
		}),
	}}
	svc := newTestService(t, model.FamilyGPON, api)

	rec, err := svc.Resolve(context.Background(), "Dewi")
	require.NoError(t, err)
	assert.Equal(t, model.SourceOffline, rec.Source)
	assert.Equal(t, model.StateOffline, rec.State)
	assert.Equal(t, "99", rec.RoutingID)
	for _, path := range api.gets {
		assert.False(t, strings.Contains(path, "form=base"), "offline hit must not trigger detail calls")
	}
}

func TestResolveNotFound(t *testing.T) {
	api := &fakeAPI{}
	svc := newTestService(t, model.FamilyGPON, api)

	_, err := svc.Resolve(context.Background(), "nobody")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nobody", notFound.Query)
	assert.Equal(t, "Serial Number (SN)", notFound.IdentifierLabel)
}
