// Package onu reconciles the OLT's heterogeneous device tables into canonical
// ONU records and carries the reboot/rename operations built on them.
package onu

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"hsgq-olt-bot/family"
	"hsgq-olt-bot/model"
)

// Caller is the slice of the API client this package uses.
type Caller interface {
	Get(ctx context.Context, path string) (*model.Envelope, error)
	Post(ctx context.Context, path string, data any) (*model.Envelope, error)
}

type Service struct {
	api      Caller
	adapter  family.Adapter
	log      *zap.Logger
	collator *collate.Collator
}

func NewService(api Caller, adapter family.Adapter, log *zap.Logger) *Service {
	return &Service{
		api:      api,
		adapter:  adapter,
		log:      log,
		collator: collate.New(language.Indonesian),
	}
}

// List returns the canonical ONU set sorted ascending by name. When
// portFilter is non-nil only devices on that PON port are kept. For GPON the
// offline/auth table is unioned in, de-duplicated by identifier; the live
// table always wins.
func (s *Service) List(ctx context.Context, portFilter *int) ([]model.OnuRecord, error) {
	s.refreshAuthList(ctx)

	rows, err := s.fetchRows(ctx, s.adapter.TablePath())
	if err != nil {
		return nil, err
	}
	records := s.parseRows(rows, portFilter, model.SourceLive)

	if path := s.adapter.OfflineTablePath(); path != "" {
		offRows, err := s.fetchRows(ctx, path)
		if err != nil {
			s.log.Warn("offline table read failed", zap.Error(err))
		} else {
			seen := make(map[string]bool, len(records))
			for _, rec := range records {
				seen[rec.Identifier] = true
			}
			for _, rec := range s.parseRows(offRows, portFilter, model.SourceOffline) {
				if seen[rec.Identifier] {
					continue
				}
				seen[rec.Identifier] = true
				records = append(records, rec)
			}
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return s.collator.CompareString(records[i].Name, records[j].Name) < 0
	})
	return records, nil
}

// refreshAuthList nudges the OLT to rebuild its authorization list before a
// table read. Failures are never fatal; the read can still serve stale data.
func (s *Service) refreshAuthList(ctx context.Context) {
	if _, err := s.api.Get(ctx, s.adapter.RefreshPath()); err != nil {
		s.log.Warn("authorization list refresh failed", zap.Error(err))
	}
}

func (s *Service) fetchRows(ctx context.Context, path string) ([]model.Row, error) {
	env, err := s.api.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	return env.Rows()
}

func (s *Service) parseRows(rows []model.Row, portFilter *int, source model.Source) []model.OnuRecord {
	records := make([]model.OnuRecord, 0, len(rows))
	for _, row := range rows {
		if portFilter != nil {
			port, ok := row.Int("port_id")
			if !ok || port != *portFilter {
				continue
			}
		}
		rec := s.adapter.ParseRow(row)
		rec.Source = source
		records = append(records, rec)
	}
	return records
}
