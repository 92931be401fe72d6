package onu

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"hsgq-olt-bot/family"
	"hsgq-olt-bot/model"
)

// NotFoundError is the normal negative result of an identity lookup, not a
// transport fault.
type NotFoundError struct {
	Query string
	// IdentifierLabel names the identifier type valid for this family.
	IdentifierLabel string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("onu %q not found", e.Query)
}

// Resolve locates a device by serial number, MAC or name and, for live
// records, augments it with the family's detail calls. Offline-sourced hits
// are returned as-is; the live-detail endpoints are undefined for them.
func (s *Service) Resolve(ctx context.Context, query string) (*model.OnuRecord, error) {
	rec, err := s.lookup(ctx, query)
	if err != nil {
		return nil, err
	}
	if rec.Source == model.SourceLive {
		s.enrich(ctx, rec)
	}
	return rec, nil
}

// lookup scans the primary table, then the offline table, for a
// case-insensitive exact match on identifier or name. The GPON routing
// handle is taken exclusively from the offline table, whichever table
// supplied the rest of the record.
func (s *Service) lookup(ctx context.Context, query string) (*model.OnuRecord, error) {
	rows, err := s.fetchRows(ctx, s.adapter.TablePath())
	if err != nil {
		return nil, err
	}

	rec := matchRows(s.adapter, rows, query)
	if rec != nil {
		rec.Source = model.SourceLive
		rec.RoutingID = ""
	}

	if path := s.adapter.OfflineTablePath(); path != "" {
		offRows, err := s.fetchRows(ctx, path)
		if err != nil {
			s.log.Warn("offline table search failed", zap.Error(err))
		} else if off := matchRows(s.adapter, offRows, query); off != nil {
			if rec == nil {
				off.Source = model.SourceOffline
				rec = off
			} else {
				rec.RoutingID = off.RoutingID
			}
		}
	}

	if rec == nil {
		return nil, &NotFoundError{Query: query, IdentifierLabel: s.adapter.IdentifierLabel()}
	}
	return rec, nil
}

// matchRows matches on identifier over name when both would hit.
func matchRows(adapter family.Adapter, rows []model.Row, query string) *model.OnuRecord {
	q := strings.ToLower(strings.TrimSpace(query))
	var byName *model.OnuRecord
	for _, row := range rows {
		rec := adapter.ParseRow(row)
		if strings.ToLower(rec.Identifier) == q {
			return &rec
		}
		if byName == nil && strings.ToLower(rec.Name) == q {
			byName = &rec
		}
	}
	return byName
}

// enrich merges the family's detail calls into the record, last defined
// value winning. A failing detail call degrades output completeness but
// never aborts resolution.
func (s *Service) enrich(ctx context.Context, rec *model.OnuRecord) {
	for _, call := range s.adapter.DetailCalls(*rec) {
		env, err := s.api.Get(ctx, call.Path)
		if err != nil {
			s.log.Warn("detail call failed", zap.String("form", call.Name), zap.Error(err))
			continue
		}
		fields, err := env.Object()
		if err != nil {
			s.log.Warn("detail payload malformed", zap.String("form", call.Name), zap.Error(err))
			continue
		}
		rec.Merge(fields)
	}

	if p, ok := rec.Attrs.Power("receive_power", "rx_optical_power", "rx_power"); ok {
		rec.RxPower = &p
	}
}
