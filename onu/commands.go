package onu

import (
	"context"

	"go.uber.org/zap"

	"hsgq-olt-bot/model"
)

// Outcome describes the result of a mutating command that reached the OLT.
// Reported is set when the OLT acknowledged the call but signaled failure in
// its payload; that is distinct from not reaching the OLT at all, which
// surfaces as an error instead.
type Outcome struct {
	Success bool
	Device  model.OnuRecord
	// Reported carries the OLT's own failure message.
	Reported string
	// SaveWarning is set when the command itself succeeded but the
	// follow-up config save did not.
	SaveWarning string
}

// Reboot resolves the device identity and issues the family's reboot call.
func (s *Service) Reboot(ctx context.Context, query string) (*Outcome, error) {
	rec, err := s.lookup(ctx, query)
	if err != nil {
		return nil, err
	}

	param, err := s.adapter.RebootParam(*rec)
	if err != nil {
		return nil, err
	}

	s.log.Info("sending reboot",
		zap.String("identifier", rec.Identifier),
		zap.String("port", rec.Port.String()))

	env, err := s.api.Post(ctx, s.adapter.MutationPath(), model.Request{Method: "set", Param: param})
	if err != nil {
		return nil, err
	}

	out := &Outcome{Device: *rec}
	if env.Success() {
		out.Success = true
	} else {
		out.Reported = reportedMessage(env)
	}
	return out, nil
}

// Rename resolves the device identity, issues the family's rename call and,
// on success, persists the configuration. A failing save degrades to a
// warning on a successful outcome.
func (s *Service) Rename(ctx context.Context, query string, newName string) (*Outcome, error) {
	rec, err := s.lookup(ctx, query)
	if err != nil {
		return nil, err
	}

	param, err := s.adapter.RenameParam(*rec, newName)
	if err != nil {
		return nil, err
	}

	s.log.Info("sending rename",
		zap.String("identifier", rec.Identifier),
		zap.String("new_name", newName))

	env, err := s.api.Post(ctx, s.adapter.MutationPath(), model.Request{Method: "set", Param: param})
	if err != nil {
		return nil, err
	}

	out := &Outcome{Device: *rec}
	if !env.Success() {
		out.Reported = reportedMessage(env)
		return out, nil
	}
	out.Success = true

	if err := s.SaveConfig(ctx); err != nil {
		s.log.Warn("config save after rename failed", zap.Error(err))
		out.SaveWarning = err.Error()
	}
	return out, nil
}

func reportedMessage(env *model.Envelope) string {
	if env.Message != "" {
		return env.Message
	}
	return "Unknown error"
}
