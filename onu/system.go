package onu

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"hsgq-olt-bot/model"
)

// SystemInfo summarizes the OLT head-end itself.
type SystemInfo struct {
	Vendor      string
	Model       string
	Firmware    string
	MAC         string
	Serial      string
	DeviceType  string
	PonPorts    string
	CurrentTime string
	Uptime      string
	// DetectedFamily is what the device reports about itself; it may
	// disagree with the configured family.
	DetectedFamily model.Family
}

// SystemInfo reads the board and time endpoints. The time call is
// best-effort; some firmware builds answer it with garbage.
func (s *Service) SystemInfo(ctx context.Context) (*SystemInfo, error) {
	env, err := s.api.Get(ctx, "/board?info=system")
	if err != nil {
		return nil, err
	}
	info, err := env.Object()
	if err != nil {
		return nil, err
	}

	si := &SystemInfo{
		Vendor:         info.String("vendor"),
		Model:          info.String("product_name", "device_model"),
		Firmware:       info.String("fw_ver"),
		MAC:            info.String("macaddr", "mac"),
		Serial:         info.String("sn", "serial_no"),
		PonPorts:       info.String("ponports"),
		DetectedFamily: detectFamily(info),
	}

	switch info.String("device_type") {
	case "1":
		si.DeviceType = "EPON"
	case "2":
		si.DeviceType = "GPON"
	default:
		si.DeviceType = info.String("device_type")
	}

	if timeEnv, err := s.api.Get(ctx, "/time?form=info"); err != nil {
		s.log.Warn("time info read failed", zap.Error(err))
	} else if td, err := timeEnv.Object(); err == nil && td != nil {
		si.CurrentTime = formatTimeNow(td["time_now"])
		si.Uptime = FormatUptime(td["uptime"])
	}

	if si.Uptime == "" {
		for _, key := range []string{"uptime", "runtime", "running_time", "up_time"} {
			if v, ok := info[key]; ok {
				si.Uptime = FormatUptime(v)
				break
			}
		}
	}

	return si, nil
}

// PortSummary is one PON port's device counts.
type PortSummary struct {
	PortID  int
	Online  int
	Offline int
}

// PonStatus reads the per-port summary, optionally filtered to one port.
func (s *Service) PonStatus(ctx context.Context, portFilter *int) ([]PortSummary, error) {
	rows, err := s.fetchRows(ctx, "/board?info=pon")
	if err != nil {
		return nil, err
	}

	var ports []PortSummary
	for _, row := range rows {
		id, ok := row.Int("port_id")
		if !ok {
			continue
		}
		if portFilter != nil && id != *portFilter {
			continue
		}
		p := PortSummary{PortID: id}
		p.Online, _ = row.Int("online")
		p.Offline, _ = row.Int("offline")
		ports = append(ports, p)
	}
	return ports, nil
}

// OfflineDevice is one entry of the offline-device sweep.
type OfflineDevice struct {
	Identifier string
	Name       string
}

// OfflineDevices lists devices currently not online: for GPON the offline and
// initial entries of the offline/auth table, for EPON the non-online rows of
// the primary table.
func (s *Service) OfflineDevices(ctx context.Context, portFilter *int) ([]OfflineDevice, error) {
	path := s.adapter.OfflineTablePath()
	source := model.SourceOffline
	if path == "" {
		path = s.adapter.TablePath()
		source = model.SourceLive
	}

	rows, err := s.fetchRows(ctx, path)
	if err != nil {
		return nil, err
	}

	var out []OfflineDevice
	for _, rec := range s.parseRows(rows, portFilter, source) {
		if rec.State == model.StateOnline {
			continue
		}
		if source == model.SourceLive && rec.State == model.StateUnknown {
			continue
		}
		name := rec.Name
		if name == "" {
			name = "Unknown"
		}
		id := rec.Identifier
		if id == "" {
			id = "Unknown"
		}
		out = append(out, OfflineDevice{Identifier: id, Name: name})
	}
	return out, nil
}

// SaveConfig persists the running configuration to flash.
func (s *Service) SaveConfig(ctx context.Context) error {
	env, err := s.api.Get(ctx, "/system_save")
	if err != nil {
		return err
	}
	if !env.Success() {
		return fmt.Errorf("olt refused to save configuration: %s", reportedMessage(env))
	}
	return nil
}

func detectFamily(info model.Row) model.Family {
	text := strings.ToLower(info.String("product_name", "device_model") + " " +
		info.String("vendor") + " " +
		info.String("sys_ver", "software_version") + " " +
		info.String("device_type"))
	if strings.Contains(text, "epon") {
		return model.FamilyEPON
	}
	if strings.Contains(text, "gpon") {
		return model.FamilyGPON
	}
	switch info.String("device_type") {
	case "1":
		return model.FamilyEPON
	case "2":
		return model.FamilyGPON
	}
	return model.FamilyUnknown
}

// formatTimeNow renders the firmware's [year, month, day, hour, minute,
// second] array.
func formatTimeNow(v any) string {
	parts, ok := v.([]any)
	if !ok || len(parts) < 6 {
		return ""
	}
	nums := make([]int, 6)
	for i := 0; i < 6; i++ {
		f, ok := parts[i].(float64)
		if !ok {
			return ""
		}
		nums[i] = int(f)
	}
	return fmt.Sprintf("%d-%02d-%02d %02d:%02d:%02d", nums[0], nums[1], nums[2], nums[3], nums[4], nums[5])
}

// FormatUptime renders the several uptime shapes the firmware emits: a
// [days, hours, minutes, seconds] array, the same as a comma-separated
// string, an "hh:mm:ss" string, plain seconds, or already-formatted text.
func FormatUptime(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []any:
		if len(t) != 4 {
			return ""
		}
		nums := make([]int, 4)
		for i, p := range t {
			f, ok := p.(float64)
			if !ok {
				return ""
			}
			nums[i] = int(f)
		}
		return uptimeText(nums[0], nums[1], nums[2], nums[3])
	case float64:
		return uptimeFromSeconds(int(t))
	case string:
		return formatUptimeString(t)
	}
	return ""
}

func formatUptimeString(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return ""
	}

	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		if len(parts) == 4 {
			nums := make([]int, 4)
			ok := true
			for i, p := range parts {
				n, err := strconv.Atoi(strings.TrimSpace(p))
				if err != nil {
					ok = false
					break
				}
				nums[i] = n
			}
			if ok {
				return uptimeText(nums[0], nums[1], nums[2], nums[3])
			}
		}
	}

	if strings.Contains(s, "day") || strings.Contains(s, "hour") ||
		strings.Contains(s, "minute") || strings.Contains(s, "second") {
		return strings.NewReplacer("minutes", "mins", "seconds", "secs").Replace(s)
	}

	if parts := strings.Split(s, ":"); len(parts) == 3 {
		h, err1 := strconv.Atoi(parts[0])
		m, err2 := strconv.Atoi(parts[1])
		sec, err3 := strconv.Atoi(parts[2])
		if err1 == nil && err2 == nil && err3 == nil {
			return uptimeText(0, h, m, sec)
		}
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return uptimeFromSeconds(int(f))
	}
	return s
}

func uptimeFromSeconds(seconds int) string {
	return uptimeText(seconds/86400, seconds%86400/3600, seconds%3600/60, seconds%60)
}

func uptimeText(days, hours, mins, secs int) string {
	return fmt.Sprintf("%d days %d hours %d mins %d secs", days, hours, mins, secs)
}
