package bot

import (
	"fmt"
	"strings"

	"hsgq-olt-bot/model"
	"hsgq-olt-bot/onu"
)

var tierText = map[onu.Tier]string{
	onu.TierIndeterminate: "Tidak dapat menentukan kualitas sinyal",
	onu.TierExcellent:     "Hasil pengukuran SANGAT BAIK",
	onu.TierGood:          "Hasil pengukuran BAIK",
	onu.TierFair:          "Hasil pengukuran CUKUP",
	onu.TierPoor:          "Hasil pengukuran KURANG BAIK",
	onu.TierBad:           "Hasil pengukuran BURUK",
	onu.TierVeryBad:       "Hasil pengukuran Sangat BURUK",
}

var stateText = map[model.State]string{
	model.StateInitial: "Initial",
	model.StateOnline:  "Online",
	model.StateOffline: "Offline",
	model.StateUnknown: "Unknown",
}

var stateEmoji = map[model.State]string{
	model.StateInitial: "⚠️",
	model.StateOnline:  "✅",
	model.StateOffline: "❌",
	model.StateUnknown: "❓",
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatDetail renders one resolved record as the chat report.
func formatDetail(rec *model.OnuRecord, fam model.Family) string {
	if fam == model.FamilyGPON {
		if rec.Source == model.SourceOffline {
			return formatGponOffline(rec)
		}
		return formatGponDetail(rec)
	}
	return formatEponDetail(rec)
}

func formatGponOffline(rec *model.OnuRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ONU Name : %s\n", orDash(rec.Name))
	fmt.Fprintf(&b, "Description : %s\n", orDash(rec.Attrs.String("ont_description")))
	fmt.Fprintf(&b, "SN : %s\n", orDash(rec.Identifier))
	fmt.Fprintf(&b, "ONU Status : %s\n", stateText[rec.State])
	fmt.Fprintf(&b, "ONU RX Power : %s dBm\n", orDash(rec.Attrs.String("receive_power")))
	fmt.Fprintf(&b, "Start Time : %s\n", orDash(rec.Attrs.String("last_u_time")))
	fmt.Fprintf(&b, "Down Time : %s\n", orDash(rec.Attrs.String("last_d_time")))
	fmt.Fprintf(&b, "Down Cause : %s\n", orDash(rec.Attrs.String("last_d_cause")))
	b.WriteString("\nCatatan: Data dari offline table (device tidak aktif)\n")
	return b.String()
}

func formatGponDetail(rec *model.OnuRecord) string {
	attrs := rec.Attrs

	typ := orDash(attrs.String("equipmentid"))
	if v := attrs.String("ont_version"); v != "" {
		typ += fmt.Sprintf(" (Version ID : %s)", v)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ONT Name : %s\n", orDash(rec.Name))
	fmt.Fprintf(&b, "Description : %s\n", orDash(attrs.String("ont_description")))
	fmt.Fprintf(&b, "Tipe ONU : %s\n", typ)
	fmt.Fprintf(&b, "SN : %s\n", orDash(rec.Identifier))
	fmt.Fprintf(&b, "ONU Status : %s\n", stateText[rec.State])
	fmt.Fprintf(&b, "Profil : %s\n", orDash(attrs.String("lineprof_name")))
	fmt.Fprintf(&b, "Port : %s\n", rec.Port)
	if v := attrs.String("work_temperature", "temperature"); v != "" {
		fmt.Fprintf(&b, "ONU Temperature : %s\n", v)
	}
	if v := attrs.String("work_voltage"); v != "" {
		fmt.Fprintf(&b, "ONU Voltage : %s\n", v)
	}
	if v := attrs.String("transmit_power", "tx_power"); v != "" {
		fmt.Fprintf(&b, "ONU Tx Power : %s\n", v)
	}
	fmt.Fprintf(&b, "ONU RX Power : %s\n", orDash(attrs.String("receive_power", "rx_power")))
	fmt.Fprintf(&b, "Start Time : %s\n", orDash(attrs.String("last_u_time")))
	fmt.Fprintf(&b, "Down Time : %s\n", orDash(attrs.String("last_d_time")))
	fmt.Fprintf(&b, "Down Cause : %s\n", orDash(attrs.String("last_d_cause")))
	if v := onu.FormatUptime(attrs["uptime"]); v != "" {
		fmt.Fprintf(&b, "Uptime : %s\n", v)
	} else if v := onu.FormatUptime(attrs["running_time"]); v != "" {
		fmt.Fprintf(&b, "Uptime : %s\n", v)
	}
	fmt.Fprintf(&b, "\nKesimpulan : %s", tierText[onu.Classify(rec.RxPower)])
	return b.String()
}

func formatEponDetail(rec *model.OnuRecord) string {
	attrs := rec.Attrs

	typ := orDash(attrs.String("extmodel", "sn_model", "model", "model_id"))
	if v := attrs.String("vendor"); v != "" {
		typ = v + " " + typ
	}
	if v := attrs.String("software_ver", "fw_ver", "version", "soft_version", "software_version"); v != "" {
		typ += fmt.Sprintf(" (Version ID : %s)", v)
	}
	if v := attrs.String("hardware_ver"); v != "" {
		typ += " HW: " + v
	}

	var b strings.Builder
	fmt.Fprintf(&b, "ONU Name : %s\n", orDash(rec.Name))
	fmt.Fprintf(&b, "Description : %s\n", orDash(attrs.String("onu_desc", "description")))
	fmt.Fprintf(&b, "Tipe ONU : %s\n", typ)
	fmt.Fprintf(&b, "Mac : %s\n", orDash(rec.Identifier))
	fmt.Fprintf(&b, "Status : %s\n", stateText[rec.State])
	fmt.Fprintf(&b, "Port ID : %s\n", rec.Port)
	fmt.Fprintf(&b, "Distance : %s M\n", orDash(attrs.String("distance", "onu_distance")))
	if v := attrs.String("work_temprature", "temperature", "onu_temperature"); v != "" {
		fmt.Fprintf(&b, "ONU Temperature : %s\n", v)
	}
	if v := attrs.String("work_voltage", "voltage", "onu_voltage"); v != "" {
		fmt.Fprintf(&b, "ONU Voltage : %s\n", v)
	}
	if v := attrs.String("transmit_bias"); v != "" {
		fmt.Fprintf(&b, "Transmit Bias : %s\n", v)
	}
	if v := attrs.String("transmit_power", "tx_power", "tx_optical_power"); v != "" {
		fmt.Fprintf(&b, "ONU Tx Power : %s\n", v)
	}
	fmt.Fprintf(&b, "ONU RX Power : %s dBm\n", orDash(attrs.String("receive_power", "rx_optical_power", "rx_power")))
	if v := attrs.String("start_time", "last_up_time", "last_u_time"); v != "" {
		fmt.Fprintf(&b, "Start Time : %s\n", v)
	}
	fmt.Fprintf(&b, "Down Time : %s\n", orDash(attrs.String("down_time", "last_down_time", "last_d_time")))
	fmt.Fprintf(&b, "Down Cause : %s\n", orDash(attrs.String("down_cause", "last_down_cause", "last_d_cause")))
	if v := onu.FormatUptime(attrs["uptime"]); v != "" {
		fmt.Fprintf(&b, "Uptime : %s\n", v)
	} else if v := onu.FormatUptime(attrs["online_time"]); v != "" {
		fmt.Fprintf(&b, "Uptime : %s\n", v)
	}
	fmt.Fprintf(&b, "\nKesimpulan : %s", tierText[onu.Classify(rec.RxPower)])
	return b.String()
}

// formatList renders the /showall listing, chunked to stay well under the
// Telegram message size limit.
func formatList(records []model.OnuRecord) []string {
	const perMessage = 50
	var messages []string
	var b strings.Builder
	for i, rec := range records {
		fmt.Fprintf(&b, "%s %s - %s\n", stateEmoji[rec.State], orDash(rec.Identifier), orDash(rec.Name))
		if (i+1)%perMessage == 0 {
			messages = append(messages, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		messages = append(messages, b.String())
	}
	return messages
}

func formatSystemInfo(si *onu.SystemInfo, configured model.Family) string {
	orUnknown := func(s string) string {
		if s == "" {
			return "Unknown"
		}
		return s
	}

	family := "Unknown"
	if si.DetectedFamily != model.FamilyUnknown {
		family = string(si.DetectedFamily)
	}

	lines := []string{
		fmt.Sprintf("OLT System Info (%s)", family),
		"------------------------",
		"Vendor: " + orUnknown(si.Vendor),
		"Device Model: " + orUnknown(si.Model),
		"Firmware Version: " + orUnknown(si.Firmware),
		"MAC Address: " + orUnknown(si.MAC),
		"Serial Number: " + orUnknown(si.Serial),
		"Device Type: " + orUnknown(si.DeviceType),
		"PON Ports: " + orUnknown(si.PonPorts),
		"Current Time: " + orUnknown(si.CurrentTime),
		"Uptime: " + orUnknown(si.Uptime),
	}

	if si.DetectedFamily != model.FamilyUnknown && si.DetectedFamily != configured {
		lines = append(lines, "", "⚠️ WARNING: Configured OLT type does not match actual device!")
	}
	return strings.Join(lines, "\n")
}

func formatPonStatus(ports []onu.PortSummary, offline []onu.OfflineDevice, fam model.Family, portFilter *int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Info Jumlah & Status Onu (%s)\n", fam)

	if len(ports) == 0 && portFilter != nil {
		fmt.Fprintf(&b, "\nTidak ada PON port %d yang ditemukan.\n", *portFilter)
	}
	label := "PON"
	if fam == model.FamilyEPON {
		label = "EPON"
	}
	for _, p := range ports {
		fmt.Fprintf(&b, "    %s %d = online : %d, offline : %d\n", label, p.PortID, p.Online, p.Offline)
	}

	if len(offline) > 0 {
		b.WriteString("\nDevice Offline\n")
		for _, d := range offline {
			fmt.Fprintf(&b, "%s - %s\n", d.Identifier, d.Name)
		}
	} else if portFilter != nil {
		fmt.Fprintf(&b, "\nTidak ada device offline di PON port %d.\n", *portFilter)
	}
	return b.String()
}

func formatBadSignals(bad []onu.BadSignal) string {
	if len(bad) == 0 {
		return "Tidak ada ONU dengan redaman buruk. 👍"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Ditemukan %d ONU dengan redaman di bawah %.1f dBm:\n\n", len(bad), onu.ScanThreshold)
	for _, o := range bad {
		fmt.Fprintf(&b, "%s - %s : %.2f dBm\n", o.Identifier, o.Name, o.Power)
	}
	return b.String()
}
