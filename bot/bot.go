// Package bot wires the chat transport: command dispatch, whitelist
// enforcement and report formatting. All OLT work happens in the onu package.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"hsgq-olt-bot/collector"
	"hsgq-olt-bot/config"
	"hsgq-olt-bot/family"
	"hsgq-olt-bot/onu"
)

const helpText = `Perintah yang tersedia:
/onu <SN/MAC/nama> - detail ONU
/showall - daftar semua ONU
/pon [port] - jumlah & status ONU per PON port
/badsignal - daftar ONU dengan redaman buruk
/reboot <SN/MAC/nama> - reboot ONU
/rename <SN/MAC/nama> <nama baru> - ganti nama ONU
/olt - info sistem OLT
/password <password> - daftar sebagai pengguna`

type Bot struct {
	api       *tgbotapi.BotAPI
	onus      *onu.Service
	adapter   family.Adapter
	whitelist *Whitelist
	password  string
	log       *zap.Logger
}

func New(cfg config.Bot, svc *onu.Service, adapter family.Adapter, log *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("error connecting to telegram: %w", err)
	}
	log.Info("telegram bot authorized", zap.String("username", api.Self.UserName))

	return &Bot{
		api:       api,
		onus:      svc,
		adapter:   adapter,
		whitelist: NewWhitelist(cfg.AuthFile, log),
		password:  cfg.Password,
		log:       log,
	}, nil
}

// Run consumes updates until ctx is canceled. Updates are handled on
// independent goroutines; overlapping commands are not serialized here.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update := <-updates:
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}

	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}

	if msg.IsCommand() && msg.Command() == "password" {
		b.handlePassword(msg)
		return
	}

	if !b.whitelist.Allowed(msg.From.ID) {
		b.reply(msg.Chat.ID, "Anda belum terdaftar. Gunakan /password <password> untuk mendaftar.")
		return
	}

	if !msg.IsCommand() {
		// Bare text is treated as an identifier search.
		if q := strings.TrimSpace(msg.Text); q != "" {
			b.handleDetail(ctx, msg.Chat.ID, q)
		}
		return
	}

	args := strings.TrimSpace(msg.CommandArguments())
	switch msg.Command() {
	case "start":
		b.reply(msg.Chat.ID, "Selamat Datang! Ketik /help untuk informasi bantuan")
	case "help":
		b.reply(msg.Chat.ID, helpText)
	case "onu":
		if args == "" {
			b.reply(msg.Chat.ID, fmt.Sprintf("Mohon masukkan %s atau nama ONU. Contoh: /onu ABCD1234", b.adapter.IdentifierLabel()))
			return
		}
		b.handleDetail(ctx, msg.Chat.ID, args)
	case "showall":
		b.handleShowAll(ctx, msg.Chat.ID)
	case "pon":
		b.handlePon(ctx, msg.Chat.ID, args)
	case "olt":
		b.handleSystemInfo(ctx, msg.Chat.ID)
	case "badsignal":
		b.handleBadSignal(ctx, msg.Chat.ID)
	case "reboot":
		if args == "" {
			b.reply(msg.Chat.ID, fmt.Sprintf("⚠️ Mohon masukkan %s atau nama ONU. Contoh: /reboot ABCD1234", b.adapter.IdentifierLabel()))
			return
		}
		b.askConfirmation(msg.Chat.ID,
			fmt.Sprintf("⚠️ KONFIRMASI REBOOT\n\nAnda akan melakukan reboot pada:\n%s\n\nKlik tombol \"Reboot\" untuk melanjutkan.", args),
			"✅ Reboot", "reboot:"+args)
	case "rename":
		parts := strings.SplitN(args, " ", 2)
		if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
			b.reply(msg.Chat.ID, "Format: /rename <ONU> <nama baru>")
			return
		}
		newName := strings.TrimSpace(parts[1])
		b.askConfirmation(msg.Chat.ID,
			fmt.Sprintf("⚠️ KONFIRMASI RENAME\n\nAnda akan mengubah nama:\n%s -> %s\n\nKlik tombol \"Rename\" untuk melanjutkan.", parts[0], newName),
			"✅ Rename", "rename:"+parts[0]+":"+newName)
	default:
		b.reply(msg.Chat.ID, "Perintah tidak dikenal. Ketik /help untuk daftar perintah.")
	}
}

func (b *Bot) handlePassword(msg *tgbotapi.Message) {
	if strings.TrimSpace(msg.CommandArguments()) != b.password {
		b.reply(msg.Chat.ID, "Password salah.")
		return
	}
	added, err := b.whitelist.Add(msg.From.FirstName, msg.From.ID)
	if err != nil {
		b.log.Error("error saving auth", zap.Error(err))
		b.reply(msg.Chat.ID, "Terjadi kesalahan saat menyimpan data. Silahkan coba lagi.")
		return
	}
	if !added {
		b.reply(msg.Chat.ID, "Anda sudah terdaftar.")
		return
	}
	b.reply(msg.Chat.ID, "Berhasil! Anda sekarang dapat menggunakan bot ini. Ketik /help untuk bantuan.")
}

func (b *Bot) handleDetail(ctx context.Context, chatID int64, query string) {
	rec, err := b.onus.Resolve(ctx, query)
	if err != nil {
		collector.Commands.WithLabelValues("onu", "error").Inc()
		b.reply(chatID, b.describeError(err))
		return
	}
	collector.Commands.WithLabelValues("onu", "ok").Inc()
	b.reply(chatID, formatDetail(rec, b.adapter.Family()))
}

func (b *Bot) handleShowAll(ctx context.Context, chatID int64) {
	records, err := b.onus.List(ctx, nil)
	if err != nil {
		collector.Commands.WithLabelValues("showall", "error").Inc()
		b.reply(chatID, b.describeError(err))
		return
	}
	collector.Commands.WithLabelValues("showall", "ok").Inc()
	if len(records) == 0 {
		b.reply(chatID, "Tidak ada ONU yang ditemukan.")
		return
	}
	b.reply(chatID, fmt.Sprintf("Ditemukan %d ONU. Mengirim daftar...", len(records)))
	for _, text := range formatList(records) {
		b.reply(chatID, text)
	}
}

func (b *Bot) handlePon(ctx context.Context, chatID int64, args string) {
	var portFilter *int
	if args != "" {
		port, err := strconv.Atoi(args)
		if err != nil {
			b.reply(chatID, "Nomor PON port tidak valid. Contoh: /pon 1")
			return
		}
		portFilter = &port
	}

	ports, err := b.onus.PonStatus(ctx, portFilter)
	if err != nil {
		collector.Commands.WithLabelValues("pon", "error").Inc()
		b.reply(chatID, b.describeError(err))
		return
	}
	offline, err := b.onus.OfflineDevices(ctx, portFilter)
	if err != nil {
		b.log.Warn("offline device sweep failed", zap.Error(err))
	}
	collector.Commands.WithLabelValues("pon", "ok").Inc()
	b.reply(chatID, formatPonStatus(ports, offline, b.adapter.Family(), portFilter))
}

func (b *Bot) handleSystemInfo(ctx context.Context, chatID int64) {
	si, err := b.onus.SystemInfo(ctx)
	if err != nil {
		collector.Commands.WithLabelValues("olt", "error").Inc()
		b.reply(chatID, "Maaf, tidak dapat terhubung ke perangkat OLT untuk mengambil info sistem.")
		return
	}
	collector.Commands.WithLabelValues("olt", "ok").Inc()
	b.reply(chatID, formatSystemInfo(si, b.adapter.Family()))
}

func (b *Bot) handleBadSignal(ctx context.Context, chatID int64) {
	bad, err := b.onus.BadSignals(ctx)
	if err != nil {
		collector.Commands.WithLabelValues("badsignal", "error").Inc()
		b.reply(chatID, b.describeError(err))
		return
	}
	collector.Commands.WithLabelValues("badsignal", "ok").Inc()
	b.reply(chatID, formatBadSignals(bad))
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		b.log.Warn("callback ack failed", zap.Error(err))
	}
	if cb.Message == nil || !b.whitelist.Allowed(cb.From.ID) {
		return
	}
	chatID := cb.Message.Chat.ID
	messageID := cb.Message.MessageID

	switch {
	case cb.Data == "cancel":
		b.edit(chatID, messageID, "Perintah dibatalkan.")
	case strings.HasPrefix(cb.Data, "reboot:"):
		query := strings.TrimPrefix(cb.Data, "reboot:")
		b.edit(chatID, messageID, fmt.Sprintf("⏳ Sedang memproses reboot untuk %s...", query))
		b.edit(chatID, messageID, b.runReboot(ctx, query))
	case strings.HasPrefix(cb.Data, "rename:"):
		parts := strings.SplitN(strings.TrimPrefix(cb.Data, "rename:"), ":", 2)
		if len(parts) != 2 {
			return
		}
		b.edit(chatID, messageID, fmt.Sprintf("⏳ Sedang memproses rename untuk %s...", parts[0]))
		b.edit(chatID, messageID, b.runRename(ctx, parts[0], parts[1]))
	}
}

func (b *Bot) runReboot(ctx context.Context, query string) string {
	out, err := b.onus.Reboot(ctx, query)
	if err != nil {
		collector.Commands.WithLabelValues("reboot", "error").Inc()
		return b.describeError(err)
	}
	if !out.Success {
		collector.Commands.WithLabelValues("reboot", "reported").Inc()
		return fmt.Sprintf("❌ Gagal melakukan reboot ONU %s.\nPesan: %s", out.Device.Name, out.Reported)
	}
	collector.Commands.WithLabelValues("reboot", "ok").Inc()
	return fmt.Sprintf("✅ Perintah reboot berhasil dikirim ke ONU %s\n%s: %s\nONU akan reboot dalam beberapa saat.",
		out.Device.Name, b.adapter.IdentifierLabel(), orDash(out.Device.Identifier))
}

func (b *Bot) runRename(ctx context.Context, query string, newName string) string {
	out, err := b.onus.Rename(ctx, query, newName)
	if err != nil {
		collector.Commands.WithLabelValues("rename", "error").Inc()
		return b.describeError(err)
	}
	if !out.Success {
		collector.Commands.WithLabelValues("rename", "reported").Inc()
		return fmt.Sprintf("❌ Gagal mengubah nama ONU %s.\nPesan: %s", out.Device.Name, out.Reported)
	}
	collector.Commands.WithLabelValues("rename", "ok").Inc()

	text := fmt.Sprintf("✅ Berhasil mengubah nama ONU dari %q menjadi %q\n%s: %s",
		out.Device.Name, newName, b.adapter.IdentifierLabel(), orDash(out.Device.Identifier))
	if out.SaveWarning != "" {
		text += "\n\n⚠️ Peringatan: " + out.SaveWarning
	} else {
		text += "\n\nKonfigurasi berhasil disimpan."
	}
	return text
}

// describeError turns the error taxonomy into user-facing text. Every
// failure produces a reply, never a silent drop.
func (b *Bot) describeError(err error) string {
	var notFound *onu.NotFoundError
	switch {
	case errors.As(err, &notFound):
		return fmt.Sprintf("Maaf, ONU %q tidak ditemukan.\nGunakan %s atau nama ONU untuk pencarian.",
			notFound.Query, notFound.IdentifierLabel)
	case errors.Is(err, family.ErrNoRoutingID):
		return "❌ Identifier ONU tidak ditemukan di tabel offline. Perintah tidak dikirim ke OLT."
	default:
		b.log.Error("command failed", zap.Error(err))
		return "❌ Tidak dapat terhubung ke perangkat OLT. Silahkan coba lagi nanti."
	}
}

func (b *Bot) askConfirmation(chatID int64, text string, confirmLabel string, callbackData string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(confirmLabel, callbackData),
			tgbotapi.NewInlineKeyboardButtonData("❌ Batal", "cancel"),
		),
	)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Warn("send failed", zap.Error(err))
	}
}

func (b *Bot) reply(chatID int64, text string) {
	if _, err := b.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.log.Warn("send failed", zap.Error(err))
	}
}

func (b *Bot) edit(chatID int64, messageID int, text string) {
	if _, err := b.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text)); err != nil {
		b.log.Warn("edit failed", zap.Error(err))
	}
}
