package bot

import (
	"encoding/json"
	"errors"
	"os"
	"sync"

	"go.uber.org/zap"
)

// Contact is one whitelisted chat user. The field names keep the on-disk
// format of earlier deployments.
type Contact struct {
	Name       string `json:"nama"`
	TelegramID int64  `json:"telegramId"`
}

// Whitelist is the flat-file store of chat users allowed to talk to the bot.
// A corrupt or missing file is recreated empty rather than failing.
type Whitelist struct {
	path  string
	log   *zap.Logger
	mutex sync.Mutex
}

func NewWhitelist(path string, log *zap.Logger) *Whitelist {
	w := &Whitelist{path: path, log: log}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := w.write(nil); err != nil {
			log.Warn("could not initialize auth file", zap.Error(err))
		}
	}
	return w
}

// Allowed reports whether the user may issue commands.
func (w *Whitelist) Allowed(id int64) bool {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	for _, c := range w.load() {
		if c.TelegramID == id {
			return true
		}
	}
	return false
}

// Add enrolls a user. It returns false when the user was already present.
func (w *Whitelist) Add(name string, id int64) (bool, error) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	contacts := w.load()
	for _, c := range contacts {
		if c.TelegramID == id {
			return false, nil
		}
	}

	contacts = append(contacts, Contact{Name: name, TelegramID: id})
	if err := w.write(contacts); err != nil {
		return false, err
	}
	w.log.Info("user enrolled", zap.String("name", name), zap.Int64("telegram_id", id))
	return true, nil
}

func (w *Whitelist) load() []Contact {
	data, err := os.ReadFile(w.path)
	if err != nil {
		w.log.Warn("error loading auth file", zap.Error(err))
		w.write(nil)
		return nil
	}

	var contacts []Contact
	if err := json.Unmarshal(data, &contacts); err != nil {
		w.log.Warn("auth file corrupt, recreating", zap.Error(err))
		w.write(nil)
		return nil
	}
	return contacts
}

func (w *Whitelist) write(contacts []Contact) error {
	if contacts == nil {
		contacts = []Contact{}
	}
	data, err := json.MarshalIndent(contacts, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(w.path, data, 0o644)
}
