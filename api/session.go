package api

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"hsgq-olt-bot/collector"
	"hsgq-olt-bot/config"
	"hsgq-olt-bot/model"
)

const loginPath = "/userlogin?form=login"

// Session holds the single process-wide OLT login token. All chat requests
// share it; a stale token is caught by the retry path in Client, so reads
// tolerate staleness.
type Session struct {
	sc   *config.SafeConfig
	http *http.Client
	log  *zap.Logger
	now  func() time.Time

	mutex     sync.Mutex
	token     string
	expiresAt time.Time
}

func NewSession(sc *config.SafeConfig, httpClient *http.Client, log *zap.Logger) *Session {
	return &Session{
		sc:   sc,
		http: httpClient,
		log:  log,
		now:  time.Now,
	}
}

// Token returns the held token when it is still within its TTL, otherwise it
// performs a fresh login exchange first.
func (s *Session) Token(ctx context.Context) (string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.token != "" && s.now().Before(s.expiresAt) {
		return s.token, nil
	}

	device := s.sc.Get().OLT
	token, err := s.login(ctx, device)
	if err != nil {
		return "", &AuthError{Err: err}
	}

	s.token = token
	s.expiresAt = s.now().Add(time.Duration(device.TokenTTL * float64(time.Second)))
	return token, nil
}

// Invalidate clears the held token so the next call re-authenticates.
func (s *Session) Invalidate() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.token = ""
}

func (s *Session) login(ctx context.Context, device config.Device) (string, error) {
	s.log.Info("obtaining new authentication token")

	sum := md5.Sum([]byte(device.Username + ":" + device.Password))
	param := model.LoginParam{
		Name:  device.Username,
		Key:   hex.EncodeToString(sum[:]),
		Value: base64.StdEncoding.EncodeToString([]byte(device.Password)),
	}

	body, err := json.Marshal(model.Request{Method: "set", Param: param})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, device.Address+loginPath, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := s.http.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()
	io.Copy(io.Discard, res.Body)

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login returned status %d", res.StatusCode)
	}

	// The token is only ever delivered in a response header, not the body.
	token := res.Header.Get("X-Token")
	if token == "" {
		return "", ErrNoToken
	}

	collector.Logins.Inc()
	s.log.Debug("token acquired")
	return token, nil
}
