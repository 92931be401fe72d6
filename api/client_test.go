package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"hsgq-olt-bot/config"
)

// fakeOLT mimics the HSGQ login flow: the token is only ever issued in the
// X-Token response header.
type fakeOLT struct {
	mu         sync.Mutex
	logins     int
	dataCalls  int
	issueToken bool
	onData     func(call int, w http.ResponseWriter, r *http.Request)
}

func (f *fakeOLT) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/userlogin") {
			f.mu.Lock()
			f.logins++
			n := f.logins
			f.mu.Unlock()
			if f.issueToken {
				w.Header().Set("X-Token", fmt.Sprintf("token-%d", n))
			}
			fmt.Fprint(w, `{"code":1,"message":"Success"}`)
			return
		}
		f.mu.Lock()
		f.dataCalls++
		n := f.dataCalls
		f.mu.Unlock()
		f.onData(n, w, r)
	})
}

func (f *fakeOLT) loginCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logins
}

func (f *fakeOLT) dataCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dataCalls
}

func newTestConfig(t *testing.T, address string) *config.SafeConfig {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	content := fmt.Sprintf("olt:\n  address: %s\n  family: gpon\n  username: admin\n  password: secret\n", address)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	sc := config.New(path)
	require.NoError(t, sc.LoadConfig())
	return &sc
}

func newTestStack(t *testing.T, olt *fakeOLT) (*Client, *Session) {
	t.Helper()
	server := httptest.NewServer(olt.handler())
	t.Cleanup(server.Close)

	sc := newTestConfig(t, server.URL)
	log := zaptest.NewLogger(t)
	session := NewSession(sc, server.Client(), log)
	return New(sc, server.Client(), session, log), session
}

func okData(call int, w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, `{"code":1,"message":"Success","data":[]}`)
}

func TestTokenReusedWithinTTL(t *testing.T) {
	olt := &fakeOLT{issueToken: true, onData: okData}
	client, _ := newTestStack(t, olt)

	_, err := client.Get(context.Background(), "/onutable")
	require.NoError(t, err)
	_, err = client.Get(context.Background(), "/onutable")
	require.NoError(t, err)

	assert.Equal(t, 1, olt.loginCount(), "second call within the TTL must reuse the token")
}

func TestExpiredTokenTriggersRelogin(t *testing.T) {
	olt := &fakeOLT{issueToken: true, onData: okData}
	client, session := newTestStack(t, olt)

	_, err := client.Get(context.Background(), "/onutable")
	require.NoError(t, err)

	// move past the 30 minute client-side TTL
	session.now = func() time.Time { return time.Now().Add(31 * time.Minute) }

	_, err = client.Get(context.Background(), "/onutable")
	require.NoError(t, err)
	assert.Equal(t, 2, olt.loginCount())
}

func TestInvalidateForcesRelogin(t *testing.T) {
	olt := &fakeOLT{issueToken: true, onData: okData}
	_, session := newTestStack(t, olt)

	_, err := session.Token(context.Background())
	require.NoError(t, err)
	session.Invalidate()
	_, err = session.Token(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, olt.loginCount())
}

func TestTokenRejectionRetriedTransparently(t *testing.T) {
	olt := &fakeOLT{issueToken: true}
	olt.onData = func(call int, w http.ResponseWriter, r *http.Request) {
		if call == 1 {
			fmt.Fprint(w, `{"code":0,"message":"Token Check Failed"}`)
			return
		}
		assert.Equal(t, "token-2", r.Header.Get("X-Token"), "retry must carry the fresh token")
		fmt.Fprint(w, `{"code":1,"message":"Success","data":{"ok":true}}`)
	}
	client, _ := newTestStack(t, olt)

	env, err := client.Get(context.Background(), "/onutable")
	require.NoError(t, err)
	assert.Equal(t, 1, env.Code, "caller must see the second attempt's result")
	assert.Equal(t, 2, olt.dataCount())
	assert.Equal(t, 2, olt.loginCount())
}

func TestTokenRejectionExhaustsRetries(t *testing.T) {
	olt := &fakeOLT{issueToken: true}
	olt.onData = func(call int, w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":0,"message":"Token Check Failed"}`)
	}
	client, _ := newTestStack(t, olt)

	_, err := client.Get(context.Background(), "/onutable")
	var failed *CallFailedError
	require.ErrorAs(t, err, &failed)
	assert.ErrorIs(t, err, ErrTokenRejected)
	assert.Equal(t, 2, olt.dataCount(), "no third attempt")
}

func TestTransportFaultsExhaustRetries(t *testing.T) {
	olt := &fakeOLT{issueToken: true}
	olt.onData = func(call int, w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}
	client, _ := newTestStack(t, olt)

	_, err := client.Get(context.Background(), "/onutable")
	var failed *CallFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, 2, olt.dataCount(), "no third attempt")
}

func TestLoginWithoutTokenHeader(t *testing.T) {
	olt := &fakeOLT{issueToken: false, onData: okData}
	client, _ := newTestStack(t, olt)

	_, err := client.Get(context.Background(), "/onutable")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.ErrorIs(t, err, ErrNoToken)
	assert.Equal(t, 0, olt.dataCount(), "guarded call must not run without a token")
}

func TestPostSendsMutationBody(t *testing.T) {
	olt := &fakeOLT{issueToken: true}
	var body string
	olt.onData = func(call int, w http.ResponseWriter, r *http.Request) {
		raw := make([]byte, r.ContentLength)
		r.Body.Read(raw)
		body = string(raw)
		fmt.Fprint(w, `{"code":1,"message":"Success"}`)
	}
	client, _ := newTestStack(t, olt)

	_, err := client.Post(context.Background(), "/system_save", map[string]string{"method": "set"})
	require.NoError(t, err)
	assert.Contains(t, body, `"method":"set"`)
}
