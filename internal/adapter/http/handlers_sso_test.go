package adapthttp_test

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	adapthttp "storefront/internal/adapter/http"
	"storefront/internal/app"
	"storefront/internal/domain"
)

const (
	testIssuer   = "https://issuer.example"
	testClientID = "storefront"
)

// fakeProvider serves the token endpoint of an OIDC provider and signs ID
// tokens with a throwaway RSA key.
type fakeProvider struct {
	key    *rsa.PrivateKey
	claims map[string]any
	fail   bool
	server *httptest.Server
}

func newFakeProvider(t *testing.T, claims map[string]any) *fakeProvider {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	p := &fakeProvider{key: key, claims: claims}
	p.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p.fail {
			http.Error(w, "nope", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "access",
			"token_type":   "Bearer",
			"expires_in":   3600,
			"id_token":     p.sign(t),
		})
	}))
	t.Cleanup(p.server.Close)
	return p
}

func (p *fakeProvider) sign(t *testing.T) string {
	t.Helper()
	claims := map[string]any{
		"iss": testIssuer,
		"aud": testClientID,
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	for k, v := range p.claims {
		claims[k] = v
	}
	header, err := json.Marshal(map[string]string{"alg": "RS256", "typ": "JWT"})
	require.NoError(t, err)
	payload, err := json.Marshal(claims)
	require.NoError(t, err)

	signingInput := base64.RawURLEncoding.EncodeToString(header) + "." + base64.RawURLEncoding.EncodeToString(payload)
	digest := sha256.Sum256([]byte(signingInput))
	sig, err := rsa.SignPKCS1v15(rand.Reader, p.key, crypto.SHA256, digest[:])
	require.NoError(t, err)
	return signingInput + "." + base64.RawURLEncoding.EncodeToString(sig)
}

func (p *fakeProvider) sso() *adapthttp.SSO {
	keys := &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{p.key.Public()}}
	return &adapthttp.SSO{
		OAuth2: oauth2.Config{
			ClientID:     testClientID,
			ClientSecret: "secret",
			RedirectURL:  "http://storefront.example/auth/sso/callback",
			Endpoint: oauth2.Endpoint{
				AuthURL:  p.server.URL + "/authorize",
				TokenURL: p.server.URL + "/token",
			},
			Scopes: []string{oidc.ScopeOpenID, "email"},
		},
		Verifier: oidc.NewVerifier(testIssuer, keys, &oidc.Config{ClientID: testClientID}),
	}
}

// startSSO follows /auth/sso/login and returns the state it handed out.
func startSSO(t *testing.T, env *testEnv, c *http.Client) string {
	t.Helper()
	resp := env.do(t, c, http.MethodGet, "/auth/sso/login", nil)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	loc, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/authorize", loc.Path)
	assert.Equal(t, testClientID, loc.Query().Get("client_id"))
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)
	return state
}

func TestSSODisabled(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	for _, path := range []string{"/auth/sso/login", "/auth/sso/callback"} {
		resp := env.do(t, newClient(t), http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	}
}

// finishSSO runs a full login round trip and returns the callback response.
func finishSSO(t *testing.T, env *testEnv, c *http.Client) *http.Response {
	t.Helper()
	state := startSSO(t, env, c)
	return env.do(t, c, http.MethodGet, "/auth/sso/callback?code=abc&state="+url.QueryEscape(state), nil)
}

func TestSSOLoginProvisionsUser(t *testing.T) {
	provider := newFakeProvider(t, map[string]any{"sub": "u-1", "email": "alice@example.com"})
	env := newTestEnv(t, envOptions{sso: provider.sso()})
	c := newClient(t)

	resp := finishSSO(t, env, c)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	username := app.SSOUsername(testIssuer, "u-1")
	user, err := env.db.GetByUsername(context.Background(), username)
	require.NoError(t, err)
	assert.Empty(t, user.PasswordHash)

	_, err = env.db.GetByUsername(context.Background(), "alice@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	resp = env.do(t, c, http.MethodGet, "/cart", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// A second SSO login reuses the same account.
	resp = finishSSO(t, env, c)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	again, err := env.db.GetByUsername(context.Background(), username)
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	// SSO accounts have no usable password.
	resp = env.do(t, newClient(t), http.MethodPost, "/login", map[string]any{"username": username, "password": "x"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSSOIsNotLinkedToRegisteredEmail(t *testing.T) {
	provider := newFakeProvider(t, map[string]any{"sub": "victim-sub", "email": "victim@corp.example"})
	env := newTestEnv(t, envOptions{sso: provider.sso()})
	env.addItems(t, 1, 10)

	squatter := env.loggedInClient(t, "victim@corp.example")
	resp := env.do(t, squatter, http.MethodPost, "/cart?inventoryId=1", map[string]any{"quantity": 1})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	local, err := env.db.GetByUsername(context.Background(), "victim@corp.example")
	require.NoError(t, err)

	victim := newClient(t)
	resp = finishSSO(t, env, victim)
	require.Equal(t, http.StatusFound, resp.StatusCode)

	assert.Empty(t, env.cart(t, victim).Lines)
	resp = env.do(t, victim, http.MethodPost, "/cart?inventoryId=1", map[string]any{"quantity": 2})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	lines := env.cart(t, victim).Lines
	require.Len(t, lines, 1)
	assert.NotEqual(t, local.ID, lines[0].UserID)

	// The password account still only sees its own line.
	lines = env.cart(t, squatter).Lines
	require.Len(t, lines, 1)
	assert.Equal(t, 1, lines[0].Quantity)
}

func TestSSONamespaceIsReserved(t *testing.T) {
	provider := newFakeProvider(t, map[string]any{"sub": "u-7"})
	env := newTestEnv(t, envOptions{sso: provider.sso()})
	username := app.SSOUsername(testIssuer, "u-7")

	resp := env.do(t, newClient(t), http.MethodPost, "/user", map[string]any{"username": username, "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, adapthttp.ErrMsgReservedUsername, readBody(t, resp))
	_, err := env.db.GetByUsername(context.Background(), username)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSSORefusesAccountWithPassword(t *testing.T) {
	provider := newFakeProvider(t, map[string]any{"sub": "u-8"})
	env := newTestEnv(t, envOptions{sso: provider.sso()})
	_, err := env.db.Create(context.Background(), app.SSOUsername(testIssuer, "u-8"), "$2a$10$somehash")
	require.NoError(t, err)

	resp := finishSSO(t, env, newClient(t))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, adapthttp.ErrMsgSSOAccountConflict, readBody(t, resp))
	assert.Zero(t, env.store.Len())
}

func TestSSOCallbackRejectsBadState(t *testing.T) {
	provider := newFakeProvider(t, map[string]any{"sub": "u-1"})
	env := newTestEnv(t, envOptions{sso: provider.sso()})
	c := newClient(t)

	resp := env.do(t, c, http.MethodGet, "/auth/sso/callback?code=abc&state=forged", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	startSSO(t, env, c)
	resp = env.do(t, c, http.MethodGet, "/auth/sso/callback?code=abc&state=forged", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, env.store.Len())
}

func TestSSOCallbackExchangeFailure(t *testing.T) {
	provider := newFakeProvider(t, map[string]any{"sub": "u-1"})
	provider.fail = true
	env := newTestEnv(t, envOptions{sso: provider.sso()})
	c := newClient(t)

	state := startSSO(t, env, c)
	resp := env.do(t, c, http.MethodGet, "/auth/sso/callback?code=abc&state="+url.QueryEscape(state), nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Zero(t, env.store.Len())
}
