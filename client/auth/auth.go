package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/granddizzy/orders/client"
	"github.com/granddizzy/orders/client/auth/store"
	"github.com/granddizzy/orders/client/auth/transport"
	"github.com/granddizzy/orders/internal/collection"
	"github.com/granddizzy/orders/schema"
	"golang.org/x/oauth2"
)

var (
	// ErrNotAuthenticated is returned when no session is held.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrSessionExpired is returned when the held token is past its expiry.
	ErrSessionExpired = errors.New("session expired")
	// ErrDetached is returned when an API call is attempted before Attach.
	ErrDetached = errors.New("auth manager is not attached to a client")
)

// Session is the authenticated identity held by the client.
type Session struct {
	Token *oauth2.Token
	User  *schema.UserProfile
}

// Valid returns true if the session carries an unexpired token.
func (s *Session) Valid() bool {
	return s != nil && s.Token != nil && s.Token.Valid()
}

// Listener is notified with the new session (nil after logout).
type Listener func(session *Session)

// Manager owns the session slice.
type Manager struct {
	mu          sync.RWMutex
	session     *Session
	store       store.Store
	key         string
	client      *client.Client
	listeners   *collection.SyncMap[uuid.UUID, Listener]
	unsubscribe func()
}

type Option func(m *Manager)

// WithStore sets the session store
func WithStore(s store.Store) Option {
	return func(m *Manager) {
		m.store = s
	}
}

// WithKey sets the key the session is persisted under
func WithKey(key string) Option {
	return func(m *Manager) {
		m.key = key
	}
}

// New creates a session manager; without WithStore the session is memory only.
func New(options ...Option) *Manager {
	ret := &Manager{
		store:     store.NewMemoryStore(),
		key:       store.DefaultKey,
		listeners: collection.NewSyncMap[uuid.UUID, Listener](),
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Attach binds the manager to the API client and subscribes to its 401 events.
func (m *Manager) Attach(cli *client.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	m.client = cli
	m.unsubscribe = cli.Events().Subscribe(m.onSessionExpired)
}

// Close detaches the manager from the client events.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

// Token implements oauth2.TokenSource.
func (m *Manager) Token() (*oauth2.Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil || m.session.Token == nil {
		return nil, ErrNotAuthenticated
	}
	if !m.session.Token.Valid() {
		return nil, ErrSessionExpired
	}
	return m.session.Token, nil
}

// Session returns the current session or nil.
func (m *Manager) Session() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return nil
	}
	ret := *m.session
	return &ret
}

// Authenticated returns true when a valid session is held.
func (m *Manager) Authenticated() bool {
	return m.Session().Valid()
}

// Subscribe registers listener for session changes.
func (m *Manager) Subscribe(listener Listener) func() {
	id := uuid.New()
	m.listeners.Put(id, listener)
	return func() {
		m.listeners.Delete(id)
	}
}

// Restore loads the persisted session; expired sessions are discarded.
func (m *Manager) Restore(ctx context.Context) error {
	persisted, err := m.store.Load(ctx, m.key)
	if err != nil {
		return err
	}
	if persisted == nil || persisted.Token == nil {
		return nil
	}
	if !persisted.Token.Valid() {
		glog.Infof("[auth] discarding expired session for %v\n", userEmail(persisted.User))
		return m.store.Clear(ctx, m.key)
	}
	m.set(&Session{Token: persisted.Token, User: persisted.User})
	return nil
}

// Login exchanges credentials for a token and persists the session.
func (m *Manager) Login(ctx context.Context, credentials schema.Credentials) (*Session, error) {
	credentials.Email = strings.TrimSpace(credentials.Email)
	if err := validateEmail(credentials.Email); err != nil {
		return nil, err
	}
	if credentials.Password == "" {
		return nil, &client.ValidationError{Field: "password", Msg: "is required"}
	}
	cli, err := m.attached()
	if err != nil {
		return nil, err
	}
	result, err := client.Post[schema.LoginResult](ctx, cli, "login", &credentials)
	if err != nil {
		return nil, err
	}
	if result == nil || result.Token == "" {
		return nil, &client.ValidationError{Field: "token", Msg: "missing in login response"}
	}
	session := &Session{Token: NewToken(result.Token), User: result.User}
	if err = m.store.Save(ctx, m.key, &store.Session{Token: session.Token, User: session.User}); err != nil {
		return nil, err
	}
	m.set(session)
	glog.Infof("[auth] logged in %v\n", userEmail(session.User))
	return session, nil
}

// Register creates an account; the caller logs in separately.
func (m *Manager) Register(ctx context.Context, registration schema.Registration) (*schema.User, error) {
	registration.Email = strings.TrimSpace(registration.Email)
	if strings.TrimSpace(registration.Name) == "" {
		return nil, &client.ValidationError{Field: "name", Msg: "is required"}
	}
	if err := validateEmail(registration.Email); err != nil {
		return nil, err
	}
	if registration.Password == "" {
		return nil, &client.ValidationError{Field: "password", Msg: "is required"}
	}
	if registration.Password != registration.PasswordConfirmation {
		return nil, &client.ValidationError{Field: "password_confirmation", Msg: "does not match password"}
	}
	cli, err := m.attached()
	if err != nil {
		return nil, err
	}
	return client.Post[schema.User](ctx, cli, "register", &registration)
}

// Logout drops the session from memory and storage.
func (m *Manager) Logout(ctx context.Context) error {
	err := m.store.Clear(ctx, m.key)
	m.set(nil)
	return err
}

func (m *Manager) onSessionExpired(event transport.SessionExpired) {
	if m.Session() == nil {
		return
	}
	glog.Infof("[auth] session expired by %s %s (%s)\n", event.Method, event.URL, event.RequestID)
	if err := m.Logout(context.Background()); err != nil {
		glog.Warningf("[auth] failed to clear session: %v\n", err)
	}
}

func (m *Manager) attached() (*client.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.client == nil {
		return nil, ErrDetached
	}
	return m.client, nil
}

func (m *Manager) set(session *Session) {
	m.mu.Lock()
	m.session = session
	m.mu.Unlock()
	var snapshot *Session
	if session != nil {
		copied := *session
		snapshot = &copied
	}
	for _, listener := range m.listeners.Values() {
		listener(snapshot)
	}
}

// NewToken wraps a bearer token; the expiry is read from the JWT "exp" claim
// when the token is a JWT.
func NewToken(accessToken string) *oauth2.Token {
	ret := &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}
	if expiry, ok := tokenExpiry(accessToken); ok {
		ret.Expiry = expiry
	}
	return ret
}

func tokenExpiry(accessToken string) (time.Time, bool) {
	if strings.Count(accessToken, ".") != 2 {
		return time.Time{}, false
	}
	token, _, err := jwt.NewParser().ParseUnverified(accessToken, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	expiry, err := token.Claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}, false
	}
	return expiry.Time, true
}

func validateEmail(email string) error {
	if email == "" {
		return &client.ValidationError{Field: "email", Msg: "is required"}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return &client.ValidationError{Field: "email", Msg: "is not a valid address"}
	}
	return nil
}

func userEmail(user *schema.UserProfile) string {
	if user == nil {
		return "anonymous"
	}
	return user.Email
}
