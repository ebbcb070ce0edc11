package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/educonnect/educonnect/internal/directory"
	"github.com/educonnect/educonnect/internal/models"
	"github.com/educonnect/educonnect/internal/security"
)

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password; the two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidRole        = errors.New("invalid role")
)

type DirectoryClient interface {
	FindOne(ctx context.Context, table string, formula string) (*directory.Record, error)
	GetByRecordID(ctx context.Context, table string, recordID string) (*directory.Record, error)
	Create(ctx context.Context, table string, fields map[string]any) (directory.Record, error)
}

type SessionStore interface {
	Load() (models.StoredAuth, bool, error)
	Save(auth models.StoredAuth) error
	Clear() error
	CleanupLegacy() (int64, error)
}

type SignupInput struct {
	DisplayName    string
	Email          string
	Password       string
	Role           string
	KnowledgeAreas []string
	HourlyRate     float64
	Bio            string
	AvatarURL      string
}

// Manager owns the authenticated session: hydration at start, the three
// auth operations, and the in-memory copy of the current user.
type Manager struct {
	mu       sync.Mutex
	current  *models.User
	token    string
	hydrated bool

	directory  DirectoryClient
	sessions   SessionStore
	tokens     *TokenIssuer
	notifier   Notifier
	logger     *log.Logger
	usersTable string
}

func NewManager(client DirectoryClient, sessions SessionStore, tokens *TokenIssuer, notifier Notifier, logger *log.Logger, usersTable string) *Manager {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		directory:  client,
		sessions:   sessions,
		tokens:     tokens,
		notifier:   notifier,
		logger:     logger,
		usersTable: usersTable,
	}
}

// Session returns a copy of the current user, or nil when unauthenticated.
func (manager *Manager) Session() *models.User {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	if manager.current == nil {
		return nil
	}
	user := *manager.current
	return &user
}

func (manager *Manager) Token() string {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return manager.token
}

// Loading reports whether hydration has not finished yet. Consumers must
// not take rendering decisions while this is true, or an authenticated
// reload flashes the logged-out state.
func (manager *Manager) Loading() bool {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return !manager.hydrated
}

// Hydrate restores the cached session and revalidates it against the
// directory. It runs once per process start; later calls are no-ops. It
// never returns an error: every failure path degrades to either the cached
// or the unauthenticated state.
func (manager *Manager) Hydrate(ctx context.Context) {
	manager.mu.Lock()
	if manager.hydrated {
		manager.mu.Unlock()
		return
	}
	manager.mu.Unlock()

	defer manager.finishHydration()

	if removed, err := manager.sessions.CleanupLegacy(); err != nil {
		manager.logger.Printf("session: legacy cleanup failed: %v", err)
	} else if removed > 0 {
		manager.logger.Printf("session: removed %d legacy entries", removed)
	}

	cached, found, err := manager.sessions.Load()
	if err != nil {
		manager.logger.Printf("session: load failed: %v", err)
		return
	}
	if !found {
		return
	}

	record, err := manager.directory.GetByRecordID(ctx, manager.usersTable, cached.User.ExternalID)
	if err != nil {
		// Revalidation itself failed; keep the cached identity rather
		// than forcing a logout on a transient error.
		manager.logger.Printf("session: revalidation failed, keeping cached session: %v", err)
		manager.setSession(cached.User, cached.Token)
		return
	}
	if record == nil {
		if err := manager.sessions.Clear(); err != nil {
			manager.logger.Printf("session: clear after expiry failed: %v", err)
		}
		manager.notifier.Notify(Notice{Level: NoticeError, Key: NoticeSessionExpired})
		return
	}

	manager.setSession(cached.User, cached.Token)
}

// Login resolves the user by normalized email, compares password digests
// and persists the session. Errors are notified and returned so the
// calling form can keep its state.
func (manager *Manager) Login(ctx context.Context, email string, password string) (models.User, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))

	record, err := manager.directory.FindOne(ctx, manager.usersTable, directory.ByNormalizedEmail(normalized))
	if err != nil {
		wrapped := fmt.Errorf("login lookup: %w", err)
		manager.notifier.Notify(Notice{Level: NoticeError, Key: NoticeLoginFailed, Detail: err.Error()})
		return models.User{}, wrapped
	}
	if record == nil {
		manager.notifier.Notify(Notice{Level: NoticeError, Key: NoticeLoginFailed, Detail: ErrInvalidCredentials.Error()})
		return models.User{}, ErrInvalidCredentials
	}
	if !security.VerifyPassword(password, record.FieldString(fieldPasswordHash)) {
		manager.notifier.Notify(Notice{Level: NoticeError, Key: NoticeLoginFailed, Detail: ErrInvalidCredentials.Error()})
		return models.User{}, ErrInvalidCredentials
	}

	user := mapUser(*record)
	token, err := manager.tokens.Issue(user)
	if err != nil {
		manager.notifier.Notify(Notice{Level: NoticeError, Key: NoticeLoginFailed, Detail: err.Error()})
		return models.User{}, fmt.Errorf("issue session token: %w", err)
	}

	if err := manager.sessions.Save(models.StoredAuth{User: user, Token: token}); err != nil {
		manager.notifier.Notify(Notice{Level: NoticeError, Key: NoticeLoginFailed, Detail: err.Error()})
		return models.User{}, err
	}

	manager.setSession(user, token)
	manager.notifier.Notify(Notice{Level: NoticeSuccess, Key: NoticeLoginSuccess, Detail: user.DisplayName})
	return user, nil
}

// Signup creates the directory record but intentionally does not
// authenticate: the caller is sent to the login flow with a success notice.
func (manager *Manager) Signup(ctx context.Context, input SignupInput) (models.User, error) {
	if !models.ValidRole(input.Role) {
		return models.User{}, ErrInvalidRole
	}

	normalized := strings.ToLower(strings.TrimSpace(input.Email))
	existing, err := manager.directory.FindOne(ctx, manager.usersTable, directory.ByNormalizedEmail(normalized))
	if err != nil {
		wrapped := fmt.Errorf("signup lookup: %w", err)
		manager.notifier.Notify(Notice{Level: NoticeError, Key: NoticeSignupFailed, Detail: err.Error()})
		return models.User{}, wrapped
	}
	if existing != nil {
		manager.notifier.Notify(Notice{Level: NoticeError, Key: NoticeSignupFailed, Detail: ErrEmailTaken.Error()})
		return models.User{}, ErrEmailTaken
	}

	fields := map[string]any{
		fieldEmail:           input.Email,
		fieldEmailNormalized: normalized,
		fieldPasswordHash:    security.PasswordDigest(input.Password),
		fieldDisplayName:     input.DisplayName,
		fieldRole:            input.Role,
	}
	if input.Role == models.RoleMentor {
		if len(input.KnowledgeAreas) > 0 {
			fields[fieldAreas] = input.KnowledgeAreas
		}
		if input.HourlyRate > 0 {
			fields[fieldHourlyRate] = input.HourlyRate
		}
		if input.Bio != "" {
			fields[fieldBio] = input.Bio
		}
		if input.AvatarURL != "" {
			fields[fieldAvatarURL] = input.AvatarURL
		}
	}

	created, err := manager.directory.Create(ctx, manager.usersTable, fields)
	if err != nil {
		wrapped := fmt.Errorf("signup create: %w", err)
		manager.notifier.Notify(Notice{Level: NoticeError, Key: NoticeSignupFailed, Detail: err.Error()})
		return models.User{}, wrapped
	}

	user := mapUser(created)
	manager.notifier.Notify(Notice{Level: NoticeSuccess, Key: NoticeSignupSuccess, Detail: user.DisplayName})
	return user, nil
}

// Logout clears the slot and the in-memory state. Always succeeds and is
// safe to call when already logged out.
func (manager *Manager) Logout() {
	manager.mu.Lock()
	manager.current = nil
	manager.token = ""
	manager.mu.Unlock()

	if err := manager.sessions.Clear(); err != nil {
		manager.logger.Printf("session: clear on logout failed: %v", err)
	}
	manager.notifier.Notify(Notice{Level: NoticeSuccess, Key: NoticeLogoutDone})
}

func (manager *Manager) setSession(user models.User, token string) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	manager.current = &user
	manager.token = token
}

func (manager *Manager) finishHydration() {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	manager.hydrated = true
}
