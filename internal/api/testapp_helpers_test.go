package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/educonnect/educonnect/internal/auth"
	"github.com/educonnect/educonnect/internal/boot"
	"github.com/educonnect/educonnect/internal/chat"
	"github.com/educonnect/educonnect/internal/directory"
	"github.com/educonnect/educonnect/internal/i18n"
	"github.com/educonnect/educonnect/internal/marketplace"
	"github.com/educonnect/educonnect/internal/models"
	"github.com/educonnect/educonnect/internal/security"
)

// stubDirectory backs both the auth manager and the marketplace service
// with the same in-memory tables.
type stubDirectory struct {
	mu      sync.Mutex
	records map[string]map[string]directory.Record
	nextID  int
}

func newStubDirectory() *stubDirectory {
	return &stubDirectory{records: map[string]map[string]directory.Record{}}
}

func (stub *stubDirectory) put(table string, fields map[string]any) directory.Record {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	stub.nextID++
	record := directory.Record{
		ID:          fmt.Sprintf("rec%03d", stub.nextID),
		Fields:      fields,
		CreatedTime: "2026-08-01T10:00:00Z",
	}
	if stub.records[table] == nil {
		stub.records[table] = map[string]directory.Record{}
	}
	stub.records[table][record.ID] = record
	return record
}

func (stub *stubDirectory) addUser(email string, password string, role string, name string) directory.Record {
	return stub.put("Users", map[string]any{
		"email":         email,
		"email_lc":      strings.ToLower(strings.TrimSpace(email)),
		"password_hash": security.PasswordDigest(password),
		"role":          role,
		"nome":          name,
	})
}

func (stub *stubDirectory) List(_ context.Context, table string, _ directory.ListParams) (directory.ListResponse, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	response := directory.ListResponse{}
	for _, record := range stub.records[table] {
		response.Records = append(response.Records, record)
	}
	return response, nil
}

func (stub *stubDirectory) FindOne(_ context.Context, table string, formula string) (*directory.Record, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	for _, record := range stub.records[table] {
		if strings.Contains(formula, "'"+record.ID+"'") {
			match := record
			return &match, nil
		}
		if email, _ := record.Fields["email_lc"].(string); email != "" && strings.Contains(formula, "'"+email+"'") {
			match := record
			return &match, nil
		}
		if stable, _ := record.Fields["record_id"].(string); stable != "" && strings.Contains(formula, "'"+stable+"'") {
			match := record
			return &match, nil
		}
	}
	return nil, nil
}

func (stub *stubDirectory) GetByRecordID(_ context.Context, table string, recordID string) (*directory.Record, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	record, found := stub.records[table][recordID]
	if !found {
		return nil, nil
	}
	return &record, nil
}

func (stub *stubDirectory) Create(_ context.Context, table string, fields map[string]any) (directory.Record, error) {
	copied := make(map[string]any, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return stub.put(table, copied), nil
}

func (stub *stubDirectory) Update(_ context.Context, table string, recordID string, fields map[string]any) (directory.Record, error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	record, found := stub.records[table][recordID]
	if !found {
		return directory.Record{}, fmt.Errorf("record %s not found", recordID)
	}
	for key, value := range fields {
		record.Fields[key] = value
	}
	stub.records[table][recordID] = record
	return record, nil
}

type stubSessionKV struct {
	mu   sync.Mutex
	auth *models.StoredAuth
}

func (store *stubSessionKV) Load() (models.StoredAuth, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if store.auth == nil {
		return models.StoredAuth{}, false, nil
	}
	return *store.auth, true, nil
}

func (store *stubSessionKV) Save(stored models.StoredAuth) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.auth = &stored
	return nil
}

func (store *stubSessionKV) Clear() error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.auth = nil
	return nil
}

func (store *stubSessionKV) CleanupLegacy() (int64, error) { return 0, nil }

type stubChatRepository struct {
	mu       sync.Mutex
	messages []models.ChatMessage
}

func (repo *stubChatRepository) AppendBatch(messages []models.ChatMessage) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.messages = append(repo.messages, messages...)
	return nil
}

func (repo *stubChatRepository) ListByGroup(groupID string) ([]models.ChatMessage, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	var result []models.ChatMessage
	for _, message := range repo.messages {
		if message.GroupID == groupID {
			result = append(result, message)
		}
	}
	return result, nil
}

func (repo *stubChatRepository) DeleteByGroup(groupID string) (int64, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	kept := repo.messages[:0]
	var removed int64
	for _, message := range repo.messages {
		if message.GroupID == groupID {
			removed++
			continue
		}
		kept = append(kept, message)
	}
	repo.messages = kept
	return removed, nil
}

type testEnv struct {
	app       *fiber.App
	directory *stubDirectory
	boot      *boot.Controller
	auth      *auth.Manager
}

type testEnvOptions struct {
	skipBoot    bool
	skipHydrate bool
	envMissing  []string
	probeErrs   map[string]error
	cachedAuth  *models.StoredAuth
}

func newTestApp(t *testing.T, options testEnvOptions) *testEnv {
	t.Helper()

	discard := log.New(io.Discard, "", 0)
	stub := newStubDirectory()

	i18nManager, err := i18n.NewManager("pt", filepath.Join("..", "i18n", "locales"))
	if err != nil {
		t.Fatalf("i18n init failed: %v", err)
	}

	notices := NewNoticeBuffer()
	tokens := auth.NewTokenIssuer([]byte("test-secret"), 0)
	sessions := &stubSessionKV{auth: options.cachedAuth}
	authManager := auth.NewManager(stub, sessions, tokens, notices, discard, "Users")

	bootController := boot.NewController(
		func() ([]string, []string) {
			return []string{"Users", "Grupos", "Sessoes"}, options.envMissing
		},
		boot.ProberFunc(func(_ context.Context, table string) error {
			return options.probeErrs[table]
		}),
		discard,
	)

	market := marketplace.NewService(stub, marketplace.Tables{
		Users: "Users", Grupos: "Grupos", Sessoes: "Sessoes",
	}, discard)

	chatStore := chat.NewStore(&stubChatRepository{}, discard)

	handler := NewHandler(bootController, authManager, market, chatStore, i18nManager, notices, discard)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	RegisterRoutes(app, handler)

	if !options.skipBoot {
		bootController.Run(context.Background())
	}
	if !options.skipHydrate {
		authManager.Hydrate(context.Background())
	}

	return &testEnv{app: app, directory: stub, boot: bootController, auth: authManager}
}

func (env *testEnv) login(t *testing.T, email string, password string) {
	t.Helper()
	response := env.doJSON(t, http.MethodPost, "/api/auth/login", map[string]any{
		"email": email, "password": password,
	})
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(response.Body)
		t.Fatalf("login returned %d: %s", response.StatusCode, body)
	}
}

func (env *testEnv) doJSON(t *testing.T, method string, path string, payload any) *http.Response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode request body: %v", err)
		}
		body = bytes.NewReader(encoded)
	}
	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	response, err := env.app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return response
}

func waitUntil(t *testing.T, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !condition() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met within deadline")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func decodeBody(t *testing.T, response *http.Response, out any) {
	t.Helper()
	defer response.Body.Close()
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}
