package gymauth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeStore is an in-memory AccountStore for engine tests. Rows are
// copied on read so the engine never aliases store memory.
type fakeStore struct {
	mu       sync.Mutex
	accounts map[string]Account

	updateErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{accounts: make(map[string]Account)}
}

func storeKey(kind AccountKind, username string) string {
	return string(kind) + "/" + username
}

func (s *fakeStore) FindByUsername(_ context.Context, kind AccountKind, username string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[storeKey(kind, username)]
	if !ok {
		return nil, ErrAccountNotFound
	}
	if a.LockUntil != nil {
		t := *a.LockUntil
		a.LockUntil = &t
	}
	return &a, nil
}

func (s *fakeStore) Create(_ context.Context, account *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := storeKey(account.Kind, account.Username)
	if _, ok := s.accounts[key]; ok {
		return ErrAccountExists
	}
	s.accounts[key] = *account
	return nil
}

func (s *fakeStore) Update(_ context.Context, account *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.updateErr != nil {
		return s.updateErr
	}
	key := storeKey(account.Kind, account.Username)
	if _, ok := s.accounts[key]; !ok {
		return ErrAccountNotFound
	}
	s.accounts[key] = *account
	return nil
}

func (s *fakeStore) get(t *testing.T, kind AccountKind, username string) Account {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[storeKey(kind, username)]
	if !ok {
		t.Fatalf("account %s/%s missing from store", kind, username)
	}
	return a
}

func (s *fakeStore) put(account Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[storeKey(account.Kind, account.Username)] = account
}

// fastTestConfig keeps Argon2id cheap enough for test runs.
func fastTestConfig() Config {
	cfg := defaultConfig()
	cfg.Token.Secret = []byte("engine-test-secret")
	cfg.Password.Memory = 8192
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	return cfg
}

func newTestEngine(t *testing.T, store AccountStore) *Engine {
	t.Helper()
	engine, err := New().
		WithConfig(fastTestConfig()).
		WithAccountStore(store).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func seedAccount(t *testing.T, engine *Engine, kind AccountKind, username, pass, role string) {
	t.Helper()
	if _, err := engine.CreateAccount(context.Background(), CreateAccountInput{
		Kind:     kind,
		Username: username,
		Password: pass,
		Role:     role,
	}); err != nil {
		t.Fatalf("CreateAccount error: %v", err)
	}
}

func requestContext(ip, ua string) context.Context {
	ctx := WithClientIP(context.Background(), ip)
	return WithUserAgent(ctx, ua)
}

func TestLoginSuccessIssuesValidatableToken(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(t, store)
	seedAccount(t, engine, KindAdmin, "alice", "correct horse battery", "owner")

	// A prior failure should be wiped by the successful login.
	acct := store.get(t, KindAdmin, "alice")
	acct.FailedLoginAttempts = 2
	store.put(acct)

	ctx := requestContext("203.0.113.9", "gym-admin/2.4")
	tok, err := engine.Login(ctx, KindAdmin, "alice", "correct horse battery")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if tok == "" {
		t.Fatal("expected a token")
	}

	after := store.get(t, KindAdmin, "alice")
	if after.FailedLoginAttempts != 0 || after.LockUntil != nil {
		t.Fatalf("expected counters cleared, got attempts=%d lock=%v", after.FailedLoginAttempts, after.LockUntil)
	}

	principal, err := engine.Validate(ctx, tok)
	if err != nil {
		t.Fatalf("Validate error: %v", err)
	}
	if principal.Username != "alice" || principal.Kind != KindAdmin || principal.Role != "owner" {
		t.Fatalf("unexpected principal: %+v", principal)
	}
	if principal.AccountID != after.ID {
		t.Fatalf("principal id %q does not match account id %q", principal.AccountID, after.ID)
	}
}

func TestLoginWrongPasswordAccumulatesAndLocks(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(t, store)
	seedAccount(t, engine, KindMember, "bob", "real password", "member")

	for i := 1; i <= 4; i++ {
		if _, err := engine.Login(context.Background(), KindMember, "bob", "nope"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: expected ErrInvalidCredentials, got %v", i, err)
		}
		if got := store.get(t, KindMember, "bob"); got.FailedLoginAttempts != i || got.LockUntil != nil {
			t.Fatalf("attempt %d: attempts=%d lock=%v", i, got.FailedLoginAttempts, got.LockUntil)
		}
	}

	// Fifth failure crosses the threshold.
	if _, err := engine.Login(context.Background(), KindMember, "bob", "nope"); !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("expected ErrAccountLocked at threshold, got %v", err)
	}
	locked := store.get(t, KindMember, "bob")
	if locked.FailedLoginAttempts != 5 || locked.LockUntil == nil {
		t.Fatalf("expected persisted lock, got attempts=%d lock=%v", locked.FailedLoginAttempts, locked.LockUntil)
	}
	remaining := time.Until(*locked.LockUntil)
	if remaining < 29*time.Minute || remaining > 30*time.Minute {
		t.Fatalf("expected roughly 30m lock, got %v", remaining)
	}

	// Correct credentials are rejected while the lock holds.
	if _, err := engine.Login(context.Background(), KindMember, "bob", "real password"); !errors.Is(err, ErrAccountLocked) {
		t.Fatalf("expected ErrAccountLocked for correct password during lock, got %v", err)
	}
}

func TestLoginAfterLockExpiryClearsState(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(t, store)
	seedAccount(t, engine, KindMember, "carol", "open sesame", "member")

	expired := time.Now().Add(-time.Minute)
	acct := store.get(t, KindMember, "carol")
	acct.FailedLoginAttempts = 5
	acct.LockUntil = &expired
	store.put(acct)

	tok, err := engine.Login(context.Background(), KindMember, "carol", "open sesame")
	if err != nil {
		t.Fatalf("Login after lock expiry error: %v", err)
	}
	if tok == "" {
		t.Fatal("expected a token")
	}

	after := store.get(t, KindMember, "carol")
	if after.FailedLoginAttempts != 0 || after.LockUntil != nil {
		t.Fatalf("expected cleared lock state, got attempts=%d lock=%v", after.FailedLoginAttempts, after.LockUntil)
	}
}

func TestLoginMigratesLegacyPassword(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(t, store)

	store.put(Account{
		ID:             "legacy-1",
		Kind:           KindCoach,
		Username:       "dave",
		LegacyPassword: "plaintext-from-2014",
		Role:           "coach",
	})

	tok, err := engine.Login(context.Background(), KindCoach, "dave", "plaintext-from-2014")
	if err != nil {
		t.Fatalf("legacy login error: %v", err)
	}
	if tok == "" {
		t.Fatal("expected a token")
	}

	migrated := store.get(t, KindCoach, "dave")
	if !strings.HasPrefix(migrated.PasswordHash, "$argon2id$") {
		t.Fatalf("expected a modern hash after migration, got %q", migrated.PasswordHash)
	}
	if migrated.LegacyPassword != "plaintext-from-2014" {
		t.Fatal("legacy plaintext field should be retained, not cleared")
	}

	// Second login must verify against the migrated hash.
	if _, err := engine.Login(context.Background(), KindCoach, "dave", "plaintext-from-2014"); err != nil {
		t.Fatalf("login after migration error: %v", err)
	}
	if _, err := engine.Login(context.Background(), KindCoach, "dave", "plaintext-from-2015"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password post-migration, got %v", err)
	}
}

func TestLoginUnknownUsernameMasksLookup(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(t, store)
	seedAccount(t, engine, KindUser, "erin", "a known password", "user")

	unknown, err1 := engine.Login(context.Background(), KindUser, "nobody", "whatever")
	wrongPw, err2 := engine.Login(context.Background(), KindUser, "erin", "whatever")
	if unknown != "" || wrongPw != "" {
		t.Fatal("expected no tokens")
	}
	if !errors.Is(err1, ErrInvalidCredentials) || !errors.Is(err2, ErrInvalidCredentials) {
		t.Fatalf("expected identical ErrInvalidCredentials, got %v and %v", err1, err2)
	}

	// Kind scoping: erin exists only in the user table.
	if _, err := engine.Login(context.Background(), KindAdmin, "erin", "a known password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials across tables, got %v", err)
	}
}

func TestLoginSurfacesStoreUpdateFailure(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(t, store)
	seedAccount(t, engine, KindMember, "gus", "fine password", "member")

	store.updateErr = errors.New("connection reset")
	_, err := engine.Login(context.Background(), KindMember, "gus", "wrong")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected the store error to surface, got %v", err)
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(t, store)
	seedAccount(t, engine, KindMember, "frank", "still valid", "member")

	acct := store.get(t, KindMember, "frank")
	acct.Status = AccountDisabled
	store.put(acct)

	if _, err := engine.Login(context.Background(), KindMember, "frank", "still valid"); !errors.Is(err, ErrAccountDisabled) {
		t.Fatalf("expected ErrAccountDisabled, got %v", err)
	}
}

func TestLoginBlankInputs(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(t, store)

	if _, err := engine.Login(context.Background(), KindUser, "", "pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("blank username: got %v", err)
	}
	if _, err := engine.Login(context.Background(), KindUser, "someone", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("blank password: got %v", err)
	}
}

func TestValidateDeviceBinding(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(t, store)
	seedAccount(t, engine, KindAdmin, "gina", "binding test", "owner")

	issued := requestContext("198.51.100.7", "gym-admin/2.4")
	tok, err := engine.Login(issued, KindAdmin, "gina", "binding test")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	if _, err := engine.Validate(issued, tok); err != nil {
		t.Fatalf("same-device validate error: %v", err)
	}

	elsewhere := requestContext("192.0.2.200", "gym-admin/2.4")
	if _, err := engine.Validate(elsewhere, tok); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for foreign fingerprint, got %v", err)
	}

	// A context with no connection metadata skips the comparison.
	if _, err := engine.Validate(context.Background(), tok); err != nil {
		t.Fatalf("metadata-free validate error: %v", err)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(t, store)

	for _, tok := range []string{"", "not-a-token", "aaa.bbb.ccc"} {
		if _, err := engine.Validate(context.Background(), tok); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("token %q: expected ErrTokenInvalid, got %v", tok, err)
		}
	}
}

func TestCreateAccountDuplicateAndBlank(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(t, store)

	input := CreateAccountInput{Kind: KindMember, Username: "henry", Password: "first password", Role: "member"}
	created, err := engine.CreateAccount(context.Background(), input)
	if err != nil {
		t.Fatalf("CreateAccount error: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected a generated account ID")
	}
	if !strings.HasPrefix(created.PasswordHash, "$argon2id$") {
		t.Fatalf("expected hashed password, got %q", created.PasswordHash)
	}

	if _, err := engine.CreateAccount(context.Background(), input); !errors.Is(err, ErrAccountExists) {
		t.Fatalf("expected ErrAccountExists, got %v", err)
	}
	if _, err := engine.CreateAccount(context.Background(), CreateAccountInput{Kind: KindMember, Username: "ivy", Password: "   "}); !errors.Is(err, ErrBlankPassword) {
		t.Fatalf("expected ErrBlankPassword, got %v", err)
	}
}

func TestResetPasswordClearsLock(t *testing.T) {
	store := newFakeStore()
	engine := newTestEngine(t, store)
	seedAccount(t, engine, KindMember, "judy", "forgotten one", "member")

	until := time.Now().Add(20 * time.Minute)
	acct := store.get(t, KindMember, "judy")
	acct.FailedLoginAttempts = 5
	acct.LockUntil = &until
	store.put(acct)

	if err := engine.ResetPassword(context.Background(), KindMember, "judy", "brand new one"); err != nil {
		t.Fatalf("ResetPassword error: %v", err)
	}

	if _, err := engine.Login(context.Background(), KindMember, "judy", "brand new one"); err != nil {
		t.Fatalf("login with reset password error: %v", err)
	}
	if _, err := engine.Login(context.Background(), KindMember, "judy", "forgotten one"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected old password rejected, got %v", err)
	}

	if err := engine.ResetPassword(context.Background(), KindMember, "nobody", "irrelevant"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestBuildConfigurationErrors(t *testing.T) {
	if _, err := New().WithSigningSecret([]byte("x")).Build(); !errors.Is(err, ErrAccountStoreRequired) {
		t.Fatalf("expected ErrAccountStoreRequired, got %v", err)
	}
	if _, err := New().WithAccountStore(newFakeStore()).Build(); !errors.Is(err, ErrSigningSecretMissing) {
		t.Fatalf("expected ErrSigningSecretMissing, got %v", err)
	}

	b := New().WithConfig(fastTestConfig()).WithAccountStore(newFakeStore())
	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	defer engine.Close()
	if _, err := b.Build(); err == nil {
		t.Fatal("expected second Build on the same builder to fail")
	}
}

func TestEngineMetricsAndAudit(t *testing.T) {
	store := newFakeStore()
	sink := NewChannelSink(16)
	engine, err := New().
		WithConfig(fastTestConfig()).
		WithAccountStore(store).
		WithAuditSink(sink).
		WithMetricsEnabled(true).
		Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	seedAccount(t, engine, KindUser, "kate", "metric probe", "user")

	if _, err := engine.Login(context.Background(), KindUser, "kate", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := engine.Login(context.Background(), KindUser, "kate", "metric probe"); err != nil {
		t.Fatalf("Login error: %v", err)
	}

	engine.Close()

	snap := engine.MetricsSnapshot()
	if snap.Counters[MetricLoginSuccess] != 1 {
		t.Fatalf("expected one login success, got %d", snap.Counters[MetricLoginSuccess])
	}
	if snap.Counters[MetricLoginFailure] != 1 {
		t.Fatalf("expected one login failure, got %d", snap.Counters[MetricLoginFailure])
	}
	if snap.Counters[MetricAccountCreated] != 1 {
		t.Fatalf("expected one account creation, got %d", snap.Counters[MetricAccountCreated])
	}

	// Close drained the dispatcher, so everything emitted is buffered.
	var types []string
drain:
	for {
		select {
		case ev := <-sink.Events():
			types = append(types, ev.EventType)
		default:
			break drain
		}
	}
	want := map[string]bool{"account_created": false, "login_failure": false, "login_success": false}
	for _, typ := range types {
		if _, ok := want[typ]; ok {
			want[typ] = true
		}
	}
	for typ, seen := range want {
		if !seen {
			t.Fatalf("expected audit event %q in %v", typ, types)
		}
	}
}

func TestNilEngineIsInert(t *testing.T) {
	var engine *Engine
	engine.Close()
	if n := engine.AuditDropped(); n != 0 {
		t.Fatalf("expected zero dropped on nil engine, got %d", n)
	}
	if _, err := engine.Login(context.Background(), KindUser, "x", "y"); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("expected ErrEngineNotReady, got %v", err)
	}
	if _, err := engine.Validate(context.Background(), "tok"); !errors.Is(err, ErrEngineNotReady) {
		t.Fatalf("expected ErrEngineNotReady, got %v", err)
	}
}
