package services

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/docqa-backend/internal/data/repos"
	"github.com/yungbote/docqa-backend/internal/data/repos/testutil"
	types "github.com/yungbote/docqa-backend/internal/domain"
	"github.com/yungbote/docqa-backend/internal/platform/ctxutil"
	"github.com/yungbote/docqa-backend/internal/platform/folderstore"
	"github.com/yungbote/docqa-backend/internal/platform/logger"
	"github.com/yungbote/docqa-backend/internal/rag"
)

type testEnv struct {
	db      *gorm.DB
	log     *logger.Logger
	folders folderstore.Store
	users   repos.UserRepo
	files   repos.FileRepo
	logs    repos.QueryLogRepo
	hasher  PasswordHasher
	tokens  TokenService
	auth    AuthService
	userSvc UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb := testutil.DB(t)
	log := logger.NewNop()
	folders, err := folderstore.New(log, t.TempDir())
	if err != nil {
		t.Fatalf("folderstore.New: %v", err)
	}
	tokens, err := NewTokenService(log, TokenConfig{Secret: "test-secret", Algorithm: "HS256", AccessTTL: time.Minute, ResetTTL: time.Minute})
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	env := &testEnv{
		db:      gdb,
		log:     log,
		folders: folders,
		users:   repos.NewUserRepo(gdb, log),
		files:   repos.NewFileRepo(gdb, log),
		logs:    repos.NewQueryLogRepo(gdb, log),
		hasher:  NewPasswordHasher(bcrypt.MinCost),
		tokens:  tokens,
	}
	env.auth = NewAuthService(log, env.users, folders, tokens, env.hasher)
	env.userSvc = NewUserService(log, env.users, folders, env.hasher)
	return env
}

func (e *testEnv) signup(t *testing.T, email, password string) *types.User {
	t.Helper()
	u, err := e.auth.Signup(context.Background(), email, password)
	if err != nil {
		t.Fatalf("Signup(%s): %v", email, err)
	}
	return u
}

func ctxAs(u *types.User) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: u.ID})
}

type fakeIndexer struct {
	mu     sync.Mutex
	calls  []string
	err    error
	chunks int
}

func (f *fakeIndexer) Rebuild(ctx context.Context, u *types.User) (*rag.BuildStats, error) {
	return f.RebuildFolder(ctx, u.FolderName)
}

func (f *fakeIndexer) RebuildFolder(_ context.Context, folder string) (*rag.BuildStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, folder)
	if f.err != nil {
		return nil, f.err
	}
	return &rag.BuildStats{Chunks: f.chunks}, nil
}

func (f *fakeIndexer) OnFolderChanged(ctx context.Context, folder string) {
	_, _ = f.RebuildFolder(ctx, folder)
}

type fakeModel struct {
	mu       sync.Mutex
	name     string
	answer   string
	err      error
	loaded   int
	unloaded int
	prompts  []string
}

func (m *fakeModel) Model() string { return m.name }

func (m *fakeModel) Load(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.loaded++
	return nil
}

func (m *fakeModel) Unload(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unloaded++
	return nil
}

func (m *fakeModel) Generate(_ context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }
