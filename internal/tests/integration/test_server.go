package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/you/guardianauth/domain"
	httpx "github.com/you/guardianauth/internal/http"
	"github.com/you/guardianauth/internal/http/handlers"
	"github.com/you/guardianauth/internal/http/middleware"
	"github.com/you/guardianauth/internal/infrastructure/audit"
	"github.com/you/guardianauth/internal/infrastructure/auth"
	"github.com/you/guardianauth/internal/infrastructure/repositories"
	"github.com/you/guardianauth/internal/mocks"
	"github.com/you/guardianauth/internal/services"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// testDBCounter gives each TestServer its own named in-memory database.
var testDBCounter int64

// TestServer runs the full router against sqlite and miniredis. Outbound
// mail is captured instead of sent.
type TestServer struct {
	Engine   *gin.Engine
	DB       *gorm.DB
	Redis    *miniredis.Miniredis
	UserRepo domain.UserRepository
	TokenSvc domain.TokenService
	Notifier *mocks.MockNotificationService

	// Captured outbound messages
	VerificationURLs []string
	ResetURLs        []string
	OTPCodes         []string
}

// NewTestServer builds the complete stack with real services and in-memory
// backing stores.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// A unique shared-cache DSN keeps one in-memory database across all
	// pooled connections; a plain ":memory:" gives every pooled connection
	// its own empty database, so tables created on one connection are
	// missing on the next.
	dsn := fmt.Sprintf("file:testserver%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&repositories.DBUser{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	m, err := casbinmodel.NewModelFromString(rbacModel)
	if err != nil {
		t.Fatalf("failed to build casbin model: %v", err)
	}
	adp, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		t.Fatalf("failed to build casbin adapter: %v", err)
	}
	enforcer, err := casbin.NewEnforcer(m, adp)
	if err != nil {
		t.Fatalf("failed to build enforcer: %v", err)
	}
	enforcer.AddPolicy("role_admin", "/auth/users*", "(GET|POST|PUT|DELETE)")
	enforcer.AddPolicy("role_admin", "/admin/*", "(GET|POST|PUT|DELETE)")

	log := zap.NewNop()
	ts := &TestServer{DB: db, Redis: mr}

	userRepo := repositories.NewUserRepository(db)
	sessionRepo := repositories.NewSessionRepository(rdb)
	otpStore := repositories.NewOTPStore(rdb)

	passwordSvc := auth.NewPasswordService(0)
	tokenSvc := auth.NewJWTService("access-secret", "refresh-secret", "guardianauth-test", 15*time.Minute, 7*24*time.Hour)

	notifier := mocks.NewMockNotificationService()
	notifier.SendVerificationEmailFunc = func(to, name, verificationURL string) error {
		ts.VerificationURLs = append(ts.VerificationURLs, verificationURL)
		return nil
	}
	notifier.SendPasswordResetEmailFunc = func(to, name, resetURL string, expiresIn time.Duration) error {
		ts.ResetURLs = append(ts.ResetURLs, resetURL)
		return nil
	}
	notifier.SendOTPEmailFunc = func(to, code, purpose string, expiresIn time.Duration) error {
		ts.OTPCodes = append(ts.OTPCodes, code)
		return nil
	}

	auditLog := audit.NewZapAuditLogger(log)

	authSvc := services.NewAuthService(userRepo, sessionRepo, passwordSvc, tokenSvc, notifier, auditLog, log, services.AuthConfig{
		FrontendURL:     "https://app.example.com",
		VerificationTTL: 24 * time.Hour,
		ResetTTL:        10 * time.Minute,
	})
	otpSvc := services.NewOTPService(otpStore, userRepo, sessionRepo, tokenSvc, notifier, auditLog, log, services.OTPConfig{
		Length: 6,
		TTL:    10 * time.Minute,
	})
	policySvc := services.NewPolicyService(enforcer)

	ah := handlers.NewAuthHandlers(authSvc, otpSvc)
	uh := handlers.NewUserHandlers(authSvc, userRepo)
	ph := handlers.NewPolicyHandlers(policySvc)
	jwtmw := middleware.NewAuthMW(tokenSvc)
	cbmw := middleware.NewCasbinMW(services.NewCasbinEnforcerWrapper(enforcer))

	ts.Engine = httpx.BuildRouter(ah, uh, ph, jwtmw, cbmw)
	ts.UserRepo = userRepo
	ts.TokenSvc = tokenSvc
	ts.Notifier = notifier
	return ts
}

// Request performs an HTTP round trip through the router.
func (ts *TestServer) Request(t *testing.T, method, path, bearer string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	w := httptest.NewRecorder()
	ts.Engine.ServeHTTP(w, req)

	var parsed map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &parsed); err != nil {
			t.Fatalf("failed to parse response %q: %v", w.Body.String(), err)
		}
	}
	return w, parsed
}

// LastVerificationToken extracts the token from the most recent captured
// verification link.
func (ts *TestServer) LastVerificationToken(t *testing.T) string {
	t.Helper()
	if len(ts.VerificationURLs) == 0 {
		t.Fatal("no verification email was sent")
	}
	return tokenFromURL(t, ts.VerificationURLs[len(ts.VerificationURLs)-1])
}

// LastResetToken extracts the token from the most recent captured reset link.
func (ts *TestServer) LastResetToken(t *testing.T) string {
	t.Helper()
	if len(ts.ResetURLs) == 0 {
		t.Fatal("no reset email was sent")
	}
	return tokenFromURL(t, ts.ResetURLs[len(ts.ResetURLs)-1])
}

// LastOTPCode returns the most recent captured OTP code.
func (ts *TestServer) LastOTPCode(t *testing.T) string {
	t.Helper()
	if len(ts.OTPCodes) == 0 {
		t.Fatal("no OTP email was sent")
	}
	return ts.OTPCodes[len(ts.OTPCodes)-1]
}

func tokenFromURL(t *testing.T, raw string) string {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("failed to parse link %q: %v", raw, err)
	}
	token := u.Query().Get("token")
	if token == "" {
		t.Fatalf("link %q carries no token", raw)
	}
	return token
}

// SignupUser registers a user through the API and returns the response body.
func (ts *TestServer) SignupUser(t *testing.T, name, email, password string) map[string]interface{} {
	t.Helper()
	w, body := ts.Request(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("signup failed with %d: %s", w.Code, w.Body.String())
	}
	return body
}

// VerifyAndLogin completes email verification for the given user and logs
// them in, returning access and refresh tokens.
func (ts *TestServer) VerifyAndLogin(t *testing.T, email, password string) (string, string) {
	t.Helper()
	token := ts.LastVerificationToken(t)
	if w, _ := ts.Request(t, http.MethodGet, "/auth/verify-email?token="+token, "", nil); w.Code != http.StatusOK {
		t.Fatalf("verify-email failed with %d", w.Code)
	}
	w, body := ts.Request(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login failed with %d: %s", w.Code, w.Body.String())
	}
	return body["token"].(string), body["refreshToken"].(string)
}
