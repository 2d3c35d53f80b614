package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"pastelrecipes/internal/models"
	"pastelrecipes/internal/repositories"
	"pastelrecipes/internal/services"
	"pastelrecipes/internal/utils"
)

type fakeCodeStore struct {
	records map[string]*models.RecoveryCode
}

func (f *fakeCodeStore) Get(accountKey string) (*models.RecoveryCode, error) {
	return f.records[accountKey], nil
}

func (f *fakeCodeStore) Put(rec *models.RecoveryCode) error {
	f.records[rec.AccountKey] = rec
	return nil
}

func (f *fakeCodeStore) Delete(accountKey string) error {
	delete(f.records, accountKey)
	return nil
}

func (f *fakeCodeStore) ListAll() ([]*models.RecoveryCode, error) {
	var out []*models.RecoveryCode
	for _, rec := range f.records {
		out = append(out, rec)
	}
	return out, nil
}

type fakeUserStore struct {
	user *models.User
}

func (f *fakeUserStore) Create(user *models.User) error        { return nil }
func (f *fakeUserStore) GetByID(id int) (*models.User, error)  { return nil, nil }
func (f *fakeUserStore) UpdateProfile(user *models.User) error { return nil }
func (f *fakeUserStore) UpdatePassword(int, string) error      { return nil }
func (f *fakeUserStore) Delete(id int) error                   { return nil }

func (f *fakeUserStore) GetByEmail(email string) (*models.User, error) {
	if f.user != nil && f.user.Email == email {
		return f.user, nil
	}
	return nil, nil
}

func (f *fakeUserStore) UpdateRefresh(userID int, token string, expiresAt time.Time) error {
	return nil
}

func (f *fakeUserStore) RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.User, error) {
	return nil, nil
}

func (f *fakeUserStore) ClearRefresh(userID int) error { return nil }

func (f *fakeUserStore) GetByRefreshToken(token string) (*models.User, error) { return nil, nil }

type fakeResets struct{}

func (fakeResets) RequestReset(email string) error            { return nil }
func (fakeResets) IssueToken(email string) (string, error)    { return "reset-token", nil }
func (fakeResets) ResetPassword(token, password string) error { return nil }

func newTestRouter(maintenanceToken string) (*gin.Engine, *fakeCodeStore) {
	gin.SetMode(gin.TestMode)

	codes := &fakeCodeStore{records: make(map[string]*models.RecoveryCode)}
	users := &fakeUserStore{user: &models.User{ID: 1, Email: "user@example.com", Phone: "555-123-4567"}}
	recovery := services.NewRecoveryService(codes, users, utils.NewSimulatedSender(), "52")
	h := NewRecoveryHandler(recovery, fakeResets{}, maintenanceToken)

	r := gin.New()
	r.POST("/recovery/phone", h.CheckPhone)
	r.POST("/recovery/clean-expired", h.CleanExpired)
	return r, codes
}

func postJSON(r *gin.Engine, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCheckPhone_MasksStoredNumber(t *testing.T) {
	r, _ := newTestRouter("")

	w := postJSON(r, "/recovery/phone", `{"email":"user@example.com"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		HasPhone    bool   `json:"has_phone"`
		MaskedPhone string `json:"masked_phone"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.HasPhone {
		t.Fatal("expected has_phone=true")
	}
	if body.MaskedPhone != "+52***1234567" {
		t.Errorf("masked_phone = %q, want +52***1234567", body.MaskedPhone)
	}
	// The stored raw value must never appear in a pre-auth response.
	if strings.Contains(w.Body.String(), "555-123-4567") {
		t.Errorf("response leaks the raw phone: %s", w.Body.String())
	}
}

func TestCheckPhone_UnknownAccount(t *testing.T) {
	r, _ := newTestRouter("")

	w := postJSON(r, "/recovery/phone", `{"email":"nobody@example.com"}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"has_phone":false`) {
		t.Errorf("expected has_phone=false, got %s", w.Body.String())
	}
	if strings.Contains(w.Body.String(), "masked_phone") {
		t.Errorf("no masked_phone for unknown accounts, got %s", w.Body.String())
	}
}

func TestCleanExpired_RequiresMaintenanceToken(t *testing.T) {
	r, codes := newTestRouter("sweep-secret")
	codes.records["stale"] = &models.RecoveryCode{AccountKey: "stale"}

	w := postJSON(r, "/recovery/clean-expired", "", nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("no token: status = %d, want 403", w.Code)
	}

	w = postJSON(r, "/recovery/clean-expired", "", map[string]string{"X-Maintenance-Token": "wrong"})
	if w.Code != http.StatusForbidden {
		t.Errorf("wrong token: status = %d, want 403", w.Code)
	}

	w = postJSON(r, "/recovery/clean-expired", "", map[string]string{"X-Maintenance-Token": "sweep-secret"})
	if w.Code != http.StatusOK {
		t.Errorf("correct token: status = %d, want 200", w.Code)
	}
}

func TestCleanExpired_DisabledWithoutConfiguredToken(t *testing.T) {
	r, _ := newTestRouter("")

	w := postJSON(r, "/recovery/clean-expired", "", map[string]string{"X-Maintenance-Token": ""})
	if w.Code != http.StatusForbidden {
		t.Errorf("unconfigured endpoint should refuse, status = %d", w.Code)
	}
}

var _ repositories.RecoveryCodeRepository = (*fakeCodeStore)(nil)
