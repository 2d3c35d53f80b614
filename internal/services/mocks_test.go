package services

import (
	"errors"
	"time"

	"pastelrecipes/internal/models"
)

// In-memory stand-ins for the repositories and the delivery adapter.

type mockCodeStore struct {
	records map[string]*models.RecoveryCode
	getErr  error
	putErr  error
}

func newMockCodeStore() *mockCodeStore {
	return &mockCodeStore{records: make(map[string]*models.RecoveryCode)}
}

func (m *mockCodeStore) Get(accountKey string) (*models.RecoveryCode, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	rec, ok := m.records[accountKey]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (m *mockCodeStore) Put(rec *models.RecoveryCode) error {
	if m.putErr != nil {
		return m.putErr
	}
	cp := *rec
	m.records[rec.AccountKey] = &cp
	return nil
}

func (m *mockCodeStore) Delete(accountKey string) error {
	delete(m.records, accountKey)
	return nil
}

func (m *mockCodeStore) ListAll() ([]*models.RecoveryCode, error) {
	var out []*models.RecoveryCode
	for _, rec := range m.records {
		cp := *rec
		out = append(out, &cp)
	}
	return out, nil
}

type mockUserStore struct {
	byEmail map[string]*models.User
	err     error
}

func newMockUserStore(users ...*models.User) *mockUserStore {
	m := &mockUserStore{byEmail: make(map[string]*models.User)}
	for _, u := range users {
		m.byEmail[u.Email] = u
	}
	return m
}

func (m *mockUserStore) Create(user *models.User) error {
	m.byEmail[user.Email] = user
	return nil
}

func (m *mockUserStore) GetByID(id int) (*models.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserStore) GetByEmail(email string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byEmail[email], nil
}

func (m *mockUserStore) UpdateProfile(user *models.User) error { return nil }

func (m *mockUserStore) UpdatePassword(userID int, passwordHash string) error { return nil }

func (m *mockUserStore) Delete(id int) error { return nil }

func (m *mockUserStore) UpdateRefresh(userID int, token string, expiresAt time.Time) error {
	return nil
}

func (m *mockUserStore) RotateRefresh(oldToken, newToken string, newExpiresAt time.Time) (*models.User, error) {
	return nil, nil
}

func (m *mockUserStore) ClearRefresh(userID int) error { return nil }

func (m *mockUserStore) GetByRefreshToken(token string) (*models.User, error) { return nil, nil }

type sentMessage struct {
	To      string
	Body    string
	Channel string
}

type mockSender struct {
	sent []sentMessage
	fail bool
}

var errSendFailed = errors.New("provider rejected the request")

func (m *mockSender) SendText(to, body string) error {
	if m.fail {
		return errSendFailed
	}
	m.sent = append(m.sent, sentMessage{To: to, Body: body, Channel: "sms"})
	return nil
}

func (m *mockSender) SendVoice(to, spoken string) error {
	if m.fail {
		return errSendFailed
	}
	m.sent = append(m.sent, sentMessage{To: to, Body: spoken, Channel: "voice"})
	return nil
}
