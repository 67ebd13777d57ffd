package client

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"arsippro/models"
	"arsippro/utils"
)

// Demo accounts recognized by the fixture source. These match the accounts a
// fresh server install seeds, so a UI built against fixtures works unchanged
// against a real backend.
var demoUsers = map[string]struct {
	password  string
	principal Principal
}{
	"admin": {
		password: "admin123",
		principal: Principal{
			ID:       "1",
			Name:     "Super Admin",
			Position: "Kepala Bagian",
			Role:     models.RoleAdmin,
			Username: "admin",
		},
	},
	"user": {
		password: "user123",
		principal: Principal{
			ID:       "2",
			Name:     "Staf Arsip",
			Position: "Staf Administrasi",
			Role:     models.RoleUser,
			Username: "user",
		},
	},
}

// FixtureSource keeps the archive in memory. It backs demo mode and tests;
// unlike the remote source it actually honors saves and deletes within the
// session so the UI behaves realistically.
type FixtureSource struct {
	mu    sync.Mutex
	mails map[string]models.Mail
}

func NewFixtureSource() *FixtureSource {
	seed := models.Mail{
		ID:              uuid.NewString(),
		Date:            "2024-03-20",
		ReferenceNumber: "SK/2024/001",
		Recipient:       "Kepala Dinas",
		Subject:         "Undangan Rapat Koordinasi Tahunan (Demo)",
		RelatedTo:       "-",
		ArchiveCode:     "UND-01",
		Type:            models.MailIncoming,
		Description:     "Segera ditindaklanjuti",
	}
	return &FixtureSource{
		mails: map[string]models.Mail{seed.ID: seed},
	}
}

func (fs *FixtureSource) Login(_ context.Context, username, password string) (*LoginResult, error) {
	if entry, ok := demoUsers[username]; ok && entry.password == password {
		principal := entry.principal
		return &LoginResult{Success: true, User: &principal}, nil
	}
	return &LoginResult{Success: false, Message: "incorrect username or password (demo mode)"}, nil
}

func (fs *FixtureSource) GetMails(_ context.Context) ([]models.Mail, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	mails := make([]models.Mail, 0, len(fs.mails))
	for _, m := range fs.mails {
		mails = append(mails, m)
	}
	sort.SliceStable(mails, func(i, j int) bool {
		return mails[i].Date > mails[j].Date
	})
	return mails, nil
}

func (fs *FixtureSource) SaveMail(_ context.Context, mail *models.Mail, _ *models.FilePayload) (*SaveResult, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	saved := *mail
	if strings.TrimSpace(saved.ArchiveCode) == "" {
		saved.ArchiveCode = utils.GenerateArchiveCode()
	}
	if strings.TrimSpace(saved.RelatedTo) == "" {
		saved.RelatedTo = "-"
	}
	fs.mails[saved.ID] = saved

	return &SaveResult{
		Success:     true,
		ArchiveCode: saved.ArchiveCode,
		FileLink:    saved.FileLink,
	}, nil
}

func (fs *FixtureSource) DeleteMail(_ context.Context, id string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	delete(fs.mails, id)
	return nil
}
