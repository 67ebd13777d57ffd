package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arsippro/models"
)

func TestNewSelectsSourceOnce(t *testing.T) {
	assert.IsType(t, &FixtureSource{}, New(""))
	assert.IsType(t, &FixtureSource{}, New("not a url"))
	assert.IsType(t, &FixtureSource{}, New("ftp://example.com/exec"))
	assert.IsType(t, &RemoteSource{}, New("http://localhost:5000/"))
	assert.IsType(t, &RemoteSource{}, New("https://arsip.example.com/"))
}

func newActionServer(t *testing.T, handler func(map[string]interface{}) interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(handler(req)))
	}))
}

func TestRemoteLogin(t *testing.T) {
	srv := newActionServer(t, func(req map[string]interface{}) interface{} {
		assert.Equal(t, "login", req["action"])
		if req["username"] == "admin" && req["password"] == "admin123" {
			return map[string]interface{}{
				"success": true,
				"user": map[string]string{
					"id": "1", "name": "Super Admin", "role": "ADMIN", "username": "admin",
				},
			}
		}
		return map[string]interface{}{"success": false, "message": "incorrect username or password"}
	})
	defer srv.Close()

	rs := NewRemoteSource(srv.URL)

	result, err := rs.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	require.True(t, result.Success)
	require.NotNil(t, result.User)
	assert.Equal(t, "ADMIN", result.User.Role)

	result, err = rs.Login(context.Background(), "admin", "nope")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Nil(t, result.User)
	assert.NotEmpty(t, result.Message)
}

func TestRemoteGetMails(t *testing.T) {
	srv := newActionServer(t, func(req map[string]interface{}) interface{} {
		assert.Equal(t, "getMails", req["action"])
		return map[string]interface{}{
			"success": true,
			"mails": []map[string]string{
				{"id": "a", "date": "2024-06-01", "subject": "Rapat", "type": "INCOMING"},
			},
		}
	})
	defer srv.Close()

	mails, err := NewRemoteSource(srv.URL).GetMails(context.Background())
	require.NoError(t, err)
	require.Len(t, mails, 1)
	assert.Equal(t, "Rapat", mails[0].Subject)
}

func TestRemoteSaveMail(t *testing.T) {
	srv := newActionServer(t, func(req map[string]interface{}) interface{} {
		assert.Equal(t, "saveMail", req["action"])
		require.NotNil(t, req["mail"])
		require.NotNil(t, req["fileData"])
		return map[string]interface{}{
			"success":     true,
			"archiveCode": "ARS-20240601-4321",
			"fileLink":    "http://localhost:5000/files/x.pdf",
		}
	})
	defer srv.Close()

	mail := &models.Mail{
		ID:              uuid.NewString(),
		Date:            "2024-06-01",
		ReferenceNumber: "SK/2024/009",
		Recipient:       "Camat",
		Subject:         "Pemberitahuan",
		Type:            models.MailOutgoing,
	}
	file := &models.FilePayload{Name: "x.pdf", MimeType: "application/pdf", Content: "aGFsbG8="}

	result, err := NewRemoteSource(srv.URL).SaveMail(context.Background(), mail, file)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, "ARS-20240601-4321", result.ArchiveCode)
	assert.Equal(t, "http://localhost:5000/files/x.pdf", result.FileLink)
}

func TestRemoteDeleteMailSurfacesFailure(t *testing.T) {
	srv := newActionServer(t, func(req map[string]interface{}) interface{} {
		assert.Equal(t, "deleteMail", req["action"])
		if req["id"] == "ok" {
			return map[string]interface{}{"success": true}
		}
		return map[string]interface{}{"success": false, "message": "server busy"}
	})
	defer srv.Close()

	rs := NewRemoteSource(srv.URL)
	assert.NoError(t, rs.DeleteMail(context.Background(), "ok"))
	assert.Error(t, rs.DeleteMail(context.Background(), "rejected"))
}

func TestRemoteTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	rs := NewRemoteSource(endpoint)

	// No silent fixture fallback: a dead backend is an error the caller sees
	_, err := rs.Login(context.Background(), "admin", "admin123")
	assert.Error(t, err)
	_, err = rs.GetMails(context.Background())
	assert.Error(t, err)
	assert.Error(t, rs.DeleteMail(context.Background(), "x"))
}

func TestRemoteMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := NewRemoteSource(srv.URL).GetMails(context.Background())
	assert.Error(t, err)
}

func TestFixtureLogin(t *testing.T) {
	fs := NewFixtureSource()

	result, err := fs.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, models.RoleAdmin, result.User.Role)

	result, err = fs.Login(context.Background(), "user", "user123")
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, models.RoleUser, result.User.Role)

	result, err = fs.Login(context.Background(), "admin", "wrong")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Message)
}

func TestFixtureRoundtrip(t *testing.T) {
	fs := NewFixtureSource()
	ctx := context.Background()

	initial, err := fs.GetMails(ctx)
	require.NoError(t, err)
	require.Len(t, initial, 1)

	mail := &models.Mail{
		ID:              uuid.NewString(),
		Date:            "2025-01-15",
		ReferenceNumber: "SK/2025/001",
		Recipient:       "Bupati",
		Subject:         "Laporan Tahunan",
		Type:            models.MailOutgoing,
	}
	result, err := fs.SaveMail(ctx, mail, nil)
	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Regexp(t, `^ARS-\d{8}-\d{4}$`, result.ArchiveCode)

	mails, err := fs.GetMails(ctx)
	require.NoError(t, err)
	require.Len(t, mails, 2)
	// Newest date first
	assert.Equal(t, mail.ID, mails[0].ID)

	require.NoError(t, fs.DeleteMail(ctx, mail.ID))
	mails, err = fs.GetMails(ctx)
	require.NoError(t, err)
	assert.Len(t, mails, 1)
}
