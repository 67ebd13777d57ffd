// Package client implements the archive's store proxy: a thin
// request/response client that turns user intents (login, list, save,
// delete) into JSON-over-HTTP POST calls against the action endpoint, plus
// an in-memory fixture variant for demo and disconnected use.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"arsippro/models"
)

// Principal is the signed-in user as returned by the login action, never
// carrying credentials.
type Principal struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Role     string `json:"role"`
	Username string `json:"username"`
}

// LoginResult mirrors the login action response.
type LoginResult struct {
	Success bool       `json:"success"`
	User    *Principal `json:"user,omitempty"`
	Message string     `json:"message,omitempty"`
}

// SaveResult carries back the server-resolved archive code and file link so
// the caller can reconcile its local copy without refetching.
type SaveResult struct {
	Success     bool   `json:"success"`
	ArchiveCode string `json:"archiveCode,omitempty"`
	FileLink    string `json:"fileLink,omitempty"`
	Message     string `json:"message,omitempty"`
}

// DataSource is the store the UI talks to. It has exactly two
// implementations, remote and fixture, and which one is used is decided once
// at construction. A remote source never falls back to fixtures mid-session;
// transport failures surface as errors so the caller can tell "backend down"
// from "archive empty".
type DataSource interface {
	Login(ctx context.Context, username, password string) (*LoginResult, error)
	GetMails(ctx context.Context) ([]models.Mail, error)
	SaveMail(ctx context.Context, mail *models.Mail, file *models.FilePayload) (*SaveResult, error)
	// DeleteMail reports failure rather than assuming optimistic success;
	// rolling back a local optimistic update is the caller's call.
	DeleteMail(ctx context.Context, id string) error
}

// New selects the data source for the given endpoint: a remote source when
// the endpoint is an absolute http(s) URL, the in-memory fixtures otherwise.
func New(endpoint string) DataSource {
	if isValidEndpoint(endpoint) {
		return NewRemoteSource(endpoint)
	}
	return NewFixtureSource()
}

func isValidEndpoint(endpoint string) bool {
	u, err := url.Parse(endpoint)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// RemoteSource speaks the single-endpoint action protocol.
type RemoteSource struct {
	Endpoint string
	HTTP     *http.Client
}

func NewRemoteSource(endpoint string) *RemoteSource {
	return &RemoteSource{
		Endpoint: endpoint,
		HTTP:     &http.Client{Timeout: 30 * time.Second},
	}
}

type actionEnvelope struct {
	Action   string              `json:"action"`
	Username string              `json:"username,omitempty"`
	Password string              `json:"password,omitempty"`
	Mail     *models.Mail        `json:"mail,omitempty"`
	FileData *models.FilePayload `json:"fileData,omitempty"`
	ID       string              `json:"id,omitempty"`
}

func (rs *RemoteSource) call(ctx context.Context, envelope actionEnvelope, out interface{}) error {
	body, err := json.Marshal(envelope)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rs.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := rs.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("archive request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("malformed archive response: %w", err)
	}
	return nil
}

func (rs *RemoteSource) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var result LoginResult
	err := rs.call(ctx, actionEnvelope{Action: "login", Username: username, Password: password}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (rs *RemoteSource) GetMails(ctx context.Context) ([]models.Mail, error) {
	var result struct {
		Success bool          `json:"success"`
		Mails   []models.Mail `json:"mails"`
		Message string        `json:"message"`
	}
	if err := rs.call(ctx, actionEnvelope{Action: "getMails"}, &result); err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, fmt.Errorf("getMails rejected: %s", result.Message)
	}
	return result.Mails, nil
}

func (rs *RemoteSource) SaveMail(ctx context.Context, mail *models.Mail, file *models.FilePayload) (*SaveResult, error) {
	var result SaveResult
	err := rs.call(ctx, actionEnvelope{Action: "saveMail", Mail: mail, FileData: file}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (rs *RemoteSource) DeleteMail(ctx context.Context, id string) error {
	var result struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := rs.call(ctx, actionEnvelope{Action: "deleteMail", ID: id}, &result); err != nil {
		return err
	}
	if !result.Success {
		return fmt.Errorf("deleteMail rejected: %s", result.Message)
	}
	return nil
}
