package controller

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"arsippro/models"
	"arsippro/store"
	"arsippro/utils"
)

// lockWait bounds how long a request waits for the archive lock before
// giving up, matching the 10s bound the legacy script used.
const lockWait = 10 * time.Second

// ArchiveController serves the single-endpoint action protocol the existing
// front end speaks: one POST route, a JSON body with an "action" field, and
// a JSON response that always carries "success".
type ArchiveController struct {
	Repo   store.MailRepository
	Files  *utils.FileStore
	Logger *log.Logger

	// Global archive lock. Every action runs serialized behind it; the
	// legacy row store had no transactions, and keeping the discipline
	// preserves the observable one-writer-at-a-time behavior clients rely
	// on (e.g. save-then-list ordering).
	lock chan struct{}
}

func NewArchiveController(repo store.MailRepository, files *utils.FileStore, logger *log.Logger) *ArchiveController {
	return &ArchiveController{
		Repo:   repo,
		Files:  files,
		Logger: logger,
		lock:   make(chan struct{}, 1),
	}
}

// actionRequest is the envelope for every action call. Only the fields
// relevant to the requested action are expected to be set.
type actionRequest struct {
	Action   string              `json:"action"`
	Username string              `json:"username"`
	Password string              `json:"password"`
	Mail     *models.Mail        `json:"mail"`
	FileData *models.FilePayload `json:"fileData"`
	ID       string              `json:"id"`
}

// Liveness answers bare GETs with a plaintext string, a health-check
// affordance only.
func (ac *ArchiveController) Liveness(c *fiber.Ctx) error {
	return c.SendString("ArsipPro API is Running.")
}

// Handle is the single POST entry point. Responses are always HTTP 200 with
// a JSON body; failures are reported through the success/message fields, the
// contract the front end expects.
func (ac *ArchiveController) Handle(c *fiber.Ctx) error {
	select {
	case ac.lock <- struct{}{}:
	case <-time.After(lockWait):
		ac.Logger.Println("archive lock wait timed out")
		return c.JSON(fiber.Map{
			"success": false,
			"message": "server busy, please try again",
		})
	}
	defer func() { <-ac.lock }()

	// Parse the raw body as JSON whatever the Content-Type; the legacy
	// front end posts as text/plain to avoid CORS preflights.
	var req actionRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.JSON(fiber.Map{
			"success": false,
			"message": "invalid request body",
		})
	}

	var (
		result fiber.Map
		err    error
	)
	switch req.Action {
	case "login":
		result, err = ac.handleLogin(req.Username, req.Password)
	case "getMails":
		result, err = ac.handleGetMails()
	case "saveMail":
		result, err = ac.handleSaveMail(req.Mail, req.FileData)
	case "deleteMail":
		result, err = ac.handleDeleteMail(req.ID)
	default:
		result = fiber.Map{"success": false, "message": "unrecognized action"}
	}

	if err != nil {
		ac.Logger.Printf("action %q failed: %v", req.Action, err)
		return c.JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}
	return c.JSON(result)
}

func (ac *ArchiveController) handleLogin(username, password string) (fiber.Map, error) {
	user, err := ac.Repo.FindUserByUsername(username)
	if err != nil {
		return nil, err
	}
	// Same generic message whether the account is missing or the password
	// is wrong.
	if user == nil {
		return fiber.Map{"success": false, "message": "incorrect username or password"}, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return fiber.Map{"success": false, "message": "incorrect username or password"}, nil
	}

	return fiber.Map{
		"success": true,
		"user": fiber.Map{
			"id":       fmt.Sprint(user.ID),
			"name":     user.Name,
			"position": user.Position,
			"role":     user.Role,
			"username": user.Username,
		},
	}, nil
}

func (ac *ArchiveController) handleGetMails() (fiber.Map, error) {
	mails, err := ac.Repo.ListAll()
	if err != nil {
		return nil, err
	}
	if mails == nil {
		mails = []models.Mail{}
	}
	return fiber.Map{"success": true, "mails": mails}, nil
}

func (ac *ArchiveController) handleSaveMail(mail *models.Mail, fileData *models.FilePayload) (fiber.Map, error) {
	if mail == nil {
		return nil, fmt.Errorf("missing mail payload")
	}
	if err := utils.ValidateStruct(mail); err != nil {
		return nil, err
	}

	if strings.TrimSpace(mail.ArchiveCode) == "" {
		mail.ArchiveCode = utils.GenerateArchiveCode()
	}
	if strings.TrimSpace(mail.RelatedTo) == "" {
		mail.RelatedTo = "-"
	}

	// Attachment upload is best-effort: a failed upload is logged and the
	// record is still saved, just without a hosted link.
	if fileData != nil && fileData.Content != "" {
		link, err := ac.Files.Save(fileData)
		if err != nil {
			ac.Logger.Printf("attachment upload failed for mail %s: %v", mail.ID, err)
		} else {
			mail.FileLink = link
		}
	}

	if err := ac.Repo.Upsert(mail); err != nil {
		return nil, err
	}

	// Return the resolved code and link so the caller can reconcile its
	// local copy without refetching.
	return fiber.Map{
		"success":     true,
		"archiveCode": mail.ArchiveCode,
		"fileLink":    mail.FileLink,
	}, nil
}

func (ac *ArchiveController) handleDeleteMail(id string) (fiber.Map, error) {
	if id == "" {
		return nil, fmt.Errorf("missing id")
	}
	found, err := ac.Repo.Delete(id)
	if err != nil {
		return nil, err
	}
	if !found {
		ac.Logger.Printf("deleteMail: no entry with id %s", id)
	}
	// Deleting an absent id is still success; the caller only cares that
	// the id is gone.
	return fiber.Map{"success": true}, nil
}
