package controller

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"arsippro/models"
	"arsippro/store"
	"arsippro/utils"
)

// MailController exposes the archive over a conventional REST surface for
// integrations that authenticate with JWT instead of speaking the legacy
// action protocol. Both surfaces share the same repository.
type MailController struct {
	Repo   store.MailRepository
	Logger *log.Logger
}

func NewMailController(repo store.MailRepository, logger *log.Logger) *MailController {
	return &MailController{
		Repo:   repo,
		Logger: logger,
	}
}

func (mc *MailController) ListMails(c *fiber.Ctx) error {
	mails, err := mc.Repo.ListAll()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list archive entries", err)
	}
	if mails == nil {
		mails = []models.Mail{}
	}
	return c.JSON(utils.SuccessResponse(mails))
}

func (mc *MailController) GetMail(c *fiber.Ctx) error {
	mail, err := mc.Repo.FindByID(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch archive entry", err)
	}
	if mail == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Archive entry not found", nil)
	}
	return c.JSON(utils.SuccessResponse(mail))
}

func (mc *MailController) CreateMail(c *fiber.Ctx) error {
	var mail models.Mail
	if err := c.BodyParser(&mail); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	// REST clients may omit the id; the action protocol requires it because
	// the legacy front end generates its own.
	if mail.ID == "" {
		mail.ID = uuid.NewString()
	}

	if err := utils.ValidateStruct(&mail); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	if existing, err := mc.Repo.FindByID(mail.ID); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to check for existing entry", err)
	} else if existing != nil {
		return utils.ErrorResponse(c, fiber.StatusConflict, "An entry with this id already exists", nil)
	}

	if strings.TrimSpace(mail.ArchiveCode) == "" {
		mail.ArchiveCode = utils.GenerateArchiveCode()
	}
	if strings.TrimSpace(mail.RelatedTo) == "" {
		mail.RelatedTo = "-"
	}

	if err := mc.Repo.Upsert(&mail); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save archive entry", err)
	}

	mc.Logger.Printf("created archive entry %s (%s)", mail.ID, mail.ArchiveCode)
	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(mail))
}

func (mc *MailController) UpdateMail(c *fiber.Ctx) error {
	var mail models.Mail
	if err := c.BodyParser(&mail); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	mail.ID = c.Params("id")

	if err := utils.ValidateStruct(&mail); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), nil)
	}

	existing, err := mc.Repo.FindByID(mail.ID)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch archive entry", err)
	}
	if existing == nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Archive entry not found", nil)
	}

	if strings.TrimSpace(mail.ArchiveCode) == "" {
		mail.ArchiveCode = utils.GenerateArchiveCode()
	}
	if strings.TrimSpace(mail.RelatedTo) == "" {
		mail.RelatedTo = "-"
	}

	// Updates are whole-record overwrites, never field merges.
	if err := mc.Repo.Upsert(&mail); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update archive entry", err)
	}

	return c.JSON(utils.SuccessResponse(mail))
}

func (mc *MailController) DeleteMail(c *fiber.Ctx) error {
	found, err := mc.Repo.Delete(c.Params("id"))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete archive entry", err)
	}
	if !found {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Archive entry not found", nil)
	}
	return c.JSON(fiber.Map{"success": true})
}
