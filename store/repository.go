package store

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"arsippro/models"
)

// MailRepository is the only access path to the archive tables. The action
// endpoint and the REST controllers both go through it so locking and
// transaction discipline live in one place.
type MailRepository interface {
	FindByID(id string) (*models.Mail, error)
	// Upsert inserts the mail or fully replaces the existing row with the
	// same ID in a single atomic write. Updates are whole-record overwrites;
	// there are no partial-field patches.
	Upsert(mail *models.Mail) error
	// Delete removes the row with the given ID and reports whether a row
	// actually existed.
	Delete(id string) (bool, error)
	// ListAll returns every entry, both directions combined, newest date
	// first.
	ListAll() ([]models.Mail, error)

	FindUserByUsername(username string) (*models.User, error)
	FindUserByID(id uint) (*models.User, error)
}

type gormMailRepository struct {
	db *gorm.DB
}

func NewMailRepository(db *gorm.DB) MailRepository {
	return &gormMailRepository{db: db}
}

func (r *gormMailRepository) FindByID(id string) (*models.Mail, error) {
	var mail models.Mail
	if err := r.db.Where("id = ?", id).First(&mail).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &mail, nil
}

func (r *gormMailRepository) Upsert(mail *models.Mail) error {
	// Insert-or-replace keyed on the primary key. This replaces the legacy
	// delete-then-append sequence, which could lose the record on a crash
	// between the two steps.
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(mail).Error
}

func (r *gormMailRepository) Delete(id string) (bool, error) {
	res := r.db.Where("id = ?", id).Delete(&models.Mail{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *gormMailRepository) ListAll() ([]models.Mail, error) {
	var mails []models.Mail
	// Dates are stored as YYYY-MM-DD text, so lexicographic order is
	// chronological. Blank-ID rows are legacy import sentinels and skipped.
	err := r.db.Where("id <> ''").Order("date DESC").Find(&mails).Error
	if err != nil {
		return nil, err
	}
	return mails, nil
}

func (r *gormMailRepository) FindUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *gormMailRepository) FindUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
