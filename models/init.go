package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedDefaultUsers creates the two bootstrap accounts on first run so a fresh
// install is immediately usable. Unlike the legacy sheet these are stored
// bcrypt-hashed; operators should change both passwords after setup.
func SeedDefaultUsers(db *gorm.DB) error {
	defaults := []struct {
		user     User
		password string
	}{
		{
			user: User{
				Name:     "Super Admin",
				Position: "Kepala Bagian",
				Role:     RoleAdmin,
				Username: "admin",
			},
			password: "admin123",
		},
		{
			user: User{
				Name:     "Staf Arsip",
				Position: "Staf Administrasi",
				Role:     RoleUser,
				Username: "user",
			},
			password: "user123",
		},
	}

	for _, d := range defaults {
		var existing User
		err := db.Where("username = ?", d.user.Username).First(&existing).Error
		if err == nil {
			continue
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(d.password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		d.user.PasswordHash = string(hashed)
		if err := db.Create(&d.user).Error; err != nil {
			return err
		}
	}
	return nil
}
