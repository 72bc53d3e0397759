package database

import (
	"log"

	"lemburan/models"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init opens the database and migrates the schema. The default admin is
// seeded with adminPassword when no admin account exists yet.
func Init(dsn, adminPassword string) error {
	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return errors.Wrap(err, "opening database")
	}

	if err := Migrate(DB); err != nil {
		return err
	}

	return seedDefaultAdmin(DB, adminPassword)
}

func Migrate(db *gorm.DB) error {
	return errors.Wrap(db.AutoMigrate(&models.User{}, &models.OvertimeRecord{}), "migrating schema")
}

func seedDefaultAdmin(db *gorm.DB, password string) error {
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", "admin").Count(&count).Error; err != nil {
		return errors.Wrap(err, "checking default admin")
	}
	if count > 0 {
		return nil
	}

	if _, err := CreateUser(db, "admin", "Administrator", password, models.RoleAdmin); err != nil {
		return err
	}

	log.Println("Default admin user created (username: admin)")
	return nil
}

// CreateUser stores a new account that must change its password on first
// login.
func CreateUser(db *gorm.DB, username, fullName, password string, role models.Role) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hashing password")
	}

	user := &models.User{
		Username:           username,
		FullName:           fullName,
		PasswordHash:       string(hashedPassword),
		Role:               role,
		MustChangePassword: true,
	}
	if err := db.Create(user).Error; err != nil {
		return nil, errors.Wrapf(err, "creating user %s", username)
	}
	return user, nil
}

func GetDB() *gorm.DB {
	return DB
}
