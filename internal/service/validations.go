package service

import (
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/stickcal/stickcal/internal/calendar"
	"golang.org/x/crypto/bcrypt"
)

// Package for custom validations
var (
	validate *validator.Validate
	once     sync.Once
)

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		// Canonical YYYY-MM-DD event key, leap years included
		validate.RegisterValidation("datekey", func(fl validator.FieldLevel) bool {
			_, _, _, err := calendar.ParseDateKey(fl.Field().String())
			return err == nil
		})
		// Optional HH:MM on a 24 hour clock
		validate.RegisterValidation("clock24", func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			if len(value) != 5 || value[2] != ':' {
				return false
			}
			for i, char := range value {
				if i == 2 {
					continue
				}
				if char < '0' || char > '9' {
					return false
				}
			}
			hour := int(value[0]-'0')*10 + int(value[1]-'0')
			minute := int(value[3]-'0')*10 + int(value[4]-'0')
			return hour <= 23 && minute <= 59
		})
	})
}

func Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
