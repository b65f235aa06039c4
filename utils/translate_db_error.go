package utils

import (
	"errors"
	"strings"

	"github.com/jackc/pgconn"
	"gorm.io/gorm"
)

// TranslateDBError turns low-level database errors into user-facing messages.
func TranslateDBError(err error) string {
	if err == nil {
		return ""
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // Unique violation
			msg := "Duplicate value, please use another"
			if strings.Contains(pgErr.Message, "users_email_key") {
				msg = "Email already exists"
			} else if strings.Contains(pgErr.Message, "file_hash") {
				msg = "This file has already been uploaded"
			} else if strings.Contains(pgErr.Message, "subjects_code_key") {
				msg = "Subject code already exists"
			}
			return msg

		case "23503":
			return "This record is referenced by another table"

		case "23502":
			return "Some required fields are missing"

		case "22P02":
			return "Invalid data format"
		}

		return "A database error occurred"
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "Record not found"
	}

	lowerErr := strings.ToLower(err.Error())
	if strings.Contains(lowerErr, "context deadline exceeded") {
		return "Request timeout"
	}
	if strings.Contains(lowerErr, "context canceled") {
		return "Request was cancelled"
	}

	return err.Error()
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint error.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
