package repositories

import (
	"github.com/anonto42/socialpulse/backend/internal/apperrors"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

const duplicateMessage = "Resource already exists"

// translate maps "no rows" from either driver to a NotFound error carrying msg, a unique-key
// violation to Conflict, and wraps everything else as a storage failure tagged with op.
func translate(err error, msg, op string) error {
	return translateInsert(err, duplicateMessage, msg, op)
}

// translateInsert is translate with a caller-specific message for unique-key violations.
// Duplicate keys surface as gorm.ErrDuplicatedKey only when the DB was opened with
// TranslateError.
func translateInsert(err error, conflictMsg, notFoundMsg, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, mongo.ErrNoDocuments) {
		return apperrors.NotFound(notFoundMsg)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || mongo.IsDuplicateKeyError(err) {
		return apperrors.Conflict(conflictMsg)
	}
	return apperrors.Storage(err, op)
}
