package utils

import "errors"

var (
	ErrReportNotFound         = errors.New("report not found")
	ErrMatchNotFound          = errors.New("match not found")
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailTaken             = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidStatus          = errors.New("invalid report status")
	ErrInvalidKind            = errors.New("invalid report kind")
	ErrDatabaseError          = errors.New("database error")
	ErrEmbeddingUnavailable   = errors.New("embedding unavailable")
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")
)
