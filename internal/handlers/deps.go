package handlers

import (
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/retrovault/backend/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	Validator       *validator.Validate
	SyncSvc         syncService
}
