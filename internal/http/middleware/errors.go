package middleware

import (
	"errors"

	"github.com/yungbote/docqa-backend/internal/services"
)

var errCredentials = errors.New(services.CredentialsErrorMessage)
