package service

import (
	"github.com/workdiary/backend/internal/domain"
)

// SheetRepository is re-exported from domain for convenience
type SheetRepository = domain.SheetRepository
