package http

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/workdiary/backend/internal/domain"
	"github.com/workdiary/backend/internal/service"
)

// Handler contains all HTTP handlers
type Handler struct {
	complianceSvc *service.ComplianceService
	sheetSvc      *service.SheetService
	oversightSvc  *service.OversightService
	repo          service.SheetRepository
}

// NewHandler creates a new handler
func NewHandler(
	complianceSvc *service.ComplianceService,
	sheetSvc *service.SheetService,
	oversightSvc *service.OversightService,
	repo service.SheetRepository,
) *Handler {
	return &Handler{
		complianceSvc: complianceSvc,
		sheetSvc:      sheetSvc,
		oversightSvc:  oversightSvc,
		repo:          repo,
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	database := "ok"
	if err := h.repo.Health(c.Context()); err != nil {
		log.Printf("Health check: %v", err)
		database = "unavailable"
	}

	return c.JSON(fiber.Map{
		"status":   "ok",
		"service":  "workdiary-backend",
		"version":  "1.0.0",
		"database": database,
	})
}

// CheckCompliance evaluates an ad-hoc week of days
func (h *Handler) CheckCompliance(c *fiber.Ctx) error {
	var req domain.ComplianceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if req.Days == nil {
		return fiber.NewError(fiber.StatusBadRequest, "days is required")
	}
	if len(req.Days) > 7 {
		return fiber.NewError(fiber.StatusBadRequest, "days must contain at most 7 entries")
	}

	findings := h.complianceSvc.Check(c.Context(), req)
	return c.JSON(domain.ComplianceResponse{Results: findings})
}

// SaveSheet stores a week of a driver's diary
func (h *Handler) SaveSheet(c *fiber.Ctx) error {
	var sheet domain.Sheet
	if err := c.BodyParser(&sheet); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	saved, err := h.sheetSvc.Save(c.Context(), sheet)
	if errors.Is(err, domain.ErrInvalidSheet) {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err != nil {
		log.Printf("Failed to save sheet: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to save sheet")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    saved,
	})
}

// GetSheetCompliance evaluates a stored sheet with its previous week
func (h *Handler) GetSheetCompliance(c *fiber.Ctx) error {
	findings, err := h.sheetSvc.Evaluate(c.Context(), c.Params("id"))
	if errors.Is(err, domain.ErrSheetNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Sheet not found")
	}
	if err != nil {
		log.Printf("Failed to evaluate sheet: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to evaluate sheet")
	}

	return c.JSON(domain.ComplianceResponse{Results: findings})
}

// GetOversight returns the batch report over every stored sheet
func (h *Handler) GetOversight(c *fiber.Ctx) error {
	report, err := h.oversightSvc.Run(c.Context(), service.ReportOptions{
		OnlyViolations: c.QueryBool("onlyViolations", false),
	})
	if err != nil {
		log.Printf("Failed to build oversight report: %v", err)
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to build oversight report")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    report,
	})
}
