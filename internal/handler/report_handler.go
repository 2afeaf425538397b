package handler

import (
	"errors"
	"strconv"
	"time"

	"pdv-backend/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// parsePeriod reads start/end query params, defaulting to the last 30
// days. The end date is inclusive.
func parsePeriod(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now()
	start := now.AddDate(0, 0, -30)
	end := now

	if raw := c.Query("start"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return start, end, errors.New("invalid start date, use YYYY-MM-DD")
		}
		start = parsed
	}
	if raw := c.Query("end"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return start, end, errors.New("invalid end date, use YYYY-MM-DD")
		}
		end = parsed.AddDate(0, 0, 1)
	}
	return start, end, nil
}

// GetSummary aggregates sales and orders over a period
// GET /api/v1/reports/summary?start=&end=
func (h *ReportHandler) GetSummary(c *fiber.Ctx) error {
	start, end, err := parsePeriod(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	summary, err := h.reportService.Summary(start, end)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(summary)
}

// yearWeek reads year/week params, defaulting to the current ISO week.
func yearWeek(c *fiber.Ctx) (int, int, error) {
	year, week := time.Now().ISOWeek()

	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 2000 || parsed > 2200 {
			return 0, 0, errors.New("invalid year")
		}
		year = parsed
	}
	if raw := c.Query("week"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 53 {
			return 0, 0, errors.New("invalid week, use 1-53")
		}
		week = parsed
	}
	return year, week, nil
}

// GenerateWeekly computes or recomputes a weekly report
// POST /api/v1/reports/weekly?year=&week=
func (h *ReportHandler) GenerateWeekly(c *fiber.Ctx) error {
	year, week, err := yearWeek(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	report, err := h.reportService.GenerateWeekly(year, week, actorFromCtx(c))
	if err != nil {
		if errors.Is(err, service.ErrReportFinalized) {
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// FinalizeWeekly freezes a weekly report against regeneration
// POST /api/v1/reports/weekly/finalize?year=&week=
func (h *ReportHandler) FinalizeWeekly(c *fiber.Ctx) error {
	year, week, err := yearWeek(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	report, err := h.reportService.FinalizeWeekly(year, week, actorFromCtx(c))
	if err != nil {
		if errors.Is(err, service.ErrReportNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// GetWeekly returns a stored weekly report
// GET /api/v1/reports/weekly?year=&week=
func (h *ReportHandler) GetWeekly(c *fiber.Ctx) error {
	year, week, err := yearWeek(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	report, err := h.reportService.GetWeekly(year, week)
	if err != nil {
		return c.Status(404).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}

// ListWeekly lists stored weekly reports over a period
// GET /api/v1/reports/weekly/history?start=&end=
func (h *ReportHandler) ListWeekly(c *fiber.Ctx) error {
	start, end, err := parsePeriod(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	reports, err := h.reportService.ListWeekly(start, end)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"reports": reports, "count": len(reports)})
}
