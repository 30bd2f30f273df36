package api

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"faqbot/batch"
	"faqbot/centers"
	"faqbot/events"
	"faqbot/types"
)

type EventsHandler struct {
	discoverer  *events.Discoverer
	coordinator *batch.Coordinator
	centers     *centers.Service
	log         *zap.Logger
}

func NewEventsHandler(d *events.Discoverer, c *batch.Coordinator, cs *centers.Service, log *zap.Logger) *EventsHandler {
	return &EventsHandler{
		discoverer:  d,
		coordinator: c,
		centers:     cs,
		log:         log,
	}
}

// HandleDiscover runs discovery for one center synchronously.
func (h *EventsHandler) HandleDiscover(c *fiber.Ctx) error {
	var params types.DiscoverParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}

	if errors := types.Validate(&params); len(errors) > 0 {
		return NewValidationError(errors)
	}

	result := h.discoverer.Discover(c.Context(), params.CenterInfo())
	return c.JSON(result)
}

// HandleBatch registers a batch run and processes it in the background.
// Responds immediately with the run ID for status polling.
func (h *EventsHandler) HandleBatch(c *fiber.Ctx) error {
	var params types.BatchParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}

	if errors := types.Validate(&params); len(errors) > 0 {
		return NewValidationError(errors)
	}

	centerInfos := make([]types.CenterInfo, len(params.Centers))
	for i, p := range params.Centers {
		centerInfos[i] = p.CenterInfo()
	}

	run, err := h.coordinator.CreateRun(c.Context(), centerInfos)
	if err != nil {
		return err
	}

	// The request context dies with the response, so processing runs on a
	// fresh background context.
	go h.coordinator.Process(context.Background(), run.RunID, centerInfos, params.SendEmails)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"run_id":        run.RunID,
		"status":        run.Status,
		"message":       "batch processing started",
		"started_at":    run.StartedAt,
		"total_centers": run.TotalCenters,
	})
}

// HandleStatus returns the current snapshot of a batch run.
func (h *EventsHandler) HandleStatus(c *fiber.Ctx) error {
	runID := c.Params("run_id")

	run, err := h.coordinator.GetStatus(c.Context(), runID)
	if err != nil {
		if errors.Is(err, types.ErrRunNotFound) {
			return ErrNotFound(runID, "batch run")
		}
		return err
	}
	return c.JSON(run)
}

// HandleSyncCenters refreshes the center roster from the data API.
func (h *EventsHandler) HandleSyncCenters(c *fiber.Ctx) error {
	if h.centers == nil {
		return ErrUnavailable("center sync is not configured")
	}
	synced, err := h.centers.Sync(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"synced": synced})
}

// HandleRunBatch starts a batch over every active center in the roster.
func (h *EventsHandler) HandleRunBatch(c *fiber.Ctx) error {
	if h.centers == nil {
		return ErrUnavailable("center roster is not configured")
	}
	return h.runRosterBatch(c)
}

// HandleSyncAndRun syncs the roster, then starts a batch over it.
func (h *EventsHandler) HandleSyncAndRun(c *fiber.Ctx) error {
	if h.centers == nil {
		return ErrUnavailable("center sync is not configured")
	}
	if _, err := h.centers.Sync(c.Context()); err != nil {
		h.log.Warn("roster sync before batch failed", zap.Error(err))
	}
	return h.runRosterBatch(c)
}

func (h *EventsHandler) runRosterBatch(c *fiber.Ctx) error {
	roster, err := h.centers.ListActive(c.Context())
	if err != nil {
		return err
	}
	if len(roster) == 0 {
		return NewError(fiber.StatusConflict, "no active centers in roster")
	}

	run, err := h.coordinator.CreateRun(c.Context(), roster)
	if err != nil {
		return err
	}
	go h.coordinator.Process(context.Background(), run.RunID, roster, true)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"run_id":        run.RunID,
		"status":        run.Status,
		"message":       "batch processing started",
		"started_at":    run.StartedAt,
		"total_centers": run.TotalCenters,
	})
}
