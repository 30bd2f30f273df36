package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"faqbot/resolver"
	"faqbot/types"
)

type FAQHandler struct {
	resolver *resolver.Resolver
	log      *zap.Logger
}

func NewFAQHandler(r *resolver.Resolver, log *zap.Logger) *FAQHandler {
	return &FAQHandler{resolver: r, log: log}
}

// HandleFAQ resolves a question through the answer tiers. It always returns
// 200 with an answer; which tier produced it is reported in "source".
func (h *FAQHandler) HandleFAQ(c *fiber.Ctx) error {
	var params types.FAQParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}

	if errors := types.Validate(&params); len(errors) > 0 {
		return NewValidationError(errors)
	}

	answer := h.resolver.Resolve(c.Context(), params.Question)

	h.log.Info("question resolved",
		zap.String("tier", answer.Tier),
		zap.Float64("score", answer.Score))

	return c.JSON(answer)
}
