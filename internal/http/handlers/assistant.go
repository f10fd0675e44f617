package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vigiahub/assistant-backend/internal/assistant"
	"github.com/vigiahub/assistant-backend/internal/http/response"
	"github.com/vigiahub/assistant-backend/internal/platform/logger"
)

type AssistantHandler struct {
	log *logger.Logger
	svc *assistant.Service
}

func NewAssistantHandler(log *logger.Logger, svc *assistant.Service) *AssistantHandler {
	return &AssistantHandler{
		log: log.With("handler", "AssistantHandler"),
		svc: svc,
	}
}

// POST /api/assistant
//
// Internal failures are masked as HTTP 200 with the localized fallback answer
// so the chat UI never renders a hard error; only input validation gets a 4xx.
func (h *AssistantHandler) Ask(c *gin.Context) {
	var req assistant.Request

	defer func() {
		if r := recover(); r != nil {
			h.log.Error("Assistant pipeline panicked", "panic", fmt.Sprint(r))
			lang := assistant.DetectLanguage(req.Prompt)
			c.JSON(http.StatusOK, gin.H{
				"error":    "Internal error",
				"response": assistant.FallbackMessage(lang),
				"details":  fmt.Sprint(r),
			})
		}
	}()

	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		response.RespondError(c, http.StatusBadRequest, "Prompt is required")
		return
	}

	reply := h.svc.Answer(c.Request.Context(), req)
	response.RespondOK(c, reply)
}
