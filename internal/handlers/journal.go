// internal/handlers/journal.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/farmdirect-backend/internal/services"
	"github.com/javajoker/farmdirect-backend/internal/utils"
)

type JournalHandler struct {
	journalService *services.JournalService
}

func NewJournalHandler(journalService *services.JournalService) *JournalHandler {
	return &JournalHandler{
		journalService: journalService,
	}
}

// GET /journal/verify
func (h *JournalHandler) Verify(c *gin.Context) {
	report, err := h.journalService.Verify(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessResponse(c, report)
}

// GET /journal/records/:address
func (h *JournalHandler) GetRecordHistory(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	entries, total, err := h.journalService.ListForRecord(c.Request.Context(), c.Param("address"), params)
	if err != nil {
		respondError(c, err)
		return
	}

	result := utils.CreatePaginationResult(entries, total, params)
	utils.PaginatedResponse(c, result)
}
