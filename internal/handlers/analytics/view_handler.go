package analytics

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/snehitv/vidshare-server/internal/apperror"
	"github.com/snehitv/vidshare-server/internal/store/analytics"
	"github.com/snehitv/vidshare-server/internal/utils"
)

type ViewHandler struct {
	ViewStore analytics.ViewStore
	Logger    *log.Logger
}

func NewViewHandler(viewStore analytics.ViewStore, logger *log.Logger) *ViewHandler {
	return &ViewHandler{
		ViewStore: viewStore,
		Logger:    logger,
	}
}

func (vh *ViewHandler) HandlerGetViewTimeline(w http.ResponseWriter, r *http.Request) {

	videoID, err := uuid.Parse(chi.URLParam(r, "videoId"))
	if err != nil {
		vh.Logger.Println("Error parsing video id:", err)
		utils.WriteError(w, apperror.BadRequest("Invalid video ID"))
		return
	}

	timeline, err := vh.ViewStore.GetViewTimeline(r.Context(), videoID)
	if err != nil {
		vh.Logger.Println("Error getting view timeline from store:", err)
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": timeline})
}
