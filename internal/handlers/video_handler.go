package handlers

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/snehitv/vidshare-server/internal/apperror"
	"github.com/snehitv/vidshare-server/internal/middlewares"
	"github.com/snehitv/vidshare-server/internal/models"
	"github.com/snehitv/vidshare-server/internal/store"
	"github.com/snehitv/vidshare-server/internal/store/analytics"
	"github.com/snehitv/vidshare-server/internal/store/cache"
	"github.com/snehitv/vidshare-server/internal/utils"
)

type VideoHandler struct {
	VideoStore   store.VideoStore
	ChannelStore store.ChannelStore
	VideoCache   cache.VideoCache
	ViewStore    analytics.ViewStore
	Logger       *log.Logger
}

func NewVideoHandler(videoStore store.VideoStore, channelStore store.ChannelStore, videoCache cache.VideoCache, viewStore analytics.ViewStore, logger *log.Logger) *VideoHandler {
	return &VideoHandler{
		VideoStore:   videoStore,
		ChannelStore: channelStore,
		VideoCache:   videoCache,
		ViewStore:    viewStore,
		Logger:       logger,
	}
}

type createVideoRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url"`
	VideoURL     string `json:"video_url"`
	Category     string `json:"category"`
	ChannelID    string `json:"channel_id"`
}

func (vh *VideoHandler) HandlerCreateVideo(w http.ResponseWriter, r *http.Request) {

	user, ok := middlewares.GetUserFromContext(r)
	if !ok {
		vh.Logger.Println("No user found in context.")
		utils.WriteError(w, apperror.Unauthorized("Not Authorized"))
		return
	}

	var req createVideoRequest
	if err := utils.ReadJSON(w, r, &req); err != nil {
		vh.Logger.Println("Error decoding create video request:", err)
		utils.WriteError(w, apperror.BadRequest("Bad Request"))
		return
	}

	if req.Title == "" || req.ThumbnailURL == "" || req.VideoURL == "" || req.Category == "" {
		vh.Logger.Println("Error: missing create video fields")
		utils.WriteError(w, apperror.BadRequest("All fields are required"))
		return
	}

	if !store.ValidCategory(req.Category) {
		vh.Logger.Printf("Error: unknown category %q", req.Category)
		utils.WriteError(w, apperror.BadRequest("Unknown category"))
		return
	}

	// Upload goes to the named channel, or to the uploader's own channel
	// when none is named.
	var channel *store.ChannelWithVideos
	var err error
	if req.ChannelID != "" {
		channelID, parseErr := uuid.Parse(req.ChannelID)
		if parseErr != nil {
			vh.Logger.Println("Error parsing channel id:", parseErr)
			utils.WriteError(w, apperror.BadRequest("Invalid channel ID"))
			return
		}
		channel, err = vh.ChannelStore.GetChannelByID(channelID)
	} else {
		channel, err = vh.ChannelStore.GetChannelByOwner(user.ID)
	}
	if err != nil {
		vh.Logger.Println("Error resolving channel for upload:", err)
		utils.WriteError(w, err)
		return
	}
	if channel == nil {
		vh.Logger.Println("Upload without a channel")
		utils.WriteError(w, apperror.BadRequest("Please create a channel first."))
		return
	}

	video := &models.Video{
		Title:       req.Title,
		Description: req.Description,
		Thumbnail:   req.ThumbnailURL,
		VideoURL:    req.VideoURL,
		Category:    req.Category,
		UploaderID:  user.ID,
		Channel_ID:  channel.Id,
	}

	if err := vh.VideoStore.CreateVideo(video); err != nil {
		vh.Logger.Println("Error creating video:", err)
		utils.WriteError(w, err)
		return
	}

	vh.VideoCache.Invalidate(r.Context())

	utils.WriteJSON(w, http.StatusCreated, utils.Envelope{"data": video})
}

func (vh *VideoHandler) HandlerGetVideos(w http.ResponseWriter, r *http.Request) {

	if videos, ok := vh.VideoCache.GetVideos(r.Context()); ok {
		utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": videos})
		return
	}

	videos, err := vh.VideoStore.GetVideos()
	if err != nil {
		vh.Logger.Println("Error getting videos from store:", err)
		utils.WriteError(w, err)
		return
	}

	vh.VideoCache.SetVideos(r.Context(), videos)

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": videos})
}

func (vh *VideoHandler) HandlerGetVideoByID(w http.ResponseWriter, r *http.Request) {

	videoID, err := uuid.Parse(chi.URLParam(r, "videoId"))
	if err != nil {
		vh.Logger.Println("Error parsing video id:", err)
		utils.WriteError(w, apperror.BadRequest("Invalid video ID"))
		return
	}

	video, err := vh.VideoStore.GetVideoByID(videoID)
	if err != nil {
		vh.Logger.Println("Error getting video from store:", err)
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": video})
}

// HandlerSearchVideos keeps the platform's empty-result contract: zero
// matches is a 404, not an empty list.
func (vh *VideoHandler) HandlerSearchVideos(w http.ResponseWriter, r *http.Request) {

	query := r.URL.Query().Get("query")
	if query == "" {
		vh.Logger.Println("Error: search query is missing")
		utils.WriteError(w, apperror.BadRequest("Search query is required"))
		return
	}

	videos, err := vh.VideoStore.SearchVideos(query)
	if err != nil {
		vh.Logger.Println("Error searching videos:", err)
		utils.WriteError(w, err)
		return
	}

	if len(videos) == 0 {
		utils.WriteError(w, &apperror.AppError{Err: apperror.ErrNotFound, Message: "No videos found"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": videos})
}

func (vh *VideoHandler) HandlerDeleteVideo(w http.ResponseWriter, r *http.Request) {

	videoID, err := uuid.Parse(chi.URLParam(r, "videoId"))
	if err != nil {
		vh.Logger.Println("Error parsing video id:", err)
		utils.WriteError(w, apperror.BadRequest("Invalid video ID"))
		return
	}

	if err := vh.VideoStore.DeleteVideo(videoID); err != nil {
		vh.Logger.Println("Error deleting video:", err)
		utils.WriteError(w, err)
		return
	}

	vh.VideoCache.Invalidate(r.Context())

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"message": "Video deleted successfully"})
}

func (vh *VideoHandler) HandlerToggleLike(w http.ResponseWriter, r *http.Request) {

	user, ok := middlewares.GetUserFromContext(r)
	if !ok {
		vh.Logger.Println("No user found in context.")
		utils.WriteError(w, apperror.Unauthorized("Not Authorized"))
		return
	}

	videoID, err := uuid.Parse(chi.URLParam(r, "videoId"))
	if err != nil {
		vh.Logger.Println("Error parsing video id:", err)
		utils.WriteError(w, apperror.BadRequest("Invalid video ID"))
		return
	}

	liked, likes, err := vh.VideoStore.ToggleReaction(videoID, user.ID, store.ReactionLike)
	if err != nil {
		vh.Logger.Println("Error toggling like:", err)
		utils.WriteError(w, err)
		return
	}

	message := "Video unliked"
	if liked {
		message = "Video liked"
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{
		"message": message,
		"likes":   likes,
	})
}

func (vh *VideoHandler) HandlerToggleDislike(w http.ResponseWriter, r *http.Request) {

	user, ok := middlewares.GetUserFromContext(r)
	if !ok {
		vh.Logger.Println("No user found in context.")
		utils.WriteError(w, apperror.Unauthorized("Not Authorized"))
		return
	}

	videoID, err := uuid.Parse(chi.URLParam(r, "videoId"))
	if err != nil {
		vh.Logger.Println("Error parsing video id:", err)
		utils.WriteError(w, apperror.BadRequest("Invalid video ID"))
		return
	}

	disliked, dislikes, err := vh.VideoStore.ToggleReaction(videoID, user.ID, store.ReactionDislike)
	if err != nil {
		vh.Logger.Println("Error toggling dislike:", err)
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{
		"dislikes":   dislikes,
		"isDisliked": disliked,
	})
}

func (vh *VideoHandler) HandlerGetLikeStatus(w http.ResponseWriter, r *http.Request) {

	user, ok := middlewares.GetUserFromContext(r)
	if !ok {
		vh.Logger.Println("No user found in context.")
		utils.WriteError(w, apperror.Unauthorized("Not Authorized"))
		return
	}

	videoID, err := uuid.Parse(chi.URLParam(r, "videoId"))
	if err != nil {
		vh.Logger.Println("Error parsing video id:", err)
		utils.WriteError(w, apperror.BadRequest("Invalid video ID"))
		return
	}

	liked, err := vh.VideoStore.GetLikeStatus(videoID, user.ID)
	if err != nil {
		vh.Logger.Println("Error getting like status:", err)
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"liked": liked})
}

func (vh *VideoHandler) HandlerIncrementViews(w http.ResponseWriter, r *http.Request) {

	videoID, err := uuid.Parse(chi.URLParam(r, "videoId"))
	if err != nil {
		vh.Logger.Println("Error parsing video id:", err)
		utils.WriteError(w, apperror.BadRequest("Invalid video ID"))
		return
	}

	video, err := vh.VideoStore.IncrementViews(videoID)
	if err != nil {
		vh.Logger.Println("Error incrementing views:", err)
		utils.WriteError(w, err)
		return
	}

	// Analytics is best effort; the counter is already persisted.
	if err := vh.ViewStore.RecordView(r.Context(), videoID); err != nil {
		vh.Logger.Println("Error recording view event:", err)
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": video})
}
