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
	"github.com/snehitv/vidshare-server/internal/store/cache"
	"github.com/snehitv/vidshare-server/internal/utils"
)

type ChannelHandler struct {
	ChannelStore store.ChannelStore
	VideoCache   cache.VideoCache
	Logger       *log.Logger
}

func NewChannelHandler(channelStore store.ChannelStore, videoCache cache.VideoCache, logger *log.Logger) *ChannelHandler {
	return &ChannelHandler{
		ChannelStore: channelStore,
		VideoCache:   videoCache,
		Logger:       logger,
	}
}

type createChannelRequest struct {
	ChannelName   string `json:"channel_name"`
	Description   string `json:"description"`
	ChannelBanner string `json:"channel_banner"`
}

func (ch *ChannelHandler) HandlerCreateChannel(w http.ResponseWriter, r *http.Request) {

	user, ok := middlewares.GetUserFromContext(r)
	if !ok {
		ch.Logger.Println("No user found in context.")
		utils.WriteError(w, apperror.Unauthorized("Not Authorized"))
		return
	}

	var req createChannelRequest
	if err := utils.ReadJSON(w, r, &req); err != nil {
		ch.Logger.Println("Error decoding create channel request:", err)
		utils.WriteError(w, apperror.BadRequest("Bad Request"))
		return
	}

	if req.ChannelName == "" {
		ch.Logger.Println("Error: channel name is missing")
		utils.WriteError(w, apperror.BadRequest("Channel name is required"))
		return
	}

	channel := &models.Channel{
		Name:        req.ChannelName,
		Description: req.Description,
		Banner:      req.ChannelBanner,
		OwnerID:     user.ID,
	}

	if err := ch.ChannelStore.CreateChannel(channel); err != nil {
		ch.Logger.Println("Error creating channel:", err)
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.Envelope{"data": channel})
}

func (ch *ChannelHandler) HandlerGetChannel(w http.ResponseWriter, r *http.Request) {

	channelID, err := uuid.Parse(chi.URLParam(r, "channelId"))
	if err != nil {
		ch.Logger.Println("Error parsing channel id:", err)
		utils.WriteError(w, apperror.BadRequest("Invalid channel ID"))
		return
	}

	channel, err := ch.ChannelStore.GetChannelByID(channelID)
	if err != nil {
		ch.Logger.Println("Error getting channel from store:", err)
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": channel})
}

// HandlerGetChannelByUser returns data null when the user has no channel.
// Clients rely on that to show the "create a channel" flow, so it is not an
// error.
func (ch *ChannelHandler) HandlerGetChannelByUser(w http.ResponseWriter, r *http.Request) {

	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		ch.Logger.Println("Error parsing user id:", err)
		utils.WriteError(w, apperror.BadRequest("Invalid user ID"))
		return
	}

	channel, err := ch.ChannelStore.GetChannelByOwner(userID)
	if err != nil {
		ch.Logger.Println("Error getting channel by owner from store:", err)
		utils.WriteError(w, err)
		return
	}

	if channel == nil {
		utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": nil})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": channel})
}

func (ch *ChannelHandler) HandlerDeleteChannel(w http.ResponseWriter, r *http.Request) {

	id := chi.URLParam(r, "channelId")
	if id == "" {
		ch.Logger.Println("Error: channel id parameter is missing")
		utils.WriteError(w, apperror.BadRequest("Channel ID is missing"))
		return
	}

	channelID, err := uuid.Parse(id)
	if err != nil {
		ch.Logger.Println("Error parsing channel id:", err)
		utils.WriteError(w, apperror.BadRequest("Invalid channel ID"))
		return
	}

	if err := ch.ChannelStore.DeleteChannel(channelID); err != nil {
		ch.Logger.Println("Error deleting channel:", err)
		utils.WriteError(w, err)
		return
	}

	// The channel's videos went with it.
	ch.VideoCache.Invalidate(r.Context())

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"message": "Channel and related videos deleted"})
}

func (ch *ChannelHandler) HandlerToggleSubscription(w http.ResponseWriter, r *http.Request) {

	user, ok := middlewares.GetUserFromContext(r)
	if !ok {
		ch.Logger.Println("No user found in context.")
		utils.WriteError(w, apperror.Unauthorized("Not Authorized"))
		return
	}

	channelID, err := uuid.Parse(chi.URLParam(r, "channelId"))
	if err != nil {
		ch.Logger.Println("Error parsing channel id:", err)
		utils.WriteError(w, apperror.BadRequest("Invalid channel ID"))
		return
	}

	subscribed, subscribers, err := ch.ChannelStore.ToggleSubscription(channelID, user.ID)
	if err != nil {
		ch.Logger.Println("Error toggling subscription:", err)
		utils.WriteError(w, err)
		return
	}

	message := "Unsubscribed"
	if subscribed {
		message = "Subscribed"
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{
		"message":     message,
		"subscribers": subscribers,
	})
}

func (ch *ChannelHandler) HandlerGetChannelStats(w http.ResponseWriter, r *http.Request) {

	channelID, err := uuid.Parse(chi.URLParam(r, "channelId"))
	if err != nil {
		ch.Logger.Println("Error parsing channel id:", err)
		utils.WriteError(w, apperror.BadRequest("Invalid channel ID"))
		return
	}

	stats, err := ch.ChannelStore.GetChannelStats(channelID)
	if err != nil {
		ch.Logger.Println("Error getting channel stats:", err)
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": stats})
}
