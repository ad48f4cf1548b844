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
	"github.com/snehitv/vidshare-server/internal/utils"
)

type CommentHandler struct {
	CommentStore store.CommentStore
	Logger       *log.Logger
}

func NewCommentHandler(commentStore store.CommentStore, logger *log.Logger) *CommentHandler {
	return &CommentHandler{
		CommentStore: commentStore,
		Logger:       logger,
	}
}

type addCommentRequest struct {
	VideoID string `json:"video_id"`
	Text    string `json:"text"`
}

func (ch *CommentHandler) HandlerAddComment(w http.ResponseWriter, r *http.Request) {

	user, ok := middlewares.GetUserFromContext(r)
	if !ok {
		ch.Logger.Println("No user found in context.")
		utils.WriteError(w, apperror.Unauthorized("Not Authorized"))
		return
	}

	var req addCommentRequest
	if err := utils.ReadJSON(w, r, &req); err != nil {
		ch.Logger.Println("Error decoding add comment request:", err)
		utils.WriteError(w, apperror.BadRequest("Bad Request"))
		return
	}

	if req.VideoID == "" || req.Text == "" {
		ch.Logger.Println("Error: missing add comment fields")
		utils.WriteError(w, apperror.BadRequest("Video ID and text are required"))
		return
	}

	videoID, err := uuid.Parse(req.VideoID)
	if err != nil {
		ch.Logger.Println("Error parsing video id:", err)
		utils.WriteError(w, apperror.BadRequest("Invalid video ID"))
		return
	}

	comment := &models.Comment{
		Video_ID: videoID,
		User_ID:  user.ID,
		Text:     req.Text,
	}

	created, err := ch.CommentStore.CreateComment(comment)
	if err != nil {
		ch.Logger.Println("Error creating comment:", err)
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.Envelope{"data": created})
}

func (ch *CommentHandler) HandlerGetComments(w http.ResponseWriter, r *http.Request) {

	videoID, err := uuid.Parse(chi.URLParam(r, "videoId"))
	if err != nil {
		ch.Logger.Println("Error parsing video id:", err)
		utils.WriteError(w, apperror.BadRequest("Invalid video ID"))
		return
	}

	comments, err := ch.CommentStore.GetCommentsByVideoID(videoID)
	if err != nil {
		ch.Logger.Println("Error getting comments from store:", err)
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"data": comments})
}

// HandlerDeleteComment lets only the author remove a comment.
func (ch *CommentHandler) HandlerDeleteComment(w http.ResponseWriter, r *http.Request) {

	user, ok := middlewares.GetUserFromContext(r)
	if !ok {
		ch.Logger.Println("No user found in context.")
		utils.WriteError(w, apperror.Unauthorized("Not Authorized"))
		return
	}

	commentID, err := uuid.Parse(chi.URLParam(r, "commentId"))
	if err != nil {
		ch.Logger.Println("Error parsing comment id:", err)
		utils.WriteError(w, apperror.BadRequest("Invalid comment ID"))
		return
	}

	comment, err := ch.CommentStore.GetCommentByID(commentID)
	if err != nil {
		ch.Logger.Println("Error getting comment from store:", err)
		utils.WriteError(w, err)
		return
	}

	if comment.User_ID != user.ID {
		ch.Logger.Println("Comment delete attempt by non-author")
		utils.WriteError(w, apperror.Forbidden("Unauthorized action"))
		return
	}

	if err := ch.CommentStore.DeleteComment(commentID); err != nil {
		ch.Logger.Println("Error deleting comment:", err)
		utils.WriteError(w, err)
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.Envelope{"message": "Comment deleted successfully"})
}
