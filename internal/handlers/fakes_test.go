package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/snehitv/vidshare-server/internal/apperror"
	"github.com/snehitv/vidshare-server/internal/middlewares"
	"github.com/snehitv/vidshare-server/internal/models"
	"github.com/snehitv/vidshare-server/internal/store"
	"github.com/snehitv/vidshare-server/internal/store/analytics"
)

// fakeStore is an in-memory stand-in for the Postgres stores. It mirrors
// the database semantics the handlers rely on: unique constraints, foreign
// keys, cascading deletes and reaction exclusivity.
type fakeStore struct {
	mu            sync.Mutex
	users         map[uuid.UUID]*models.User
	channels      map[uuid.UUID]*models.Channel
	videos        []*models.Video
	comments      []*models.Comment
	reactions     map[uuid.UUID]map[uuid.UUID]store.Reaction
	subscriptions map[uuid.UUID]map[uuid.UUID]bool
	viewEvents    map[uuid.UUID]int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         make(map[uuid.UUID]*models.User),
		channels:      make(map[uuid.UUID]*models.Channel),
		reactions:     make(map[uuid.UUID]map[uuid.UUID]store.Reaction),
		subscriptions: make(map[uuid.UUID]map[uuid.UUID]bool),
		viewEvents:    make(map[uuid.UUID]int),
	}
}

func (fs *fakeStore) CreateUser(user *models.User) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for _, u := range fs.users {
		if u.Email == user.Email {
			return apperror.Conflict("User already exists")
		}
	}

	user.ID = uuid.New()
	user.Created_At = time.Now()
	user.Updated_At = user.Created_At
	fs.users[user.ID] = user
	return nil
}

func (fs *fakeStore) GetUserByEmail(email string) (*models.User, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for _, u := range fs.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperror.NotFound("User")
}

func (fs *fakeStore) GetUserByID(id uuid.UUID) (*models.User, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	u, ok := fs.users[id]
	if !ok {
		return nil, apperror.NotFound("User")
	}
	return u, nil
}

func (fs *fakeStore) CreateChannel(channel *models.Channel) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for _, c := range fs.channels {
		if c.OwnerID == channel.OwnerID {
			return apperror.Conflict("You already have a channel.")
		}
	}

	channel.Id = uuid.New()
	channel.Created_At = time.Now()
	channel.Updated_At = channel.Created_At
	fs.channels[channel.Id] = channel
	return nil
}

func (fs *fakeStore) GetChannelByID(channelID uuid.UUID) (*store.ChannelWithVideos, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	c, ok := fs.channels[channelID]
	if !ok {
		return nil, apperror.NotFound("Channel")
	}
	return fs.channelWithVideosLocked(c), nil
}

func (fs *fakeStore) GetChannelByOwner(userID uuid.UUID) (*store.ChannelWithVideos, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for _, c := range fs.channels {
		if c.OwnerID == userID {
			return fs.channelWithVideosLocked(c), nil
		}
	}
	return nil, nil
}

func (fs *fakeStore) channelWithVideosLocked(c *models.Channel) *store.ChannelWithVideos {
	out := &store.ChannelWithVideos{
		Channel:         *c,
		SubscriberCount: len(fs.subscriptions[c.Id]),
		Videos:          []models.Video{},
	}
	for _, v := range fs.videos {
		if v.Channel_ID == c.Id {
			out.Videos = append(out.Videos, *v)
		}
	}
	return out
}

func (fs *fakeStore) DeleteChannel(channelID uuid.UUID) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, ok := fs.channels[channelID]; !ok {
		return apperror.NotFound("Channel")
	}
	delete(fs.channels, channelID)
	delete(fs.subscriptions, channelID)

	kept := fs.videos[:0]
	for _, v := range fs.videos {
		if v.Channel_ID == channelID {
			fs.removeVideoRowsLocked(v.Id)
			continue
		}
		kept = append(kept, v)
	}
	fs.videos = kept
	return nil
}

func (fs *fakeStore) removeVideoRowsLocked(videoID uuid.UUID) {
	delete(fs.reactions, videoID)
	kept := fs.comments[:0]
	for _, c := range fs.comments {
		if c.Video_ID != videoID {
			kept = append(kept, c)
		}
	}
	fs.comments = kept
}

func (fs *fakeStore) ToggleSubscription(channelID uuid.UUID, userID uuid.UUID) (bool, int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, ok := fs.channels[channelID]; !ok {
		return false, 0, apperror.NotFound("Channel")
	}

	subs := fs.subscriptions[channelID]
	if subs == nil {
		subs = make(map[uuid.UUID]bool)
		fs.subscriptions[channelID] = subs
	}

	if subs[userID] {
		delete(subs, userID)
		return false, len(subs), nil
	}
	subs[userID] = true
	return true, len(subs), nil
}

func (fs *fakeStore) GetChannelStats(channelID uuid.UUID) (*store.ChannelStats, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, ok := fs.channels[channelID]; !ok {
		return nil, apperror.NotFound("Channel")
	}

	stats := &store.ChannelStats{Subscribers: len(fs.subscriptions[channelID])}
	for _, v := range fs.videos {
		if v.Channel_ID == channelID {
			stats.Videos++
			stats.TotalViews += v.Views
		}
	}
	return stats, nil
}

func (fs *fakeStore) CreateVideo(video *models.Video) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, ok := fs.channels[video.Channel_ID]; !ok {
		return apperror.NotFound("Channel")
	}

	video.Id = uuid.New()
	video.Created_At = time.Now()
	video.Updated_At = video.Created_At
	fs.videos = append(fs.videos, video)
	return nil
}

func (fs *fakeStore) GetVideos() ([]store.VideoWithChannel, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	out := []store.VideoWithChannel{}
	for _, v := range fs.videos {
		out = append(out, store.VideoWithChannel{Video: *v, ChannelName: fs.channelNameLocked(v.Channel_ID)})
	}
	return out, nil
}

func (fs *fakeStore) channelNameLocked(channelID uuid.UUID) string {
	if c, ok := fs.channels[channelID]; ok {
		return c.Name
	}
	return ""
}

func (fs *fakeStore) GetVideoByID(videoID uuid.UUID) (*store.VideoDetail, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for _, v := range fs.videos {
		if v.Id == videoID {
			detail := &store.VideoDetail{Video: *v, Comments: []store.CommentWithAuthor{}}
			if c, ok := fs.channels[v.Channel_ID]; ok {
				detail.ChannelName = c.Name
				detail.ChannelBanner = c.Banner
			}
			for _, reaction := range fs.reactions[videoID] {
				if reaction == store.ReactionLike {
					detail.Likes++
				} else {
					detail.Dislikes++
				}
			}
			for _, cm := range fs.comments {
				if cm.Video_ID == videoID {
					detail.Comments = append(detail.Comments, fs.commentWithAuthorLocked(cm))
				}
			}
			return detail, nil
		}
	}
	return nil, apperror.NotFound("Video")
}

func (fs *fakeStore) SearchVideos(query string) ([]store.VideoWithChannel, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	q := strings.ToLower(query)
	out := []store.VideoWithChannel{}
	for _, v := range fs.videos {
		if strings.Contains(strings.ToLower(v.Title), q) ||
			strings.Contains(strings.ToLower(v.Description), q) ||
			strings.Contains(strings.ToLower(v.Category), q) {
			out = append(out, store.VideoWithChannel{Video: *v, ChannelName: fs.channelNameLocked(v.Channel_ID)})
		}
	}
	return out, nil
}

func (fs *fakeStore) DeleteVideo(videoID uuid.UUID) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for i, v := range fs.videos {
		if v.Id == videoID {
			fs.videos = append(fs.videos[:i], fs.videos[i+1:]...)
			fs.removeVideoRowsLocked(videoID)
			return nil
		}
	}
	return apperror.NotFound("Video")
}

func (fs *fakeStore) ToggleReaction(videoID uuid.UUID, userID uuid.UUID, reaction store.Reaction) (bool, int, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	found := false
	for _, v := range fs.videos {
		if v.Id == videoID {
			found = true
			break
		}
	}
	if !found {
		return false, 0, apperror.NotFound("Video")
	}

	reactions := fs.reactions[videoID]
	if reactions == nil {
		reactions = make(map[uuid.UUID]store.Reaction)
		fs.reactions[videoID] = reactions
	}

	active := true
	if reactions[userID] == reaction {
		delete(reactions, userID)
		active = false
	} else {
		reactions[userID] = reaction
	}

	count := 0
	for _, r := range reactions {
		if r == reaction {
			count++
		}
	}
	return active, count, nil
}

func (fs *fakeStore) GetLikeStatus(videoID uuid.UUID, userID uuid.UUID) (bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	return fs.reactions[videoID][userID] == store.ReactionLike, nil
}

func (fs *fakeStore) IncrementViews(videoID uuid.UUID) (*models.Video, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for _, v := range fs.videos {
		if v.Id == videoID {
			v.Views++
			out := *v
			return &out, nil
		}
	}
	return nil, apperror.NotFound("Video")
}

func (fs *fakeStore) CreateComment(comment *models.Comment) (*store.CommentWithAuthor, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	found := false
	for _, v := range fs.videos {
		if v.Id == comment.Video_ID {
			found = true
			break
		}
	}
	if !found {
		return nil, apperror.NotFound("Video")
	}

	comment.Id = uuid.New()
	comment.Created_At = time.Now()
	fs.comments = append(fs.comments, comment)
	out := fs.commentWithAuthorLocked(comment)
	return &out, nil
}

func (fs *fakeStore) commentWithAuthorLocked(comment *models.Comment) store.CommentWithAuthor {
	out := store.CommentWithAuthor{Comment: *comment}
	if u, ok := fs.users[comment.User_ID]; ok {
		out.Username = u.Username
	}
	return out
}

func (fs *fakeStore) GetCommentsByVideoID(videoID uuid.UUID) ([]store.CommentWithAuthor, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	out := []store.CommentWithAuthor{}
	for _, c := range fs.comments {
		if c.Video_ID == videoID {
			out = append(out, fs.commentWithAuthorLocked(c))
		}
	}
	return out, nil
}

func (fs *fakeStore) GetCommentByID(commentID uuid.UUID) (*models.Comment, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for _, c := range fs.comments {
		if c.Id == commentID {
			return c, nil
		}
	}
	return nil, apperror.NotFound("Comment")
}

func (fs *fakeStore) DeleteComment(commentID uuid.UUID) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	for i, c := range fs.comments {
		if c.Id == commentID {
			fs.comments = append(fs.comments[:i], fs.comments[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("Comment")
}

func (fs *fakeStore) RecordView(ctx context.Context, videoID uuid.UUID) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.viewEvents[videoID]++
	return nil
}

func (fs *fakeStore) GetViewTimeline(ctx context.Context, videoID uuid.UUID) ([]analytics.DailyViews, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if n := fs.viewEvents[videoID]; n > 0 {
		return []analytics.DailyViews{{Day: time.Now().Truncate(24 * time.Hour), Views: uint64(n)}}, nil
	}
	return []analytics.DailyViews{}, nil
}

// fakeCache records listing cache traffic so tests can assert hits and
// invalidations without Redis.
type fakeCache struct {
	mu            sync.Mutex
	videos        []store.VideoWithChannel
	populated     bool
	invalidations int
}

func (fc *fakeCache) GetVideos(ctx context.Context) ([]store.VideoWithChannel, bool) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return fc.videos, fc.populated
}

func (fc *fakeCache) SetVideos(ctx context.Context, videos []store.VideoWithChannel) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.videos = videos
	fc.populated = true
}

func (fc *fakeCache) Invalidate(ctx context.Context) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.videos = nil
	fc.populated = false
	fc.invalidations++
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func seedUser(t *testing.T, fs *fakeStore, username, email string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: email, PasswordHash: "x"}
	require.NoError(t, fs.CreateUser(user))
	return user
}

func seedChannel(t *testing.T, fs *fakeStore, ownerID uuid.UUID, name string) *models.Channel {
	t.Helper()
	channel := &models.Channel{Name: name, OwnerID: ownerID}
	require.NoError(t, fs.CreateChannel(channel))
	return channel
}

func seedVideo(t *testing.T, fs *fakeStore, channelID, uploaderID uuid.UUID, title string) *models.Video {
	t.Helper()
	video := &models.Video{
		Title:      title,
		Thumbnail:  "https://cdn.example.com/t.png",
		VideoURL:   "https://cdn.example.com/v.mp4",
		Category:   "Music",
		UploaderID: uploaderID,
		Channel_ID: channelID,
	}
	require.NoError(t, fs.CreateVideo(video))
	return video
}

func jsonRequest(t *testing.T, method, target string, payload interface{}) *http.Request {
	t.Helper()
	var body io.Reader
	if payload != nil {
		js, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(js)
	}
	return httptest.NewRequest(method, target, body)
}

func asUser(r *http.Request, userID uuid.UUID) *http.Request {
	ctx := context.WithValue(r.Context(), middlewares.UserContextKey, &models.User{ID: userID})
	return r.WithContext(ctx)
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}
