package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/snehitv/vidshare-server/internal/app"
)

func SetupRoutes(app *app.Application) *chi.Mux {
	r := chi.NewRouter()

	r.Use(httprate.LimitAll(200, time.Minute))
	r.Use(app.MiddlewareHandler.RequestLogger)
	r.Use(app.MiddlewareHandler.Security)

	r.Route("/api", func(r chi.Router) {
		r.Use(httprate.LimitAll(100, time.Minute))
		r.Use(app.MiddlewareHandler.Cors)

		r.Route("/users", func(r chi.Router) {
			r.Post("/register", app.UserHandler.HandlerRegisterUser)
			r.Post("/login", app.UserHandler.HandlerLoginUser)

			r.Group(func(r chi.Router) {
				r.Use(app.MiddlewareHandler.Authenticate)
				r.Get("/profile", app.UserHandler.HandlerGetUserProfile)
			})
		})

		r.Route("/videos", func(r chi.Router) {
			r.Get("/", app.VideoHandler.HandlerGetVideos)
			r.Get("/search", app.VideoHandler.HandlerSearchVideos)
			r.Get("/{videoId}", app.VideoHandler.HandlerGetVideoByID)
			r.Patch("/{videoId}/views", app.VideoHandler.HandlerIncrementViews)
			r.Get("/{videoId}/analytics", app.ViewHandler.HandlerGetViewTimeline)

			r.Group(func(r chi.Router) {
				r.Use(app.MiddlewareHandler.Authenticate)
				r.Post("/", app.VideoHandler.HandlerCreateVideo)
				r.Delete("/{videoId}", app.VideoHandler.HandlerDeleteVideo)
				r.Post("/{videoId}/like", app.VideoHandler.HandlerToggleLike)
				r.Post("/{videoId}/dislike", app.VideoHandler.HandlerToggleDislike)
				r.Get("/{videoId}/status", app.VideoHandler.HandlerGetLikeStatus)
			})
		})

		r.Route("/channels", func(r chi.Router) {
			r.Get("/{channelId}", app.ChannelHandler.HandlerGetChannel)
			r.Get("/{channelId}/stats", app.ChannelHandler.HandlerGetChannelStats)

			r.Group(func(r chi.Router) {
				r.Use(app.MiddlewareHandler.Authenticate)
				r.Post("/", app.ChannelHandler.HandlerCreateChannel)
				r.Delete("/{channelId}", app.ChannelHandler.HandlerDeleteChannel)
				r.Post("/{channelId}/subscribe", app.ChannelHandler.HandlerToggleSubscription)
				r.Get("/user/{userId}", app.ChannelHandler.HandlerGetChannelByUser)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/{videoId}", app.CommentHandler.HandlerGetComments)

			r.Group(func(r chi.Router) {
				r.Use(app.MiddlewareHandler.Authenticate)
				r.Post("/", app.CommentHandler.HandlerAddComment)
				r.Delete("/{commentId}", app.CommentHandler.HandlerDeleteComment)
			})
		})
	})

	return r
}
