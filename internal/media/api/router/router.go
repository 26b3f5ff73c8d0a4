package router

import (
	"media_ingest_service/internal/media/api/handlers"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes 注册媒體服務的路由
func RegisterRoutes(app *fiber.App,
	uploadHandler *handlers.UploadHandler,
	catalogHandler *handlers.CatalogHandler,
	filmHandler *handlers.FilmHandler,
) {
	app.Get("/", handlers.ConnectCheck)
	app.Post("/debug", handlers.DebugLogFlag)

	mediaRoutes := app.Group("/media")
	mediaRoutes.Post("/upload", uploadHandler.UploadVideo)
	mediaRoutes.Post("/teaser/upload", uploadHandler.UploadTeaser)
	mediaRoutes.Get("/", catalogHandler.ListAssets)
	mediaRoutes.Get("/:id", catalogHandler.GetAsset)
	mediaRoutes.Delete("/:id", catalogHandler.DeleteAsset)

	app.Get("/stream/:category/:slug/:filename", catalogHandler.Stream)

	filmRoutes := app.Group("/film")
	filmRoutes.Post("/", filmHandler.CreateCurrentFilm)
	filmRoutes.Get("/", filmHandler.GetCurrentFilm)
	filmRoutes.Delete("/", filmHandler.DeleteCurrentFilm)
}
