package main

import (
	"log"
	"os"

	"github.com/comparepco/comparepco-production-sub002/routes"
	"github.com/comparepco/comparepco-production-sub002/storage"
	"github.com/comparepco/comparepco-production-sub002/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeS3()
	storage.InitializeRedis()

	app := iris.New()
	app.Validator = validator.New()

	// CORS for the admin dashboard and partner portal
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	api := app.Party("/api")
	{
		auth := api.Party("/auth")
		{
			auth.Post("/register", routes.Register)
			auth.Post("/login", routes.Login)
			auth.Post("/sso/partner", routes.PartnerSSOLogin)
			auth.Post("/refresh", refreshTokenVerifierMiddleware, utils.RefreshToken)
		}

		documents := api.Party("/documents", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
		{
			documents.Post("/", routes.SubmitDocument)
			documents.Get("/", routes.ListMyDocuments)
		}

		notifications := api.Party("/notifications", accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware)
		{
			notifications.Get("/", routes.GetMyNotifications)
			notifications.Post("/{id:uint}/read", routes.MarkNotificationRead)
		}

		admin := api.Party("/admin", accessTokenVerifierMiddleware, utils.StaffOnlyMiddleware)
		{
			admin.Get("/documents", routes.AdminListDocuments)
			admin.Get("/documents/{id:uint}", routes.AdminGetDocument)
			admin.Post("/documents/{id:uint}/approve", routes.AdminApproveDocument)
			admin.Post("/documents/{id:uint}/reject", routes.AdminRejectDocument)
			admin.Post("/documents/bulk", routes.AdminBulkDocuments)
			admin.Delete("/documents/{id:uint}", utils.AdminOnlyMiddleware, routes.AdminDeleteDocument)

			admin.Get("/partners", routes.AdminListPartners)
			admin.Get("/partners/{id:uint}", routes.AdminGetPartner)
			admin.Get("/drivers", routes.AdminListDrivers)
			admin.Get("/drivers/{id:uint}", routes.AdminGetDriver)

			admin.Get("/stats", routes.AdminStats)
			admin.Get("/stats/compliance", routes.AdminComplianceStats)
			admin.Get("/activity", routes.AdminActivity)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	log.Println("🚀 comparepco back office listening on :" + port)
	app.Listen(":" + port)
}
