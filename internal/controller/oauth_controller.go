package controller

import (
	"fmt"
	"log"

	"ai-editor-be/internal/config"
	"ai-editor-be/internal/pkg/serverutils"
	"ai-editor-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IOAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Callback(ctx *fiber.Ctx) error
}

type oauthController struct {
	service service.IOAuthService
	cfg     *config.Config
}

func NewOAuthController(service service.IOAuthService, cfg *config.Config) IOAuthController {
	return &oauthController{service: service, cfg: cfg}
}

func (c *oauthController) RegisterRoutes(r fiber.Router) {
	// e.g., /auth/oauth/google
	h := r.Group("/auth/oauth")
	h.Get("/:provider", c.Login)
	h.Get("/:provider/callback", c.Callback)
}

func (c *oauthController) Login(ctx *fiber.Ctx) error {
	provider := ctx.Params("provider")

	url, err := c.service.GetLoginURL(provider)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	return ctx.Redirect(url)
}

func (c *oauthController) Callback(ctx *fiber.Ctx) error {
	provider := ctx.Params("provider")
	code := ctx.Query("code")

	if code == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Missing code"))
	}

	res, err := c.service.HandleCallback(ctx.Context(), provider, code)
	if err != nil {
		log.Printf("[OAuth] ERROR - HandleCallback failed: %v", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	// Hand the token to the SPA via redirect; it has no access to our
	// response body during a top-level navigation.
	redirectURL := fmt.Sprintf("%s/app?token=%s", c.cfg.App.ClientURL, res.AccessToken)

	return ctx.Redirect(redirectURL, fiber.StatusTemporaryRedirect)
}
