// Package configure manages the Zapier webhook settings.
package configure

import (
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/clover/internal/repositories/webhookconfig"
	"github.com/Ramsey-B/clover/pkg/utils"
	"github.com/Ramsey-B/clover/pkg/webhook"
)

// Register registers the webhook configuration routes.
func Register(g *echo.Group) {
	g.POST("/configure/zapier", SetZapierConfig)
	g.GET("/configure/zapier", GetZapierConfig)
}

// Request carries the webhook settings to apply. Zero values for the
// retry and timeout knobs fall back to the defaults.
type Request struct {
	Enabled           bool              `json:"enabled"`
	WebhookURL        string            `json:"zapier_webhook_url" validate:"omitempty,url"`
	RetryAttempts     int               `json:"retry_attempts" validate:"omitempty,min=1,max=10"`
	RetryDelaySeconds int               `json:"retry_delay_seconds" validate:"omitempty,min=1,max=300"`
	TimeoutSeconds    int               `json:"timeout_seconds" validate:"omitempty,min=1,max=300"`
	Headers           map[string]string `json:"headers"`
}

// Response echoes the stored settings with the webhook URL masked.
type Response struct {
	Enabled           bool              `json:"enabled"`
	WebhookURL        string            `json:"zapier_webhook_url"`
	Configured        bool              `json:"configured"`
	RetryAttempts     int               `json:"retry_attempts"`
	RetryDelaySeconds int               `json:"retry_delay_seconds"`
	TimeoutSeconds    int               `json:"timeout_seconds"`
	Headers           map[string]string `json:"headers"`
}

// SetZapierConfig stores new webhook settings.
func SetZapierConfig(c echo.Context) error {
	req, err := utils.BindRequest[Request](c)
	if err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*webhookconfig.Repository](c.Request().Context())
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	cfg := webhook.DefaultConfig()
	cfg.Enabled = req.Enabled
	if req.WebhookURL != "" {
		cfg.WebhookURL = req.WebhookURL
	}
	if req.RetryAttempts > 0 {
		cfg.RetryAttempts = req.RetryAttempts
	}
	if req.RetryDelaySeconds > 0 {
		cfg.RetryDelaySeconds = req.RetryDelaySeconds
	}
	if req.TimeoutSeconds > 0 {
		cfg.TimeoutSeconds = req.TimeoutSeconds
	}
	for k, v := range req.Headers {
		cfg.Headers[k] = v
	}

	if err := repo.Save(ctx, cfg); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toResponse(cfg))
}

// GetZapierConfig returns the stored settings. The webhook URL carries
// a shared secret, only a masked form is returned.
func GetZapierConfig(c echo.Context) error {
	_, repo, err := ectoinject.GetContext[*webhookconfig.Repository](c.Request().Context())
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	return c.JSON(http.StatusOK, toResponse(repo.Load()))
}

func toResponse(cfg webhook.Config) Response {
	return Response{
		Enabled:           cfg.Enabled,
		WebhookURL:        maskURL(cfg.WebhookURL),
		Configured:        cfg.Configured(),
		RetryAttempts:     cfg.RetryAttempts,
		RetryDelaySeconds: cfg.RetryDelaySeconds,
		TimeoutSeconds:    cfg.TimeoutSeconds,
		Headers:           cfg.Headers,
	}
}

// maskURL keeps the host visible but hides the hook path, which is the
// secret part of a Zapier URL.
func maskURL(url string) string {
	if url == "" {
		return ""
	}
	idx := strings.Index(url, "://")
	if idx < 0 {
		return "****"
	}
	rest := url[idx+3:]
	slash := strings.Index(rest, "/")
	if slash < 0 {
		return url
	}
	return url[:idx+3] + rest[:slash] + "/****"
}
