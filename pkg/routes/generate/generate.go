// Package generate runs individual report sections on demand against
// the latest stored forms for a client, without waiting for the
// auto-match pipeline.
package generate

import (
	"fmt"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/clover/internal/repositories/formstore"
	clovercontext "github.com/Ramsey-B/clover/pkg/context"
	"github.com/Ramsey-B/clover/pkg/extractors"
	"github.com/Ramsey-B/clover/pkg/fieldmap"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/utils"
	"github.com/Ramsey-B/clover/pkg/workflow"
)

// Register registers the section generation routes.
func Register(g *echo.Group) {
	for path, sectionID := range sectionRoutes {
		g.POST("/generate/"+path, sectionHandler(sectionID))
	}
	g.POST("/generate/report", GenerateReport)
}

// sectionRoutes maps route names to extractor section IDs.
var sectionRoutes = map[string]string{
	"personal":           "personal_information",
	"assets-liabilities": "assets_liabilities",
	"scope":              "scope_of_advice",
	"life":               "life_insurance",
	"trauma":             "trauma_insurance",
	"income-protection":  "income_protection",
	"health":             "health_insurance",
	"accidental-injury":  "accidental_injury",
	"quotes":             "insurance_quotes",
}

// Request identifies the client whose stored forms to use.
type Request struct {
	Email string `json:"email" validate:"required,email"`
}

// SectionResponse carries one generated section.
type SectionResponse struct {
	Email   string         `json:"email"`
	Section string         `json:"section"`
	Result  map[string]any `json:"result"`
}

// ReportResponse carries the full advisory report text.
type ReportResponse struct {
	Email  string `json:"email"`
	Report string `json:"report"`
}

func sectionHandler(sectionID string) echo.HandlerFunc {
	return func(c echo.Context) error {
		req, err := utils.BindRequest[Request](c)
		if err != nil {
			return err
		}

		ctx := clovercontext.SetClientEmail(c.Request().Context(), req.Email)
		c.SetRequest(c.Request().WithContext(ctx))

		combined, err := loadCombined(c, req.Email)
		if err != nil {
			return err
		}

		section, ok := extractors.ByID(sectionID)
		if !ok {
			return httperror.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("unknown section %q", sectionID))
		}

		return c.JSON(http.StatusOK, SectionResponse{
			Email:   req.Email,
			Section: sectionID,
			Result:  section.Extract(combined),
		})
	}
}

// GenerateReport renders the full advisory report text from the latest
// stored forms.
func GenerateReport(c echo.Context) error {
	req, err := utils.BindRequest[Request](c)
	if err != nil {
		return err
	}

	ctx := clovercontext.SetClientEmail(c.Request().Context(), req.Email)
	c.SetRequest(c.Request().WithContext(ctx))

	ctx, store, err := ectoinject.GetContext[*formstore.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	ctx, mapper, err := ectoinject.GetContext[*fieldmap.Mapper](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	ffRaw, err := store.LatestByEmail(ctx, formstore.FactFind, req.Email)
	if err != nil {
		return err
	}
	afRaw, err := store.LatestByEmail(ctx, formstore.AutomationForm, req.Email)
	if err != nil {
		return err
	}
	if ffRaw == nil && afRaw == nil {
		return httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("no stored forms found for %s", req.Email))
	}

	var ff *models.FactFind
	if ffRaw != nil {
		ff = models.NewFactFind(ffRaw, mapper)
	}
	var af *models.AutomationForm
	if afRaw != nil {
		af = models.NewAutomationForm(afRaw, mapper)
	}

	return c.JSON(http.StatusOK, ReportResponse{
		Email:  req.Email,
		Report: workflow.Report(ff, af),
	})
}

// loadCombined merges the latest stored submissions for the email. The
// automation form is merged last so its values win on key collisions.
func loadCombined(c echo.Context, email string) (map[string]any, error) {
	ctx, store, err := ectoinject.GetContext[*formstore.Repository](c.Request().Context())
	if err != nil {
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	ffRaw, err := store.LatestByEmail(ctx, formstore.FactFind, email)
	if err != nil {
		return nil, err
	}
	afRaw, err := store.LatestByEmail(ctx, formstore.AutomationForm, email)
	if err != nil {
		return nil, err
	}
	if ffRaw == nil && afRaw == nil {
		return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("no stored forms found for %s", email))
	}

	combined := map[string]any{}
	for k, v := range ffRaw {
		combined[k] = v
	}
	for k, v := range afRaw {
		combined[k] = v
	}
	return combined, nil
}
