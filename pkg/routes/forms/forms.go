// Package forms receives fact-find and automation form submissions.
package forms

import (
	"encoding/json"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/clover/internal/repositories/formstore"
	"github.com/Ramsey-B/clover/pkg/automatch"
	clovercontext "github.com/Ramsey-B/clover/pkg/context"
	"github.com/Ramsey-B/clover/pkg/events"
	"github.com/Ramsey-B/clover/pkg/fieldmap"
	"github.com/Ramsey-B/clover/pkg/matching"
	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/models"
)

// Register registers form intake routes.
func Register(g *echo.Group) {
	g.POST("/ff", ReceiveFactFind)
	g.POST("/webhook/fact-find", ReceiveFactFind)
	g.POST("/automation", ReceiveAutomationForm)
	g.POST("/webhook/automation-form", ReceiveAutomationForm)
}

// Response is the intake acknowledgement body.
type Response struct {
	Status          string            `json:"status"`
	FormType        string            `json:"form_type"`
	CaseID          string            `json:"case_id"`
	Email           string            `json:"email"`
	ClientName      string            `json:"client_name"`
	SavedTo         string            `json:"saved_to"`
	MatchInfo       *automatch.Result `json:"match_info,omitempty"`
	ZapierTriggered bool              `json:"zapier_triggered"`
	ZapierStatus    string            `json:"zapier_status,omitempty"`
}

// ReceiveFactFind stores a fact-find submission and runs the auto-match
// pipeline.
func ReceiveFactFind(c echo.Context) error {
	raw, err := decodeRaw(c)
	if err != nil {
		return err
	}

	ctx := clovercontext.SetFormType(c.Request().Context(), string(formstore.FactFind))
	c.SetRequest(c.Request().WithContext(ctx))

	ctx, mapper, err := ectoinject.GetContext[*fieldmap.Mapper](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	ff := models.NewFactFind(raw, mapper)

	return receive(c, receivedForm{
		raw:        raw,
		formType:   formstore.FactFind,
		email:      ff.Email(),
		caseID:     ff.CaseID(),
		clientName: ff.ClientFullName(),
		add: func(m *matching.Matcher) (string, error) {
			return m.AddFactFind(ff)
		},
	})
}

// ReceiveAutomationForm stores an automation form submission and runs
// the auto-match pipeline.
func ReceiveAutomationForm(c echo.Context) error {
	raw, err := decodeRaw(c)
	if err != nil {
		return err
	}

	ctx := clovercontext.SetFormType(c.Request().Context(), string(formstore.AutomationForm))
	c.SetRequest(c.Request().WithContext(ctx))

	ctx, mapper, err := ectoinject.GetContext[*fieldmap.Mapper](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	af := models.NewAutomationForm(raw, mapper)

	return receive(c, receivedForm{
		raw:        raw,
		formType:   formstore.AutomationForm,
		email:      af.Email(),
		caseID:     af.CaseID(),
		clientName: af.ClientFullName(),
		add: func(m *matching.Matcher) (string, error) {
			return m.AddAutomationForm(af)
		},
	})
}

type receivedForm struct {
	raw        map[string]any
	formType   formstore.FormType
	email      string
	caseID     string
	clientName string
	add        func(*matching.Matcher) (string, error)
}

func receive(c echo.Context, form receivedForm) error {
	ctx := clovercontext.SetClientEmail(c.Request().Context(), form.email)
	c.SetRequest(c.Request().WithContext(ctx))

	ctx, store, err := ectoinject.GetContext[*formstore.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	ctx, matcher, err := ectoinject.GetContext[*matching.Matcher](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	ctx, pipeline, err := ectoinject.GetContext[*automatch.Service](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	ctx, emitter, err := ectoinject.GetContext[*events.Emitter](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	savedTo, err := store.Save(ctx, form.formType, form.email, form.raw)
	if err != nil {
		return err
	}

	if _, err := form.add(matcher); err != nil {
		return httperror.WrapError(http.StatusBadRequest, err)
	}

	metrics.FormsReceivedTotal.WithLabelValues(string(form.formType)).Inc()
	stats := matcher.Statistics()
	metrics.StoredFormsGauge.WithLabelValues(string(formstore.FactFind)).Set(float64(stats.TotalFactFinds))
	metrics.StoredFormsGauge.WithLabelValues(string(formstore.AutomationForm)).Set(float64(stats.TotalAutomationForms))

	// Event emission is best-effort, the emitter logs its own failures.
	_ = emitter.EmitFormReceived(ctx, string(form.formType), form.email, form.caseID, savedTo)

	matchInfo := pipeline.Process(ctx, form.email)

	return c.JSON(http.StatusOK, Response{
		Status:          "success",
		FormType:        string(form.formType),
		CaseID:          form.caseID,
		Email:           form.email,
		ClientName:      form.clientName,
		SavedTo:         savedTo,
		MatchInfo:       &matchInfo,
		ZapierTriggered: matchInfo.ZapierTriggered,
		ZapierStatus:    matchInfo.ZapierStatus,
	})
}

func decodeRaw(c echo.Context) (map[string]any, error) {
	var raw map[string]any
	if err := json.NewDecoder(c.Request().Body).Decode(&raw); err != nil {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "request body must be a JSON object")
	}
	if len(raw) == 0 {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "request body must not be empty")
	}
	return raw, nil
}
