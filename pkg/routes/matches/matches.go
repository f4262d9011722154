// Package matches exposes the matcher's state: statistics, match
// history, and forms still waiting for their counterpart.
package matches

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/clover/pkg/matching"
	"github.com/Ramsey-B/clover/pkg/models"
)

// Register registers match inspection routes.
func Register(g *echo.Group) {
	g.GET("/status", GetStatus)
	g.GET("/matches", GetMatches)
	g.GET("/matches/unmatched", GetUnmatched)
}

// StatusResponse reports the service state and matcher statistics.
type StatusResponse struct {
	Service    string                 `json:"service"`
	Status     string                 `json:"status"`
	Statistics models.MatchStatistics `json:"statistics"`
}

// MatchesResponse lists every recorded pairing decision.
type MatchesResponse struct {
	Count   int                  `json:"count"`
	Matches []models.MatchResult `json:"matches"`
}

// UnmatchedForm is a compact view of a form still awaiting a match.
type UnmatchedForm struct {
	Email      string `json:"email"`
	CaseID     string `json:"case_id,omitempty"`
	ClientName string `json:"client_name,omitempty"`
}

// UnmatchedResponse lists forms with no recorded match, by type.
type UnmatchedResponse struct {
	FactFinds       []UnmatchedForm `json:"fact_finds"`
	AutomationForms []UnmatchedForm `json:"automation_forms"`
}

// GetStatus returns the matcher statistics for the status endpoint.
func GetStatus(c echo.Context) error {
	_, matcher, err := ectoinject.GetContext[*matching.Matcher](c.Request().Context())
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	return c.JSON(http.StatusOK, StatusResponse{
		Service:    "clover-intake",
		Status:     "running",
		Statistics: matcher.Statistics(),
	})
}

// GetMatches returns the full match history, oldest first.
func GetMatches(c echo.Context) error {
	_, matcher, err := ectoinject.GetContext[*matching.Matcher](c.Request().Context())
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	history := matcher.History()
	return c.JSON(http.StatusOK, MatchesResponse{
		Count:   len(history),
		Matches: history,
	})
}

// GetUnmatched returns forms that have not been paired yet.
func GetUnmatched(c echo.Context) error {
	_, matcher, err := ectoinject.GetContext[*matching.Matcher](c.Request().Context())
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	resp := UnmatchedResponse{
		FactFinds:       []UnmatchedForm{},
		AutomationForms: []UnmatchedForm{},
	}
	for _, ff := range matcher.UnmatchedFactFinds() {
		resp.FactFinds = append(resp.FactFinds, UnmatchedForm{
			Email:      ff.Email(),
			CaseID:     ff.CaseID(),
			ClientName: ff.ClientFullName(),
		})
	}
	for _, af := range matcher.UnmatchedAutomationForms() {
		resp.AutomationForms = append(resp.AutomationForms, UnmatchedForm{
			Email:      af.Email(),
			CaseID:     af.CaseID(),
			ClientName: af.ClientFullName(),
		})
	}

	return c.JSON(http.StatusOK, resp)
}
