package utils

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bindTestRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name"`
}

func testContext(t *testing.T, body string) echo.Context {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestBindRequest(t *testing.T) {
	t.Run("binds and validates", func(t *testing.T) {
		c := testContext(t, `{"email": "john@example.com", "name": "John"}`)

		req, err := BindRequest[bindTestRequest](c)
		require.NoError(t, err)
		assert.Equal(t, "john@example.com", req.Email)
		assert.Equal(t, "John", req.Name)
	})

	t.Run("malformed body errors", func(t *testing.T) {
		c := testContext(t, `{"email": `)

		_, err := BindRequest[bindTestRequest](c)
		assert.Error(t, err)
	})

	t.Run("validation failure errors", func(t *testing.T) {
		c := testContext(t, `{"name": "John"}`)

		_, err := BindRequest[bindTestRequest](c)
		assert.Error(t, err)
	})
}
