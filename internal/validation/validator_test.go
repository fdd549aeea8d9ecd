package validation

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/iamrajpal/goodfood/internal/errs"
	"github.com/iamrajpal/goodfood/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Title    string          `json:"title" validate:"required,max=10"`
	Slug     string          `json:"slug_url" validate:"omitempty,slug"`
	Category *model.Category `json:"category" validate:"required,category"`
	IDs      []int           `json:"ids" validate:"omitempty,max=2,dive,gt=0"`
}

func (r *sampleRequest) Validate() error { return Struct(r) }

func bind(t *testing.T, body string) (*sampleRequest, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	payload := &sampleRequest{}
	return payload, BindAndValidate(c, payload)
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	out := map[string]string{}
	for _, fe := range httpErr.Errors {
		out[fe.Field] = fe.Error
	}
	return out
}

func TestBindAndValidateOK(t *testing.T) {
	payload, err := bind(t, `{"title":"Soup","slug_url":"hot-soup","category":"Soup"}`)
	require.NoError(t, err)
	assert.Equal(t, model.CategorySoup, *payload.Category)
}

func TestBindAndValidateFieldErrors(t *testing.T) {
	_, err := bind(t, `{"title":"A very long title","slug_url":"Not A Slug","ids":[1,2,3]}`)

	got := fieldErrors(t, err)
	assert.Equal(t, "must not exceed 10 characters", got["title"])
	assert.Equal(t, "must be lowercase letters and digits separated by dashes", got["slug_url"])
	assert.Equal(t, "is required", got["category"])
	assert.Equal(t, "must not contain more than 2 items", got["ids"])
}

func TestBindRejectsUnknownCategory(t *testing.T) {
	_, err := bind(t, `{"title":"Soup","category":"Brunch"}`)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Contains(t, httpErr.Message, "Brunch")
}

func TestBindRejectsMalformedJSON(t *testing.T) {
	_, err := bind(t, `{"title":`)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}

func TestCustomValidationErrors(t *testing.T) {
	msg, fields := extractValidationError(CustomValidationErrors{{Field: "ids", Message: "must be unique"}})
	assert.Equal(t, "Validation failed", msg)
	assert.Equal(t, []errs.FieldError{{Field: "ids", Error: "must be unique"}}, fields)
}
