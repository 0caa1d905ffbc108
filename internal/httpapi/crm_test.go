package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"crm-platform/internal/auth"
	"crm-platform/internal/invoices"
	"crm-platform/internal/reporting"
	"crm-platform/internal/taxes"
	"crm-platform/internal/users"

	"github.com/gin-gonic/gin"
)

func TestRespondErr_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err  error
		want int
	}{
		{users.ErrNotFound, http.StatusNotFound},
		{taxes.ErrRateNotFound, http.StatusNotFound},
		{taxes.ErrInvalidArgument, http.StatusBadRequest},
		{reporting.ErrInvalidRequest, http.StatusBadRequest},
		{users.ErrEmailTaken, http.StatusConflict},
		{invoices.ErrOverpayment, http.StatusConflict},
		{invoices.ErrInvalidTransition, http.StatusConflict},
		{auth.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{errors.New("broken pipe"), http.StatusInternalServerError},
		{fmt.Errorf("issue invoice: %w", taxes.ErrRateNotFound), http.StatusNotFound},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

		respondErr(c, tc.err)
		if w.Code != tc.want {
			t.Fatalf("respondErr(%v) status = %d, want %d", tc.err, w.Code, tc.want)
		}
	}
}

func TestRespondErr_HidesInternalDetail(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondErr(c, errors.New("dial tcp 10.0.0.5:5432: connection refused"))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if body := w.Body.String(); body != `{"error":"internal error"}` {
		t.Fatalf("internal detail leaked: %s", body)
	}
}
