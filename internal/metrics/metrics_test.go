package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Put("/cart/{cartId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodPut, "/cart/{cartId}", "204"))

	for _, id := range []string{"1", "2", "3"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/cart/"+id, nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodPut, "/cart/{cartId}", "204"))
	assert.Equal(t, 3.0, after-before)
	assert.Zero(t, testutil.ToFloat64(HTTPRequestsInFlight))
}

func TestMiddlewareUnmatchedRoute(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/known", func(w http.ResponseWriter, r *http.Request) {})

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, unmatchedPath, "404"))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope/123", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues(http.MethodGet, unmatchedPath, "404"))
	assert.Equal(t, 1.0, after-before)
}

func TestRecordCounters(t *testing.T) {
	before := testutil.ToFloat64(CartOperations.WithLabelValues(OpCartAdd, OutcomeRejected))
	RecordCart(OpCartAdd, OutcomeRejected)
	assert.Equal(t, 1.0, testutil.ToFloat64(CartOperations.WithLabelValues(OpCartAdd, OutcomeRejected))-before)

	before = testutil.ToFloat64(AuthAttempts.WithLabelValues(OpLogin, OutcomeSuccess))
	RecordAuth(OpLogin, OutcomeSuccess)
	assert.Equal(t, 1.0, testutil.ToFloat64(AuthAttempts.WithLabelValues(OpLogin, OutcomeSuccess))-before)
}
