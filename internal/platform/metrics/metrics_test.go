// Copyright (c) 2026 Toikana. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toikana/marketplace/internal/platform/metrics"
)

func counterValue(t *testing.T, counter prometheus.Counter) float64 {
	t.Helper()
	metric := &dto.Metric{}
	require.NoError(t, counter.Write(metric))
	return metric.GetCounter().GetValue()
}

/*
TestMiddleware_LabelsByRoutePattern verifies path parameters are not used as labels.
*/
func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	router := chi.NewRouter()
	router.Use(metrics.Middleware)
	router.Get("/places/{id}", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusTeapot)
	})

	before := counterValue(t, metrics.HTTPRequests.WithLabelValues(http.MethodGet, "/places/{id}", "418"))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/places/abc", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/places/def", nil))

	after := counterValue(t, metrics.HTTPRequests.WithLabelValues(http.MethodGet, "/places/{id}", "418"))
	assert.Equal(t, before+2, after)
}

/*
TestObserveAuth splits outcomes.
*/
func TestObserveAuth(t *testing.T) {
	success := metrics.AuthOperations.WithLabelValues("login", metrics.OutcomeSuccess)
	failure := metrics.AuthOperations.WithLabelValues("login", metrics.OutcomeFailure)
	s0, f0 := counterValue(t, success), counterValue(t, failure)

	metrics.ObserveAuth("login", nil)
	metrics.ObserveAuth("login", errors.New("bad credentials"))

	assert.Equal(t, s0+1, counterValue(t, success))
	assert.Equal(t, f0+1, counterValue(t, failure))
}
