package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return rec
}

func TestEndRecordsError(t *testing.T) {
	rec := withRecorder(t)

	_, span := Start(context.Background(), "CourseService.Enroll")
	End(span, errors.New("already enrolled"))

	spans := rec.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected one span, got %d", len(spans))
	}
	if spans[0].Name() != "CourseService.Enroll" || spans[0].Status().Code != codes.Error {
		t.Fatalf("unexpected span %s status %v", spans[0].Name(), spans[0].Status())
	}
}

func TestGinMiddlewareNamesSpanByRoute(t *testing.T) {
	rec := withRecorder(t)
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/api/courses/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/courses/42", nil))

	spans := rec.Ended()
	if len(spans) != 1 || spans[0].Name() != "GET /api/courses/:id" {
		t.Fatalf("unexpected spans %v", spans)
	}
}
