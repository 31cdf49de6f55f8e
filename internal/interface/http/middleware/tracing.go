package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"

	"github.com/xiebiao/fabricshop/pkg/tracing"
)

// Tracing HTTP请求追踪中间件
// 每个请求创建一个Span并挂到Request Context上，
// 事务提交、锁等待、事件发布等下游阶段由同一条Trace串起来。
// 上游调用方传入W3C traceparent头时，本请求成为其子Span。
func Tracing(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := otel.GetTextMapPropagator().Extract(
			c.Request.Context(),
			propagation.HeaderCarrier(c.Request.Header),
		)

		// Span名用路由模板，与metrics中间件的path标签保持同一口径
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		ctx, span := tracing.StartSpan(ctx, serviceName, c.Request.Method+" "+path)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", path),
			attribute.Int("http.status_code", status),
		)
		if status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
