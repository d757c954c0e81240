package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// RequestLogger logs one structured line per request through the global zap logger.
func RequestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
				zap.String("remote_ip", v.RemoteIP),
			}
			if session := SessionFrom(c); session != nil {
				fields = append(fields, zap.String("user_id", session.ID.String()))
			}

			switch {
			case v.Status >= 500:
				zap.L().Error("request", append(fields, zap.Error(v.Error))...)
			case v.Status >= 400:
				zap.L().Warn("request", fields...)
			default:
				zap.L().Info("request", fields...)
			}
			return nil
		},
	})
}
