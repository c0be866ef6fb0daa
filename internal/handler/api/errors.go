package api

import (
	"StockTrack/internal/domain/repository"
	"StockTrack/pkg/errs"
	xhttp "StockTrack/pkg/http"
	xlogger "StockTrack/pkg/logger"

	"github.com/labstack/echo/v4"
)

// failure logs err once, counts it and writes the classified response.
func failure(c echo.Context, l *xlogger.Logger, m repository.Metrics, op string, err error) error {
	kind := errs.KindOf(err)
	m.RecordError(kind.String())

	fields := []xlogger.Field{
		xlogger.String("op", op),
		xlogger.String("kind", kind.String()),
		xlogger.String("path", c.Path()),
		xlogger.Error(err),
	}
	if xhttp.StatusFor(kind) >= 500 {
		l.Error("request failed", fields...)
	} else {
		l.Debug("request rejected", fields...)
	}
	return xhttp.AppErrorResponse(c, err)
}
