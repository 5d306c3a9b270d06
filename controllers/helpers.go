package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-backoffice/docstore"
	"github.com/yeremiapane/restaurant-backoffice/services"
	"github.com/yeremiapane/restaurant-backoffice/utils"
	"gorm.io/gorm"
)

// respondServiceError maps a workflow error onto the HTTP status the client expects.
func respondServiceError(c *gin.Context, err error) {
	switch services.KindOf(err) {
	case services.KindNotFound:
		utils.RespondError(c, http.StatusNotFound, err)
	case services.KindInvalidArgument, services.KindConflict:
		utils.RespondError(c, http.StatusBadRequest, err)
	default:
		utils.ErrorLogger.WithField("path", c.FullPath()).Errorf("Internal error: %v", err)
		_ = c.Error(err)
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

// respondDBError covers plain gorm calls made directly from a controller.
func respondDBError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, docstore.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, errors.New(notFound))
	case errors.Is(err, gorm.ErrDuplicatedKey):
		utils.RespondError(c, http.StatusBadRequest, errors.New("a record with the same unique value already exists"))
	default:
		respondServiceError(c, services.Internal(err, "database error: %v", err))
	}
}

func badRequest(c *gin.Context, format string, args ...interface{}) {
	utils.RespondError(c, http.StatusBadRequest, fmt.Errorf(format, args...))
}

// parseID membaca parameter path sebagai uint.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		badRequest(c, "invalid %s", name)
		return 0, false
	}
	return uint(id), true
}

// queryUint reads an optional numeric query parameter.
func queryUint(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		badRequest(c, "invalid %s", name)
		return nil, false
	}
	id := uint(v)
	return &id, true
}

// queryDateRange reads start/end dates as [start, end+1d).
func queryDateRange(c *gin.Context, startKey, endKey string) (*time.Time, *time.Time, bool) {
	var from, to *time.Time
	if raw := c.Query(startKey); raw != "" {
		t, err := utils.ParseDate(raw)
		if err != nil {
			badRequest(c, "%s: %v", startKey, err)
			return nil, nil, false
		}
		from = &t
	}
	if raw := c.Query(endKey); raw != "" {
		_, end, err := utils.DayRange(raw)
		if err != nil {
			badRequest(c, "%s: %v", endKey, err)
			return nil, nil, false
		}
		to = &end
	}
	return from, to, true
}
