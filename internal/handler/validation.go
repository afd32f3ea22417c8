package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"hospital-or-scheduling/internal/models"
	"hospital-or-scheduling/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the isodate (YYYY-MM-DD) and clock (HH:MM) tags to
// gin's binding validator.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected binding validator %T", binding.Validator.Engine())
			return
		}
		if err = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			_, perr := models.ParseDate(fl.Field().String())
			return perr == nil
		}); err != nil {
			return
		}
		err = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
			_, perr := models.ParseClockTime(fl.Field().String())
			return perr == nil
		})
	})
	return err
}

// bindError turns a binding failure into a readable 400.
func bindError(c *gin.Context, err error) {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		fe := verrs[0]
		utils.ErrorResponse(c, http.StatusBadRequest,
			fmt.Sprintf("invalid field %s: failed %s validation", fe.Field(), fe.Tag()))
		return
	}
	utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid "+param)
		return 0, false
	}
	return uint(id), true
}

// parseSlot parses a booking's date and start time, answering 400 on failure.
func parseSlot(c *gin.Context, rawDate, rawTime string) (models.Date, models.ClockTime, bool) {
	date, err := models.ParseDate(rawDate)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid scheduled_date, expected YYYY-MM-DD")
		return models.Date{}, 0, false
	}
	start, err := models.ParseClockTime(rawTime)
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid scheduled_time, expected HH:MM")
		return models.Date{}, 0, false
	}
	return date, start, true
}

func optionalDate(s *string) (*models.Date, error) {
	if s == nil {
		return nil, nil
	}
	d, err := models.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func optionalClock(s *string) (*models.ClockTime, error) {
	if s == nil {
		return nil, nil
	}
	t, err := models.ParseClockTime(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
