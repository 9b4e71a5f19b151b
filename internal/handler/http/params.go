package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/gym-payroll-backend-go/internal/pkg/validator"
)

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// getBoolQueryParam gets a bool query parameter with a default value
func getBoolQueryParam(r *http.Request, key string, defaultVal bool) bool {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	return val == "true" || val == "1"
}

func getStringQueryParam(r *http.Request, key string) *string {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}
	return &val
}

// getDateQueryParam parses a YYYY-MM-DD query parameter; absent or malformed values are nil.
func getDateQueryParam(r *http.Request, key string) *time.Time {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}
	d, ok := validator.IsValidDate(val)
	if !ok {
		return nil
	}
	return &d
}

// requireYearMonth reads the mandatory year and month query parameters.
func requireYearMonth(r *http.Request) (year, month int, errs validator.ValidationErrors) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		errs.Add("year", "is required")
	}
	month, err = strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		errs.Add("month", "is required")
	}
	return year, month, errs
}

func requireYear(r *http.Request) (int, validator.ValidationErrors) {
	var errs validator.ValidationErrors
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		errs.Add("year", "is required")
	}
	return year, errs
}

// getPrincipal returns the authenticated caller
func getPrincipal(r *http.Request) (user.Principal, bool) {
	return middleware.PrincipalFromContext(r.Context())
}

// decodeOptionalBody decodes a JSON body that may be absent.
func decodeOptionalBody(r *http.Request, dest any) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
