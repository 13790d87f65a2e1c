package errors

import (
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/KOFI-GYIMAH/readme-contribution-stats/pkg/logger"
)

type ErrorLevel int

const (
	LevelFatal ErrorLevel = iota + 1
	LevelError
	LevelWarning
	LevelInfo
)

func (l ErrorLevel) String() string {
	return [...]string{"", "Fatal", "Error", "Warning", "Info"}[l]
}

// * Error references surfaced by the card endpoint
const (
	RefMissingParameter = "MISSING_PARAMETER"
	RefInvalidParameter = "INVALID_PARAMETER"
	RefUnknownRoute     = "UNKNOWN_ROUTE"
	RefComingSoon       = "COMING_SOON"
	RefUserNotFound     = "USER_NOT_FOUND"
	RefUpstream         = "UPSTREAM_ERROR"
)

type ApplicationError struct {
	Reference   string
	Title       string
	Detail      string
	RootCause   error
	Level       ErrorLevel
	OccurredAt  time.Time
	CallerTrace []string
}

func (e *ApplicationError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s][%s] %s", e.OccurredAt.Format(time.RFC3339), e.Reference, e.Title)

	if e.Detail != "" {
		fmt.Fprintf(&b, " - %s", e.Detail)
	}

	if e.RootCause != nil {
		fmt.Fprintf(&b, " (caused by: %v)", e.RootCause)
	}

	return b.String()
}

func (e *ApplicationError) Unwrap() error {
	return e.RootCause
}

// Message is the human readable text shown on an error card.
func (e *ApplicationError) Message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Title
}

func New(ref, title, detail string, cause error, level ErrorLevel) *ApplicationError {
	return &ApplicationError{
		Reference:   ref,
		Title:       title,
		Detail:      detail,
		RootCause:   cause,
		Level:       level,
		OccurredAt:  time.Now().UTC(),
		CallerTrace: captureCallerInfo(3),
	}
}

// MissingParameter is returned when a required query parameter is absent.
func MissingParameter(detail string) *ApplicationError {
	return New(RefMissingParameter, "Missing parameter", detail, nil, LevelInfo)
}

// InvalidParameter is returned when a query parameter is present but malformed.
func InvalidParameter(detail string) *ApplicationError {
	return New(RefInvalidParameter, "Invalid parameter", detail, nil, LevelInfo)
}

// UnknownRoute is returned for an unsupported card type.
func UnknownRoute(detail string) *ApplicationError {
	return New(RefUnknownRoute, "Invalid type parameter", detail, nil, LevelInfo)
}

// Upstream wraps a failed or malformed GitHub response.
func Upstream(title, detail string, cause error) *ApplicationError {
	return New(RefUpstream, title, detail, cause, LevelError)
}

func captureCallerInfo(skip int) []string {
	pc := make([]uintptr, 10)
	n := runtime.Callers(skip, pc)
	if n == 0 {
		return nil
	}

	pc = pc[:n]
	frames := runtime.CallersFrames(pc)

	var trace []string
	for {
		frame, more := frames.Next()
		trace = append(trace, fmt.Sprintf("%s:%d %s", frame.File, frame.Line, frame.Function))
		if !more {
			break
		}
	}

	return trace
}

// HasReference reports whether err is an ApplicationError with the given reference.
func HasReference(err error, ref string) bool {
	var appErr *ApplicationError
	return errors.As(err, &appErr) && appErr.Reference == ref
}

// StatusAndMessage maps err to the HTTP status and card text used for it.
// Input errors render with 200 since README viewers never see the status.
func StatusAndMessage(err error) (int, string) {
	var appErr *ApplicationError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError, err.Error()
	}

	switch appErr.Level {
	case LevelInfo, LevelWarning:
		return http.StatusOK, appErr.Message()
	default:
		return http.StatusInternalServerError, appErr.Message()
	}
}

// WriteSVGError renders err with render and writes it as an SVG response.
func WriteSVGError(w http.ResponseWriter, err error, render func(message string) string) {
	status, message := StatusAndMessage(err)

	if status >= http.StatusInternalServerError {
		logger.Error("%v", err)
	} else {
		logger.Debug("%v", err)
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(render(message)))
}
