package errors

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
)

// ParseError carries the location of a failure inside a parse definition:
// which field, sublist, or evaluator produced it.
type ParseError struct {
	Field     string
	Sublist   string
	Evaluator string
	Record    string
	Message   string
}

func NewParseError(msg string) *ParseError {
	return &ParseError{Message: msg}
}

func NewParseErrorf(format string, args ...any) *ParseError {
	for i, arg := range args {
		if err, ok := arg.(error); ok && strings.Contains(format, "%w") {
			format = strings.Replace(format, "%w", "%v", 1)
			args[i] = err.Error()
		}
	}
	return &ParseError{Message: fmt.Sprintf(format, args...)}
}

func WrapParseError(e error) *ParseError {
	if e == nil {
		return nil
	}
	if parseErr, ok := e.(*ParseError); ok {
		return parseErr
	}
	return &ParseError{Message: e.Error()}
}

func (e *ParseError) Error() string {
	path := []string{}
	if e.Record != "" {
		path = append(path, fmt.Sprintf("record '%s'", e.Record))
	}
	if e.Sublist != "" {
		path = append(path, fmt.Sprintf("sublist '%s'", e.Sublist))
	}
	if e.Field != "" {
		path = append(path, fmt.Sprintf("field '%s'", e.Field))
	}
	if e.Evaluator != "" {
		path = append(path, fmt.Sprintf("evaluator '%s'", e.Evaluator))
	}

	if len(path) == 0 {
		return e.Message
	}

	return strings.Join(path, " -> ") + ": " + e.Message
}

func (e *ParseError) AddField(fieldID string) *ParseError {
	e.Field = fieldID
	return e
}

func (e *ParseError) AddSublist(sublistID string) *ParseError {
	e.Sublist = sublistID
	return e
}

func (e *ParseError) AddEvaluator(key string) *ParseError {
	e.Evaluator = key
	return e
}

func (e *ParseError) AddRecord(recordType string) *ParseError {
	e.Record = recordType
	return e
}

func (e *ParseError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusBadRequest, e.Error()).
		AddMetaValue("record_type", e.Record).
		AddMetaValue("sublist_id", e.Sublist).
		AddMetaValue("field_id", e.Field).
		AddMetaValue("evaluator_key", e.Evaluator)
}

func IsParseError(err error) bool {
	_, ok := err.(*ParseError)
	return ok
}
