package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/fekuna/stockflow-service/internal/apperror"
)

const MaxBodyBytes = 1 << 20

type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type MessageBody struct {
	Message string `json:"message"`
}

func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Message(w http.ResponseWriter, msg string) {
	Write(w, http.StatusOK, MessageBody{Message: msg})
}

// Error answers with the status and code carried by err. Errors outside the
// apperror taxonomy become an opaque 500.
func Error(w http.ResponseWriter, err error) {
	kind := apperror.KindOf(err)
	Write(w, kind.HTTPStatus(), ErrorBody{
		Error: apperror.Public(err),
		Code:  kind.Code(),
	})
}

// Decode reads a JSON request body of at most MaxBodyBytes into v.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return apperror.Validation("request body too large")
		}
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperror.Validation("invalid JSON body")
	}
	return nil
}

// PathID parses the {id} path value as a positive integer.
func PathID(r *http.Request, name string) (int64, error) {
	return parseID(r.PathValue(name), name)
}

// QueryID parses a required positive integer query parameter.
func QueryID(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, apperror.Validation("%s is required", name)
	}
	return parseID(raw, name)
}

func parseID(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.Validation("invalid %s", name)
	}
	return id, nil
}

// ID is an identifier inside a request body. Clients send it either as a JSON
// number or as a numeric string; null and "" leave it zero.
type ID int64

func (id *ID) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*id = 0
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return apperror.Validation("invalid id")
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*id = 0
			return nil
		}
	}

	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return apperror.Validation("invalid id %s", raw)
	}
	*id = ID(n)
	return nil
}
