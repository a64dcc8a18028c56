package dto

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
	"strconv"

	"github.com/fekuna/stockflow-service/internal/apperror"
	"github.com/fekuna/stockflow-service/internal/httpjson"
	"github.com/fekuna/stockflow-service/internal/model"
)

var errUnsupportedValue = errors.New("field values must be strings, numbers, booleans or null")

// CellValue is a field value as sent by clients. Strings are kept as is,
// numbers and booleans keep their JSON text and null becomes "".
type CellValue string

func (c *CellValue) UnmarshalJSON(b []byte) error {
	raw := bytes.TrimSpace(b)
	if len(raw) == 0 {
		return errUnsupportedValue
	}

	switch {
	case bytes.Equal(raw, []byte("null")):
		*c = ""
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*c = CellValue(s)
	case bytes.Equal(raw, []byte("true")), bytes.Equal(raw, []byte("false")):
		*c = CellValue(raw)
	case raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9'):
		*c = CellValue(raw)
	default:
		return errUnsupportedValue
	}
	return nil
}

// Values maps field ids, as JSON object keys, to cell values.
type Values map[string]CellValue

// FieldValues converts v into rows for productID ordered by field id.
func (v Values) FieldValues(productID int64) ([]model.FieldValue, error) {
	out := make([]model.FieldValue, 0, len(v))
	for key, val := range v {
		fieldID, err := strconv.ParseInt(key, 10, 64)
		if err != nil || fieldID <= 0 {
			return nil, errors.New("invalid field id " + strconv.Quote(key))
		}
		out = append(out, model.FieldValue{ProductID: productID, FieldID: fieldID, Value: string(val)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FieldID < out[j].FieldID })
	return out, nil
}

type CreateProductInput struct {
	FolderID int64  `json:"folder_id"`
	Name     string `json:"name"`
	Values   Values `json:"values"`
}

// UnmarshalJSON accepts folder_id as a number or a numeric string.
func (in *CreateProductInput) UnmarshalJSON(b []byte) error {
	type plain CreateProductInput
	aux := struct {
		*plain
		FolderID httpjson.ID `json:"folder_id"`
	}{plain: (*plain)(in)}

	if err := json.Unmarshal(b, &aux); err != nil {
		if apperror.KindOf(err) == apperror.KindValidation {
			return apperror.Validation("invalid folder_id")
		}
		return err
	}
	in.FolderID = int64(aux.FolderID)
	return nil
}

type UpdateProductInput struct {
	ID     int64   `json:"-"`
	Name   *string `json:"name"`
	Values Values  `json:"values"`
}
