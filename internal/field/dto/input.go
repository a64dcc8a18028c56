package dto

import (
	"encoding/json"

	"github.com/fekuna/stockflow-service/internal/apperror"
	"github.com/fekuna/stockflow-service/internal/httpjson"
	"github.com/fekuna/stockflow-service/internal/model"
)

type CreateFieldInput struct {
	FolderID  int64           `json:"folder_id"`
	Name      string          `json:"name"`
	Type      model.FieldType `json:"type"`
	FieldType model.FieldType `json:"field_type"`
}

// UnmarshalJSON accepts folder_id as a number or a numeric string.
func (in *CreateFieldInput) UnmarshalJSON(b []byte) error {
	type plain CreateFieldInput
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

// ResolvedType accepts either "type" or "field_type" in the request body.
func (in *CreateFieldInput) ResolvedType() model.FieldType {
	if in.Type != "" {
		return in.Type
	}
	return in.FieldType
}

type RenameFieldInput struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
}
