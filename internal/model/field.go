package model

type FieldType string

const (
	FieldTypeText   FieldType = "text"
	FieldTypeNumber FieldType = "number"
)

var validFieldTypes = map[FieldType]bool{
	FieldTypeText:   true,
	FieldTypeNumber: true,
}

func (t FieldType) IsValid() bool {
	return validFieldTypes[t]
}

type Field struct {
	ID        int64     `db:"id" json:"id"`
	FolderID  int64     `db:"folder_id" json:"folder_id"`
	Name      string    `db:"name" json:"name"`
	FieldType FieldType `db:"field_type" json:"field_type"`
}
