package model

type Product struct {
	ID       int64  `db:"id" json:"id"`
	FolderID int64  `db:"folder_id" json:"folder_id"`
	Name     string `db:"name" json:"name"`
}

// FieldValue is one EAV cell. At most one exists per (ProductID, FieldID).
type FieldValue struct {
	ProductID int64  `db:"product_id" json:"product_id"`
	FieldID   int64  `db:"field_id" json:"field_id"`
	Value     string `db:"value" json:"value"`
}

// ProductValue pairs a folder field with the product's stored value.
// Value is nil when no row exists for the pair.
type ProductValue struct {
	ProductID int64   `db:"product_id" json:"-"`
	FieldID   int64   `db:"field_id" json:"id"`
	Name      string  `db:"name" json:"name"`
	Value     *string `db:"value" json:"value"`
}

type ProductWithValues struct {
	Product
	Values []ProductValue `json:"values"`
}
