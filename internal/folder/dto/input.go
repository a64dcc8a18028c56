package dto

type CreateFolderInput struct {
	Name string `json:"name"`
}

type RenameFolderInput struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
}
