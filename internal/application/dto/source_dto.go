package dto

// CreateSourceRequest entrada para crear un proveedor.
type CreateSourceRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Phone   string `json:"phone" validate:"omitempty,max=30,digits_only"`
	Address string `json:"address" validate:"max=300"`
}

// UpdateSourceRequest overwrites a supplier. The newName/newPhone/newAddress
// keys are the older spelling and fill the fields left empty.
type UpdateSourceRequest struct {
	SourceID   int64  `json:"source_id" validate:"required,gt=0"`
	Name       string `json:"name" validate:"max=200"`
	Phone      string `json:"phone" validate:"omitempty,max=30,digits_only"`
	Address    string `json:"address" validate:"max=300"`
	NewName    string `json:"newName" validate:"max=200"`
	NewPhone   string `json:"newPhone" validate:"omitempty,max=30,digits_only"`
	NewAddress string `json:"newAddress" validate:"max=300"`
}

// Normalize folds the older keys into Name, Phone and Address.
func (r *UpdateSourceRequest) Normalize() {
	if r.Name == "" {
		r.Name = r.NewName
	}
	if r.Phone == "" {
		r.Phone = r.NewPhone
	}
	if r.Address == "" {
		r.Address = r.NewAddress
	}
}

// SourceResponse salida de un proveedor.
type SourceResponse struct {
	SourceID int64  `json:"source_id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// SourceListResponse lista de proveedores.
type SourceListResponse struct {
	Sources []SourceResponse `json:"sources"`
}

// DeleteSourcesRequest body for DELETE /api/sources/deleteSource.
type DeleteSourcesRequest struct {
	SourceIDs []int64 `json:"source_ids" validate:"required,min=1,dive,gt=0"`
}
