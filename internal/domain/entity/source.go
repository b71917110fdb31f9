package entity

// Source is a supplier in the owner's catalog.
type Source struct {
	ID      int64
	OwnerID int64
	Name    string
	Phone   string
	Address string
}
