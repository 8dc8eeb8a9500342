package models

// Fixture is an inventory item.
type Fixture struct {
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Price int    `db:"price" json:"price"`
	Count int    `db:"count" json:"count"`
}

// CreateFixtureRequest registers an inventory item.
type CreateFixtureRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Price int    `json:"price" validate:"gte=0"`
	Count int    `json:"count" validate:"gte=0"`
}

// UpdateFixtureRequest merges supplied fields.
type UpdateFixtureRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1,max=100"`
	Price *int    `json:"price" validate:"omitempty,gte=0"`
	Count *int    `json:"count" validate:"omitempty,gte=0"`
}

// FixturePage is the paginated list envelope.
type FixturePage struct {
	Data      []*Fixture `json:"data"`
	TotalPage int        `json:"totalPage"`
}
