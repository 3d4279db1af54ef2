package repo

type ItemFilter struct {
	Name     string
	Location string
	Category string
	MinQty   *int
	MaxQty   *int
	LowStock bool
	Offset   *int
	Limit    *int
}
