package order

// ChangeType tags a store change event.
type ChangeType string

const (
	ChangeInsert ChangeType = "insert"
	ChangeUpdate ChangeType = "update"
	ChangeDelete ChangeType = "delete"
)

// ChangeEvent describes a single row change in the order store. Events carry
// the full row; for deletes only the id is meaningful.
type ChangeEvent struct {
	Type  ChangeType
	Order Order
}
