package models

// EntityKind names a persisted collection for change notifications.
type EntityKind string

const (
	EntityCategory EntityKind = "category"
	EntityTracker  EntityKind = "tracker"
	EntityRecord   EntityKind = "record"
)

// ChangeOp describes what happened to an entity.
type ChangeOp string

const (
	OpCreate ChangeOp = "create"
	OpUpdate ChangeOp = "update"
	OpDelete ChangeOp = "delete"
)

// Change is a single committed mutation.
type Change struct {
	Kind EntityKind
	Op   ChangeOp
	ID   string
}
