package events

import "github.com/google/uuid"

const (
	OrderChangedName   = "order.changed"
	WorklogChangedName = "worklog.changed"
)

type ChangeAction string

const (
	ActionCreated      ChangeAction = "created"
	ActionUpdated      ChangeAction = "updated"
	ActionDeleted      ChangeAction = "deleted"
	ActionRecalculated ChangeAction = "recalculated"
)

// OrderChangedEvent - изменились данные заказа или его ингредиенты.
type OrderChangedEvent struct {
	EventID string
	OrderID uint64
	Action  ChangeAction
}

func NewOrderChanged(orderID uint64, action ChangeAction) OrderChangedEvent {
	return OrderChangedEvent{EventID: uuid.NewString(), OrderID: orderID, Action: action}
}

func (e OrderChangedEvent) Name() string { return OrderChangedName }

// WorklogChangedEvent - изменились смены заказа, а значит его статус и итоги.
type WorklogChangedEvent struct {
	EventID   string
	OrderID   uint64
	WorklogID uint64
	Action    ChangeAction
}

func NewWorklogChanged(orderID, worklogID uint64, action ChangeAction) WorklogChangedEvent {
	return WorklogChangedEvent{EventID: uuid.NewString(), OrderID: orderID, WorklogID: worklogID, Action: action}
}

func (e WorklogChangedEvent) Name() string { return WorklogChangedName }
