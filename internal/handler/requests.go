package handler

import "encoding/json"

// createGroupRequest is the body of POST /groups.
type createGroupRequest struct {
	Name  string      `json:"name" validate:"required,notblank"`
	Users []userInput `json:"users" validate:"required,min=1,dive"`
}

type userInput struct {
	Name string `json:"name" validate:"required,notblank"`
}

// addExpenseRequest is the body of POST /groups/{groupID}/expenses.
// Amount arrives as a JSON number but is decoded as json.Number and
// parsed through money.Parse so it never passes through float64.
type addExpenseRequest struct {
	Description string       `json:"description" validate:"required,notblank"`
	Amount      json.Number  `json:"amount" validate:"required"`
	PaidBy      int64        `json:"paid_by" validate:"required"`
	SplitType   string       `json:"split_type" validate:"required,oneof=equal percentage"`
	Splits      []splitInput `json:"splits" validate:"required,min=1,dive"`
}

type splitInput struct {
	UserID     int64    `json:"user_id" validate:"required"`
	Percentage *float64 `json:"percentage"`
}

// recordSettlementRequest is the body of POST /groups/{groupID}/settlements.
type recordSettlementRequest struct {
	From   int64       `json:"from" validate:"required"`
	To     int64       `json:"to" validate:"required"`
	Amount json.Number `json:"amount" validate:"required"`
	Note   string      `json:"note"`
}
