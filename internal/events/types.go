package events

import "encoding/json"

// Event type discriminators recognized by the dispatcher
const (
	TypeDeposit        = "transaction.deposit"
	TypeWithdrawal     = "transaction.withdrawal"
	TypeAuthorization  = "transaction.authorization"
	TypeRefund         = "transaction.refund"
	TypeDomainChange   = "domain.changed"
	TypeOrderCompleted = "order.completed"
)

// Payload is the tagged envelope every webhook body decodes into. EventType
// selects the typed shape of Data; unknown types are tolerated and dropped.
type Payload struct {
	EventType string          `json:"eventType"`
	Data      json.RawMessage `json:"data"`
}

// Deposit reports funds credited to an account
type Deposit struct {
	TransactionID string  `json:"transactionId"`
	AccountID     string  `json:"accountId"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Timestamp     int64   `json:"timestamp"`
}

// Withdrawal reports funds debited from an account
type Withdrawal struct {
	TransactionID string  `json:"transactionId"`
	AccountID     string  `json:"accountId"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Timestamp     int64   `json:"timestamp"`
}

// Authorization reports a payment authorization hold
type Authorization struct {
	TransactionID string  `json:"transactionId"`
	AccountID     string  `json:"accountId"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Merchant      string  `json:"merchant,omitempty"`
	Approved      bool    `json:"approved"`
}

// Refund reports a reversal of an earlier transaction
type Refund struct {
	TransactionID string  `json:"transactionId"`
	OriginalID    string  `json:"originalTransactionId"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	Reason        string  `json:"reason,omitempty"`
}

// DomainChange reports a change to a registered domain
type DomainChange struct {
	Domain        string `json:"domain"`
	PreviousOwner string `json:"previousOwner,omitempty"`
	NewOwner      string `json:"newOwner,omitempty"`
	ChangeType    string `json:"changeType"`
}

// OrderCompleted reports a fulfilled order
type OrderCompleted struct {
	OrderID     string  `json:"orderId"`
	CustomerID  string  `json:"customerId"`
	Total       float64 `json:"total"`
	Currency    string  `json:"currency"`
	CompletedAt int64   `json:"completedAt"`
}
