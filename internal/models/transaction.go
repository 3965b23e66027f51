package models

// Transaction is one line item of a retail transaction as loaded from the
// dataset. Rows are never modified after load.
type Transaction struct {
	BusinessUnit  string
	Month         string
	TimeOfDay     string
	TransactionID string
	CustomerID    string
	Quantity      float64
	UnitPrice     float64
	Model         string
}

type Dimensions struct {
	Branches []string `json:"branches"`
	Months   []string `json:"months"`
}
