package models

// Account is a Canvas account sections are filed under.
type Account struct {
	AccountID string `json:"account_id"`
}

// Record flattens the account for CSV output.
func (a Account) Record() map[string]string {
	return map[string]string{"account_id": a.AccountID}
}

// AccountFromRecord builds an Account from a flat record.
func AccountFromRecord(rec map[string]string) Account {
	return Account{AccountID: rec["account_id"]}
}
