package models

type QuotaStatus struct {
	Allowed   bool   `json:"allowed"`
	Used      int64  `json:"used"`
	Limit     int64  `json:"limit"`
	Remaining int64  `json:"remaining"`
	Period    string `json:"period"`
}
