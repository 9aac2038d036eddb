package models

// Requests for terminal HTTP endpoints. Defined in domain for consistency and reuse.

type SignalRequest struct {
	Symbol  string `query:"symbol" json:"symbol" validate:"required"`
	Horizon string `query:"horizon" json:"horizon" default:"1d" validate:"oneof=1h 4h 1d"`
}

type HistoryRequest struct {
	Symbol  string `query:"symbol" json:"symbol" validate:"required"`
	Horizon string `query:"horizon" json:"horizon" default:"1d" validate:"oneof=1h 4h 1d"`
	From    string `query:"from" json:"from"`
	To      string `query:"to" json:"to"`
	Limit   int    `query:"limit" json:"limit" default:"500" validate:"gte=1,lte=10000"`
}

type PhaseRequest struct {
	Symbol  string `query:"symbol" json:"symbol" validate:"required"`
	Horizon string `query:"horizon" json:"horizon" default:"1d" validate:"oneof=1h 4h 1d"`
}

type RiskRequest struct {
	Symbol  string `query:"symbol" json:"symbol" validate:"required"`
	Horizon string `query:"horizon" json:"horizon" default:"1d" validate:"oneof=1h 4h 1d"`
}
