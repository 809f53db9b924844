package view

import "github.com/niksmo/pricecheck/internal/core/domain"

type Notice struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// A Page is everything the barcode view shows for one state.
type Page struct {
	Barcode string  `json:"barcode"`
	Loading bool    `json:"loading"`
	Phase   string  `json:"status"`
	Err     string  `json:"error,omitempty"`
	Notice  *Notice `json:"notice,omitempty"`
	Cards   []Card  `json:"products"`
}

func NewPage(s domain.SearchState) Page {
	p := Page{
		Barcode: s.Barcode,
		Loading: s.Loading,
		Phase:   s.Phase.String(),
		Err:     s.Err,
		Cards:   NewCards(s.Products),
	}
	if s.Notice != nil {
		p.Notice = &Notice{
			Level: string(s.Notice.Level),
			Text:  s.Notice.Text,
		}
	}
	return p
}
