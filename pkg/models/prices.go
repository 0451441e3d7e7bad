package models

import "time"

// Price is one daily OHLCV bar.
type Price struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries is an ordered sequence of bars for one ticker, strictly
// increasing by date. Missing sessions are simply absent.
type PriceSeries struct {
	Ticker string  `json:"ticker"`
	Bars   []Price `json:"bars"`
}

// Len returns the number of bars.
func (s PriceSeries) Len() int { return len(s.Bars) }

// Closes returns the close column in chronological order.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Volumes returns the volume column in chronological order.
func (s PriceSeries) Volumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Volume
	}
	return out
}

// Sorted reports whether bars are strictly increasing by date.
func (s PriceSeries) Sorted() bool {
	for i := 1; i < len(s.Bars); i++ {
		if !s.Bars[i].Date.After(s.Bars[i-1].Date) {
			return false
		}
	}
	return true
}
