package indicators

import (
	"fmt"

	"cryptoradar/internal/models"
)

// MFI calculates the Money Flow Index. When the candle series has no real
// traded volume the constant placeholder is used, which reduces MFI to a
// price-direction oscillator.
type MFI struct {
	period int
}

// NewMFI creates a new MFI indicator.
func NewMFI(period int) *MFI {
	return &MFI{period: period}
}

func (m *MFI) Name() string {
	return fmt.Sprintf("MFI_%d", m.period)
}

func (m *MFI) Period() int {
	return m.period + 1
}

// Calculate computes MFI from typical-price money flow. A window with zero
// negative flow reports 100.
func (m *MFI) Calculate(candles []models.Candle) ([]float64, error) {
	if m.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < m.Period() {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	result := make([]float64, n)

	posFlow := make([]float64, n)
	negFlow := make([]float64, n)

	for i := 1; i < n; i++ {
		tp := typicalPrice(candles[i])
		prevTP := typicalPrice(candles[i-1])
		flow := tp * volumeProxy(candles[i])

		if tp > prevTP {
			posFlow[i] = flow
		} else if tp < prevTP {
			negFlow[i] = flow
		}
	}

	for i := m.period; i < n; i++ {
		pos := sum(posFlow[i-m.period+1 : i+1])
		neg := sum(negFlow[i-m.period+1 : i+1])

		if neg == 0 {
			result[i] = 100
		} else {
			moneyRatio := pos / neg
			result[i] = 100 - (100 / (1 + moneyRatio))
		}
	}

	return result, nil
}

// OBV calculates On-Balance Volume as a cumulative series starting at 0.
type OBV struct{}

// NewOBV creates a new OBV indicator.
func NewOBV() *OBV {
	return &OBV{}
}

func (o *OBV) Name() string {
	return "OBV"
}

func (o *OBV) Period() int {
	return 2
}

func (o *OBV) Calculate(candles []models.Candle) ([]float64, error) {
	if len(candles) < 2 {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	result := make([]float64, n)

	for i := 1; i < n; i++ {
		switch {
		case candles[i].Close > candles[i-1].Close:
			result[i] = result[i-1] + volumeProxy(candles[i])
		case candles[i].Close < candles[i-1].Close:
			result[i] = result[i-1] - volumeProxy(candles[i])
		default:
			result[i] = result[i-1]
		}
	}

	return result, nil
}

// VPT calculates the Volume Price Trend: a cumulative series where each bar
// adds volume scaled by the fractional close-to-close change.
type VPT struct{}

// NewVPT creates a new VPT indicator.
func NewVPT() *VPT {
	return &VPT{}
}

func (v *VPT) Name() string {
	return "VPT"
}

func (v *VPT) Period() int {
	return 2
}

func (v *VPT) Calculate(candles []models.Candle) ([]float64, error) {
	if len(candles) < 2 {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	result := make([]float64, n)

	for i := 1; i < n; i++ {
		prevClose := candles[i-1].Close
		if prevClose == 0 {
			result[i] = result[i-1]
			continue
		}
		change := (candles[i].Close - prevClose) / prevClose
		result[i] = result[i-1] + volumeProxy(candles[i])*change
	}

	return result, nil
}
