package indicators

import (
	"fmt"

	"cryptoradar/internal/models"
)

// SMA calculates Simple Moving Average.
type SMA struct {
	period int
}

// NewSMA creates a new SMA indicator.
func NewSMA(period int) *SMA {
	return &SMA{period: period}
}

func (s *SMA) Name() string {
	return fmt.Sprintf("SMA_%d", s.period)
}

func (s *SMA) Period() int {
	return s.period
}

func (s *SMA) Calculate(candles []models.Candle) ([]float64, error) {
	if s.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < s.period {
		return nil, ErrInsufficientData
	}

	result := make([]float64, len(candles))
	closes := closePrices(candles)

	for i := s.period - 1; i < len(candles); i++ {
		result[i] = mean(closes[i-s.period+1 : i+1])
	}

	return result, nil
}

// EMA calculates Exponential Moving Average.
type EMA struct {
	period int
}

// NewEMA creates a new EMA indicator.
func NewEMA(period int) *EMA {
	return &EMA{period: period}
}

func (e *EMA) Name() string {
	return fmt.Sprintf("EMA_%d", e.period)
}

func (e *EMA) Period() int {
	return e.period
}

// Calculate seeds the EMA with the simple average of the first period values,
// then applies the standard k = 2/(period+1) recurrence.
func (e *EMA) Calculate(candles []models.Candle) ([]float64, error) {
	if e.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < e.period {
		return nil, ErrInsufficientData
	}

	return CalculateEMA(closePrices(candles), e.period), nil
}

// CalculateEMA calculates EMA on raw values (helper for other indicators).
// Returns nil if the input is shorter than the period.
func CalculateEMA(values []float64, period int) []float64 {
	if len(values) < period || period <= 0 {
		return nil
	}

	result := make([]float64, len(values))
	multiplier := 2.0 / float64(period+1)

	result[period-1] = mean(values[:period])

	for i := period; i < len(values); i++ {
		result[i] = (values[i]-result[i-1])*multiplier + result[i-1]
	}

	return result
}

// MACD calculates Moving Average Convergence Divergence.
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

// NewMACD creates a new MACD indicator with the given periods (12, 26, 9 by
// convention).
func NewMACD(fast, slow, signal int) *MACD {
	return &MACD{
		fastPeriod:   fast,
		slowPeriod:   slow,
		signalPeriod: signal,
	}
}

func (m *MACD) Name() string {
	return fmt.Sprintf("MACD_%d_%d_%d", m.fastPeriod, m.slowPeriod, m.signalPeriod)
}

func (m *MACD) Period() int {
	return m.slowPeriod + m.signalPeriod - 1
}

// Calculate computes the MACD line as fast EMA minus slow EMA aligned on the
// overlapping tail, the signal line as an EMA of the MACD series, and the
// histogram as their difference.
func (m *MACD) Calculate(candles []models.Candle) (map[string][]float64, error) {
	if m.fastPeriod <= 0 || m.slowPeriod <= 0 || m.signalPeriod <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < m.Period() {
		return nil, ErrInsufficientData
	}

	closes := closePrices(candles)
	fastEMA := CalculateEMA(closes, m.fastPeriod)
	slowEMA := CalculateEMA(closes, m.slowPeriod)

	macdLine := make([]float64, len(candles))
	for i := m.slowPeriod - 1; i < len(candles); i++ {
		macdLine[i] = fastEMA[i] - slowEMA[i]
	}

	// Signal line is an EMA over the valid tail of the MACD line
	signalLine := make([]float64, len(candles))
	startIdx := m.slowPeriod - 1
	signalEMA := CalculateEMA(macdLine[startIdx:], m.signalPeriod)
	for i := 0; i < len(signalEMA); i++ {
		signalLine[startIdx+i] = signalEMA[i]
	}

	histogram := make([]float64, len(candles))
	for i := m.Period() - 1; i < len(candles); i++ {
		histogram[i] = macdLine[i] - signalLine[i]
	}

	return map[string][]float64{
		"macd":      macdLine,
		"signal":    signalLine,
		"histogram": histogram,
	}, nil
}

// ADX calculates the Average Directional Index with +DI and -DI.
type ADX struct {
	period int
}

// NewADX creates a new ADX indicator.
func NewADX(period int) *ADX {
	return &ADX{period: period}
}

func (a *ADX) Name() string {
	return fmt.Sprintf("ADX_%d", a.period)
}

func (a *ADX) Period() int {
	return a.period + 1
}

// Calculate computes directional movement smoothed over the period and
// reports ADX as the resulting DX directly. This is deliberately the
// single-smoothed variant, not the textbook double smoothing; downstream
// thresholds are calibrated against it.
func (a *ADX) Calculate(candles []models.Candle) (map[string][]float64, error) {
	if a.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < a.Period() {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	tr := make([]float64, n)

	for i := 1; i < n; i++ {
		upMove := candles[i].High - candles[i-1].High
		downMove := candles[i-1].Low - candles[i].Low

		if upMove > downMove && upMove > 0 {
			plusDM[i] = upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDM[i] = downMove
		}
		tr[i] = trueRange(candles[i], candles[i-1])
	}

	smoothPlusDM := wilderSmooth(plusDM, a.period)
	smoothMinusDM := wilderSmooth(minusDM, a.period)
	smoothTR := wilderSmooth(tr, a.period)

	plusDI := make([]float64, n)
	minusDI := make([]float64, n)
	adx := make([]float64, n)

	for i := a.period; i < n; i++ {
		if smoothTR[i] != 0 {
			plusDI[i] = 100 * smoothPlusDM[i] / smoothTR[i]
			minusDI[i] = 100 * smoothMinusDM[i] / smoothTR[i]
		}
		diSum := plusDI[i] + minusDI[i]
		if diSum != 0 {
			adx[i] = 100 * abs(plusDI[i]-minusDI[i]) / diSum
		}
	}

	return map[string][]float64{
		"adx":      adx,
		"plus_di":  plusDI,
		"minus_di": minusDI,
	}, nil
}

// ParabolicSAR calculates the Parabolic Stop and Reverse indicator.
type ParabolicSAR struct {
	afStart float64
	afStep  float64
	afMax   float64
}

// NewParabolicSAR creates a new Parabolic SAR indicator with the standard
// 0.02/0.02/0.2 acceleration schedule.
func NewParabolicSAR() *ParabolicSAR {
	return &ParabolicSAR{
		afStart: 0.02,
		afStep:  0.02,
		afMax:   0.2,
	}
}

func (p *ParabolicSAR) Name() string {
	return "ParabolicSAR"
}

func (p *ParabolicSAR) Period() int {
	return 2
}

// Calculate runs the iterative SAR state machine: the SAR starts at the first
// low with the extreme point at the first high, accelerates on new extremes,
// and flips trend when price crosses the SAR. The direction series is 1 for
// an uptrend and -1 for a downtrend.
func (p *ParabolicSAR) Calculate(candles []models.Candle) (map[string][]float64, error) {
	if len(candles) < 2 {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	sar := make([]float64, n)
	direction := make([]float64, n)

	uptrend := true
	af := p.afStart
	sar[0] = candles[0].Low
	ep := candles[0].High
	direction[0] = 1

	for i := 1; i < n; i++ {
		sar[i] = sar[i-1] + af*(ep-sar[i-1])

		if uptrend {
			if candles[i].Low < sar[i] {
				// Price crossed below: flip to downtrend
				uptrend = false
				sar[i] = ep
				ep = candles[i].Low
				af = p.afStart
			} else if candles[i].High > ep {
				ep = candles[i].High
				af = min(af+p.afStep, p.afMax)
			}
		} else {
			if candles[i].High > sar[i] {
				// Price crossed above: flip to uptrend
				uptrend = true
				sar[i] = ep
				ep = candles[i].High
				af = p.afStart
			} else if candles[i].Low < ep {
				ep = candles[i].Low
				af = min(af+p.afStep, p.afMax)
			}
		}

		if uptrend {
			direction[i] = 1
		} else {
			direction[i] = -1
		}
	}

	return map[string][]float64{
		"sar":       sar,
		"direction": direction,
	}, nil
}

// Ichimoku calculates the Ichimoku cloud lines without forward displacement:
// every line is reported at the bar it is computed from.
type Ichimoku struct {
	tenkanPeriod  int
	kijunPeriod   int
	senkouBPeriod int
}

// NewIchimoku creates a new Ichimoku indicator with the standard 9/26/52
// periods.
func NewIchimoku() *Ichimoku {
	return &Ichimoku{
		tenkanPeriod:  9,
		kijunPeriod:   26,
		senkouBPeriod: 52,
	}
}

func (ic *Ichimoku) Name() string {
	return "Ichimoku"
}

func (ic *Ichimoku) Period() int {
	return ic.senkouBPeriod
}

func (ic *Ichimoku) Calculate(candles []models.Candle) (map[string][]float64, error) {
	if len(candles) < ic.senkouBPeriod {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	highs := highPrices(candles)
	lows := lowPrices(candles)

	tenkanSen := make([]float64, n)
	kijunSen := make([]float64, n)
	senkouSpanA := make([]float64, n)
	senkouSpanB := make([]float64, n)
	chikouSpan := make([]float64, n)

	midpoint := func(period, i int) float64 {
		h := highest(highs[i-period+1 : i+1])
		l := lowest(lows[i-period+1 : i+1])
		return (h + l) / 2
	}

	for i := ic.tenkanPeriod - 1; i < n; i++ {
		tenkanSen[i] = midpoint(ic.tenkanPeriod, i)
	}
	for i := ic.kijunPeriod - 1; i < n; i++ {
		kijunSen[i] = midpoint(ic.kijunPeriod, i)
		senkouSpanA[i] = (tenkanSen[i] + kijunSen[i]) / 2
	}
	for i := ic.senkouBPeriod - 1; i < n; i++ {
		senkouSpanB[i] = midpoint(ic.senkouBPeriod, i)
	}
	for i := 0; i < n; i++ {
		chikouSpan[i] = candles[i].Close
	}

	return map[string][]float64{
		"tenkan_sen":    tenkanSen,
		"kijun_sen":     kijunSen,
		"senkou_span_a": senkouSpanA,
		"senkou_span_b": senkouSpanB,
		"chikou_span":   chikouSpan,
	}, nil
}
