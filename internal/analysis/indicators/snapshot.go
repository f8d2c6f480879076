package indicators

import (
	"cryptoradar/internal/analysis"
	"cryptoradar/internal/models"
)

// Snapshot evaluates every indicator on the given candles and returns the
// values at the latest bar. It never fails: any indicator without enough
// history reports its neutral default instead, so the returned set is always
// fully populated.
//
// Neutral defaults: RSI 50, MACD all zero, Bollinger bands flat at the last
// close, Stochastic 50/50, ATR 0, ADX 0, Williams %R -50, CCI 0, Parabolic
// SAR at the last close, MFI 50, OBV 0, VPT 0, and an Ichimoku cloud flat at
// the last close. Moving averages degrade to the mean of whatever closes are
// available so short series still expose their trend ordering.
func Snapshot(candles []models.Candle) analysis.IndicatorSet {
	var lastClose float64
	if len(candles) > 0 {
		lastClose = candles[len(candles)-1].Close
	}

	meanClose := lastClose
	if len(candles) > 1 {
		meanClose = mean(closePrices(candles))
	}

	set := analysis.IndicatorSet{
		RSI:          50,
		SMA20:        meanClose,
		SMA50:        meanClose,
		EMA12:        meanClose,
		EMA26:        meanClose,
		Bollinger:    analysis.BollingerValue{Upper: lastClose, Middle: lastClose, Lower: lastClose},
		Stochastic:   analysis.StochasticValue{K: 50, D: 50},
		WilliamsR:    -50,
		ParabolicSAR: lastClose,
		MFI:          50,
		Ichimoku: analysis.IchimokuValue{
			TenkanSen:   lastClose,
			KijunSen:    lastClose,
			SenkouSpanA: lastClose,
			SenkouSpanB: lastClose,
			ChikouSpan:  lastClose,
		},
		HasRealVolume: hasRealVolume(candles),
	}

	if len(candles) == 0 {
		return set
	}

	last := len(candles) - 1

	if v, err := NewRSI(14).Calculate(candles); err == nil {
		set.RSI = v[last]
	}
	if v, err := NewMACD(12, 26, 9).Calculate(candles); err == nil {
		set.MACD = analysis.MACDValue{
			Line:      v["macd"][last],
			Signal:    v["signal"][last],
			Histogram: v["histogram"][last],
		}
	} else if len(candles) >= 26 {
		// Enough bars for the MACD line but not the signal EMA: report the
		// line against a zero signal rather than suppressing it entirely
		closes := closePrices(candles)
		fast := CalculateEMA(closes, 12)
		slow := CalculateEMA(closes, 26)
		line := fast[last] - slow[last]
		set.MACD = analysis.MACDValue{Line: line, Signal: 0, Histogram: line}
	}
	if v, err := NewSMA(20).Calculate(candles); err == nil {
		set.SMA20 = v[last]
	}
	if v, err := NewSMA(50).Calculate(candles); err == nil {
		set.SMA50 = v[last]
	}
	if v, err := NewEMA(12).Calculate(candles); err == nil {
		set.EMA12 = v[last]
	}
	if v, err := NewEMA(26).Calculate(candles); err == nil {
		set.EMA26 = v[last]
	}
	if v, err := NewBollingerBands(20, 2.0).Calculate(candles); err == nil {
		set.Bollinger = analysis.BollingerValue{
			Upper:  v["upper"][last],
			Middle: v["middle"][last],
			Lower:  v["lower"][last],
		}
	}
	if v, err := NewStochastic(14, 3).Calculate(candles); err == nil {
		set.Stochastic = analysis.StochasticValue{
			K: v["percent_k"][last],
			D: v["percent_d"][last],
		}
	}
	if v, err := NewATR(14).Calculate(candles); err == nil {
		set.ATR = v[last]
	}
	if v, err := NewADX(14).Calculate(candles); err == nil {
		set.ADX = v["adx"][last]
	}
	if v, err := NewWilliamsR(14).Calculate(candles); err == nil {
		set.WilliamsR = v[last]
	}
	if v, err := NewCCI(20).Calculate(candles); err == nil {
		set.CCI = v[last]
	}
	if v, err := NewParabolicSAR().Calculate(candles); err == nil {
		set.ParabolicSAR = v["sar"][last]
	}
	if v, err := NewMFI(14).Calculate(candles); err == nil {
		set.MFI = v[last]
	}
	if v, err := NewOBV().Calculate(candles); err == nil {
		set.OBV = v[last]
	}
	if v, err := NewVPT().Calculate(candles); err == nil {
		set.VPT = v[last]
	}
	if v, err := NewIchimoku().Calculate(candles); err == nil {
		set.Ichimoku = analysis.IchimokuValue{
			TenkanSen:   v["tenkan_sen"][last],
			KijunSen:    v["kijun_sen"][last],
			SenkouSpanA: v["senkou_span_a"][last],
			SenkouSpanB: v["senkou_span_b"][last],
			ChikouSpan:  v["chikou_span"][last],
		}
	}

	return set
}
