package derive

import (
	"fmt"

	"pairScope/internal/model"
)

const (
	secondsPerHour = 3600
	secondsPerDay  = 86400
)

// updatePairDayData loads or creates the pair's bucket for the event's UTC
// day, overwrites its snapshot fields and bumps its txn counter.
func (e *Engine) updatePairDayData(pair *model.Pair, meta EventMeta) *model.PairDayData {
	dayID := meta.Timestamp / secondsPerDay
	id := fmt.Sprintf("%s-%d", pair.ID, dayID)
	day := e.db.PairDay(id)
	if day == nil {
		day = &model.PairDayData{
			ID:          id,
			Date:        dayID * secondsPerDay,
			PairAddress: pair.ID,
			Token0:      pair.Token0,
			Token1:      pair.Token1,
		}
	}
	day.Reserve0 = pair.Reserve0
	day.Reserve1 = pair.Reserve1
	day.TotalSupply = pair.TotalSupply
	day.ReserveUSD = pair.ReserveUSD
	day.DailyTxns++
	e.db.SavePairDay(day)
	return day
}

// updatePairHourData is the hourly counterpart of updatePairDayData.
func (e *Engine) updatePairHourData(pair *model.Pair, meta EventMeta) *model.PairHourData {
	hourIndex := meta.Timestamp / secondsPerHour
	id := fmt.Sprintf("%s-%d", pair.ID, hourIndex)
	hour := e.db.PairHour(id)
	if hour == nil {
		hour = &model.PairHourData{
			ID:            id,
			HourStartUnix: hourIndex * secondsPerHour,
			Pair:          pair.ID,
		}
	}
	hour.Reserve0 = pair.Reserve0
	hour.Reserve1 = pair.Reserve1
	hour.TotalSupply = pair.TotalSupply
	hour.ReserveUSD = pair.ReserveUSD
	hour.HourlyTxns++
	e.db.SavePairHour(hour)
	return hour
}

// updateFactoryDayData rolls the global aggregates into the day bucket. The
// cumulative totals are snapshots of the factory record, not per-day sums.
func (e *Engine) updateFactoryDayData(factory *model.Factory, meta EventMeta) *model.FactoryDayData {
	dayID := meta.Timestamp / secondsPerDay
	id := fmt.Sprintf("%d", dayID)
	day := e.db.FactoryDay(id)
	if day == nil {
		day = &model.FactoryDayData{
			ID:   id,
			Date: dayID * secondsPerDay,
		}
	}
	day.TotalVolumeUSD = factory.TotalVolumeUSD
	day.TotalVolumeNative = factory.TotalVolumeNative
	day.TotalLiquidityUSD = factory.TotalLiquidityUSD
	day.TotalLiquidityNative = factory.TotalLiquidityNative
	day.TxCount = factory.TxCount
	e.db.SaveFactoryDay(day)
	return day
}

// updateTokenDayData snapshots the token's liquidity and current USD price
// into the day bucket.
func (e *Engine) updateTokenDayData(token *model.Token, bundle *model.Bundle, meta EventMeta) *model.TokenDayData {
	dayID := meta.Timestamp / secondsPerDay
	id := fmt.Sprintf("%s-%d", token.ID, dayID)
	priceUSD := token.DerivedNative.Mul(bundle.NativePriceUSD)
	day := e.db.TokenDay(id)
	if day == nil {
		day = &model.TokenDayData{
			ID:    id,
			Date:  dayID * secondsPerDay,
			Token: token.ID,
		}
	}
	day.PriceUSD = priceUSD
	day.TotalLiquidityToken = token.TotalLiquidity
	day.TotalLiquidityNative = token.TotalLiquidity.Mul(token.DerivedNative)
	day.TotalLiquidityUSD = day.TotalLiquidityNative.Mul(bundle.NativePriceUSD)
	day.DailyTxns++
	e.db.SaveTokenDay(day)
	return day
}
