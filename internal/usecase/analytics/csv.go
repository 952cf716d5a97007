package analytics

import (
	"encoding/csv"
	"io"
	"strconv"
)

var monthlyHeader = []string{"month", "completed_trips", "revenue", "fuel_cost", "maintenance_cost", "net_profit", "margin"}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// WriteMonthlyCSV выгружает сводку в CSV; пустая маржа - пустая ячейка
func WriteMonthlyCSV(w io.Writer, rows []MonthlySummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(monthlyHeader); err != nil {
		return err
	}

	for _, row := range rows {
		margin := ""
		if row.Margin != nil {
			margin = strconv.FormatFloat(*row.Margin, 'f', 4, 64)
		}
		record := []string{
			row.Month,
			strconv.Itoa(row.CompletedTrips),
			formatMoney(row.Revenue),
			formatMoney(row.FuelCost),
			formatMoney(row.MaintenanceCost),
			formatMoney(row.NetProfit),
			margin,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
