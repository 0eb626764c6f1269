package importer_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradebookhq/tradebook/internal/importer"
	"github.com/tradebookhq/tradebook/internal/trade"
)

func TestService_ImportTradovateCSV(t *testing.T) {
	csv := `symbol,qty,buyPrice,sellPrice,pnl,boughtTimestamp,soldTimestamp,duration
NQZ5,1,25501.00,25513.75,$255.00,11/30/2025 20:15:41,11/30/2025 20:21:56,6min
`

	accountID := uuid.New()
	svc := importer.NewService(nil)

	result, err := svc.Import(trade.PlatformTradovate, importer.File{
		Name:        "Performance.csv",
		ContentType: "text/csv",
		Data:        []byte(csv),
	}, importer.Options{AccountID: accountID})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Rows)
	assert.Equal(t, 255.0, result.TotalPnL)
	require.Len(t, result.Trades, 1)

	got := result.Trades[0]
	assert.Equal(t, accountID, got.AccountID)
	assert.Equal(t, trade.PlatformTradovate, got.Platform)
	assert.Equal(t, "NQ", got.Symbol)
	assert.Equal(t, trade.DirectionLong, got.Direction)
	assert.Equal(t, 255.0, got.PnL)
}

func TestService_ImportMetaTraderCSV(t *testing.T) {
	csv := `Positions
Time;Position;Symbol;Type;Volume;Price;S / L;T / P;Time;Price;Commission;Swap;Profit
2025.11.30 20:15:41;1001;EURUSD.cash;buy;0.10;1.05001;0;0;2025.11.30 21:00:00;1.05101;-5.00;-2.00;500.00

Total Net Profit:;493.00
`

	svc := importer.NewService(nil)

	result, err := svc.Import(trade.PlatformMetaTrader, importer.File{
		Name: "ReportHistory.csv",
		Data: []byte(csv),
	}, importer.Options{AccountID: uuid.New()})
	require.NoError(t, err)

	require.Len(t, result.Trades, 1)
	assert.Equal(t, "EURUSD", result.Trades[0].Symbol)
	assert.Equal(t, 493.0, result.Trades[0].PnL)
	assert.Equal(t, 493.0, result.TotalPnL)
}

func TestService_ImportMetaTraderXLSXReroutesToHTML(t *testing.T) {
	// An HTML report saved with an .xlsx name must land in the HTML parser.
	html := `<!DOCTYPE html>
<html><body><table>
<tr><td><b>Positions</b></td></tr>
<tr><td>2025.11.30 20:15:41</td><td>1001</td><td>EURUSD</td><td>buy</td><td>0.10</td><td>1.05001</td><td>0</td><td>0</td><td>2025.11.30 21:00:00</td><td>1.05101</td><td>-5.00</td><td>-2.00</td><td>500.00</td></tr>
<tr><td><b>Orders</b></td></tr>
</table></body></html>`

	svc := importer.NewService(nil)

	result, err := svc.Import(trade.PlatformMetaTrader, importer.File{
		Name: "ReportHistory.xlsx",
		Data: []byte(html),
	}, importer.Options{})
	require.NoError(t, err)

	require.Len(t, result.Trades, 1)
	assert.Equal(t, "EURUSD", result.Trades[0].Symbol)
}

func TestService_ImportNinjaTrader(t *testing.T) {
	csv := `Núm. Neg.;Instrumento;Posição no merc.;Qtd.;Preço de entrada;Preço de saída;Hora de entrada;Hora de saída;Lucro;Com.
1;ES 12-25;Comprada;1;4150,25;4155,50;30/11/2025 20:15:41;30/11/2025 20:21:56;500,00;5,00
`

	svc := importer.NewService(nil)

	result, err := svc.Import(trade.PlatformNinjaTrader, importer.File{
		Name: "trades.csv",
		Data: []byte(csv),
	}, importer.Options{})
	require.NoError(t, err)

	require.Len(t, result.Trades, 1)
	got := result.Trades[0]
	assert.Equal(t, "ES", got.Symbol)
	assert.Equal(t, 4150.25, got.EntryPrice)
	assert.Equal(t, -5.0, got.Commission)
	assert.Equal(t, 495.0, got.PnL)
	assert.Equal(t, 495.0, result.TotalPnL)
}

func TestService_ImportWithTimezones(t *testing.T) {
	target, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	csv := `Núm. Neg.;Instrumento;Posição no merc.;Qtd.;Preço de entrada;Preço de saída;Hora de entrada;Hora de saída;Lucro;Com.
1;ES 12-25;Comprada;1;4150,25;4155,50;30/11/2025 20:15:41;30/11/2025 20:21:56;500,00;5,00
`

	svc := importer.NewService(target)

	result, err := svc.Import(trade.PlatformNinjaTrader, importer.File{
		Name: "trades.csv",
		Data: []byte(csv),
	}, importer.Options{Timezone: "America/New_York"})
	require.NoError(t, err)

	require.Len(t, result.Trades, 1)
	assert.Equal(t, 22, result.Trades[0].EntryTime.Hour())
}

func TestService_UnknownPlatform(t *testing.T) {
	svc := importer.NewService(nil)

	_, err := svc.Import("etrade", importer.File{Data: []byte("x")}, importer.Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plataforma desconhecida")
}

func TestService_EmptyFile(t *testing.T) {
	svc := importer.NewService(nil)

	for _, platform := range []trade.Platform{
		trade.PlatformTradovate, trade.PlatformMetaTrader, trade.PlatformNinjaTrader,
	} {
		_, err := svc.Import(platform, importer.File{Name: "x.csv"}, importer.Options{})
		require.Error(t, err, "platform %s", platform)
		assert.Contains(t, err.Error(), "vazio")
	}
}
