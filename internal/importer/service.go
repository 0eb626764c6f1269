package importer

import (
	"errors"
	"fmt"
	"time"

	enc "github.com/tradebookhq/tradebook/internal/encoding"
	"github.com/tradebookhq/tradebook/internal/importer/metatrader"
	"github.com/tradebookhq/tradebook/internal/importer/ninjatrader"
	"github.com/tradebookhq/tradebook/internal/importer/normalize"
	"github.com/tradebookhq/tradebook/internal/importer/tradovate"
	"github.com/tradebookhq/tradebook/internal/trade"
)

// Service routes an uploaded statement to the right platform adapter and
// normalizes the extracted rows into trade records. Each call is stateless;
// nothing is shared between imports.
type Service struct {
	targetLocation *time.Location
}

// NewService creates an import service converting entry/exit times into the
// given display timezone. A nil location keeps source timestamps unchanged.
func NewService(targetLocation *time.Location) *Service {
	return &Service{targetLocation: targetLocation}
}

func (s *Service) Import(platform trade.Platform, file File, opts Options) (*Result, error) {
	if len(file.Data) == 0 {
		return nil, fmt.Errorf("o arquivo está vazio")
	}

	transformOpts := normalize.TransformOptions{
		AccountID:      opts.AccountID,
		SourceLocation: sourceLocation(opts.Timezone),
		TargetLocation: s.targetLocation,
	}

	switch platform {
	case trade.PlatformTradovate:
		return s.importTradovate(file, transformOpts)
	case trade.PlatformMetaTrader:
		return s.importMetaTrader(file, transformOpts)
	case trade.PlatformNinjaTrader:
		return s.importNinjaTrader(file, transformOpts)
	default:
		return nil, fmt.Errorf("plataforma desconhecida: %s", platform)
	}
}

func (s *Service) importTradovate(file File, opts normalize.TransformOptions) (*Result, error) {
	var (
		result *tradovate.Result
		err    error
	)

	if enc.Sniff(file.Name, file.ContentType) == enc.KindPDF {
		result, err = tradovate.ParsePDF(file.Data)
	} else {
		result, err = tradovate.ParseCSV(file.Data)
	}

	if err != nil {
		return nil, err
	}

	return &Result{
		Trades:   tradovate.ToTradeParams(result.Data, opts),
		Rows:     len(result.Data),
		TotalPnL: result.TotalPnL,
	}, nil
}

func (s *Service) importMetaTrader(file File, opts normalize.TransformOptions) (*Result, error) {
	var (
		report *metatrader.Report
		err    error
	)

	switch enc.Sniff(file.Name, file.ContentType) {
	case enc.KindCSV:
		report, err = metatrader.ParseCSV(file.Data)
	case enc.KindHTML:
		report, err = metatrader.ParseHTML(file.Data)
	default:
		report, err = metatrader.ParseXLSX(file.Data)
		if errors.Is(err, metatrader.ErrHTMLReport) {
			report, err = metatrader.ParseHTML(file.Data)
		}
	}

	if err != nil {
		return nil, err
	}

	mapping := normalize.DetectColumnMapping(report.Headers)
	trades := normalize.TransformTrades(report.Rows, mapping, trade.PlatformMetaTrader, opts)

	return &Result{
		Trades:   trades,
		Rows:     len(report.Rows),
		TotalPnL: report.TotalNetProfit,
	}, nil
}

func (s *Service) importNinjaTrader(file File, opts normalize.TransformOptions) (*Result, error) {
	report, err := ninjatrader.ParseCSV(file.Data)
	if err != nil {
		return nil, err
	}

	mapping := normalize.DetectColumnMapping(report.Headers)
	trades := normalize.TransformTrades(report.Rows, mapping, trade.PlatformNinjaTrader, opts)

	result := &Result{
		Trades: trades,
		Rows:   len(report.Rows),
	}

	for _, p := range trades {
		result.TotalPnL += p.PnL
	}

	return result, nil
}
