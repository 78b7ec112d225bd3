package ticker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fox-one/pkg/logger"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"orboracle/core"
	"orboracle/pkg/resthttp"
)

type service struct {
	endpoint string
}

// New new ticker service
func New(endpoint string) core.ITickerService {
	return &service{endpoint: strings.TrimSuffix(endpoint, "/")}
}

// PullPriceTicker pull price ticker
func (s *service) PullPriceTicker(ctx context.Context, symbol string, t time.Time) (*core.PriceTicker, error) {
	url := fmt.Sprintf("%s/api/v2/tickers/%s?ts=%d", s.endpoint, symbol, t.UTC().Unix())
	logger.FromContext(ctx).Debugln("pull price:", url)

	resp, err := resthttp.Request(ctx).Get(url)
	if err != nil {
		return nil, err
	}

	var ticker core.PriceTicker
	if err := resthttp.ParseResponse(resp, &ticker); err != nil {
		return nil, err
	}

	if !ticker.Price.GreaterThan(decimal.Zero) {
		return nil, errors.Errorf("invalid %s price %s", symbol, ticker.Price)
	}

	return &ticker, nil
}
