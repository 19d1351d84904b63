// Package preflight checks that the storefront origin answers over plain
// HTTP before the pipeline pays for a Chrome launch.
package preflight

import (
	"fmt"

	"github.com/gocolly/colly/v2"

	"github.com/MVCVLLVN/yandex-market-etl/pkg/logger"
)

const component = "preflight"

// Check fetches baseURL once and fails on transport errors or non-2xx
// responses. It deliberately does not look at the body: the storefront is
// rendered client-side, so only reachability is meaningful here.
func Check(baseURL, userAgent string) error {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
	)

	status := 0
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
	})

	if err := c.Visit(baseURL); err != nil {
		return fmt.Errorf("origin unreachable: %w", err)
	}
	if status < 200 || status > 299 {
		return fmt.Errorf("origin answered with status %d", status)
	}

	logger.Infof(component, "%s reachable (status %d)", baseURL, status)
	return nil
}
