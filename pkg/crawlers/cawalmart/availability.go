package cawalmart

import (
	"encoding/json"
	"fmt"
)

// The find-in-store API answers with real JSON, unlike the product page.
type availabilityList struct {
	Info []branchEntry `json:"info"`
}

type branchEntry struct {
	ID    int      `json:"id"`
	Price *float64 `json:"sellPrice"`
	Stock *int     `json:"availableToSellQty"`
}

// ResolveAvailability scans the availability response for the entry whose id
// equals the context's target branch. List order carries no meaning, first
// match wins. On a match with both fields present it returns a complete
// record cloned from the bare one; otherwise no record is produced and the
// error says why.
func ResolveAvailability(cctx *CrawlContext, body []byte) (*Record, error) {
	var list availabilityList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("decode availability response: %w", err)
	}

	for _, entry := range list.Info {
		if entry.ID != cctx.Branch.ID {
			continue
		}
		if entry.Price == nil || entry.Stock == nil {
			return nil, fmt.Errorf("branch %d: %w", cctx.Branch.ID, ErrIncompleteAvailability)
		}
		rec := cctx.Record.Clone()
		rec.BranchID = entry.ID
		price := *entry.Price
		stock := *entry.Stock
		rec.Price = &price
		rec.Stock = &stock
		return rec, nil
	}

	return nil, fmt.Errorf("branch %d: %w", cctx.Branch.ID, ErrNoBranchMatch)
}
