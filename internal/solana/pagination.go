package solana

import (
	"context"
	"time"
)

// pageDelay throttles consecutive signature pages against public endpoints.
const pageDelay = 50 * time.Millisecond

// WalkSignatures pages backwards through an address's signature history,
// invoking fn for each page, newest first. Walking stops when fn returns
// false, when maxPages is reached, or when history is exhausted. A page
// fetch failure truncates the walk without error: callers see only the
// pages retrieved so far.
func WalkSignatures(ctx context.Context, client RPCClient, address string, pageLimit, maxPages int, fn func(page []SignatureInfo) bool) error {
	before := ""
	for page := 0; page < maxPages; page++ {
		if page > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pageDelay):
			}
		}

		opts := &SignaturesOpts{Limit: pageLimit, Before: before}
		sigs, err := client.GetSignaturesForAddress(ctx, address, opts)
		if err != nil {
			return nil
		}
		if len(sigs) == 0 {
			return nil
		}

		if !fn(sigs) {
			return nil
		}
		if len(sigs) < pageLimit {
			return nil
		}
		before = sigs[len(sigs)-1].Signature
	}
	return nil
}

// CollectAllSignatures walks the full signature history for an address
// and returns it newest first, bounded by pageLimit*maxPages entries.
func CollectAllSignatures(ctx context.Context, client RPCClient, address string, pageLimit, maxPages int) ([]SignatureInfo, error) {
	var all []SignatureInfo
	err := WalkSignatures(ctx, client, address, pageLimit, maxPages, func(page []SignatureInfo) bool {
		all = append(all, page...)
		return true
	})
	return all, err
}
