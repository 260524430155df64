package dedupe

// Package dedupe provides shared singleflight groups used to deduplicate
// concurrent expensive computations. Using a centralized singleflight.Group
// ensures that only one computation runs for a given key while other callers
// wait for the result.

import "golang.org/x/sync/singleflight"

// ReportGroup deduplicates balance-report assembly requests keyed by run ID,
// so concurrent report fetches for the same run decode the stored iteration
// JSON only once.
var ReportGroup singleflight.Group

// BattleGroup deduplicates detailed single-battle simulations keyed by the
// requested seed.
var BattleGroup singleflight.Group
