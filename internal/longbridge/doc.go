// Package longbridge integrates the Longbridge OpenAPI as a live data
// feed and execution broker.
//
// A single Connector holds the credentials and lazily builds the quote
// and trade contexts; the Feed and the Broker share one Connector so the
// process never opens duplicate sessions against the API. Market data is
// pulled on a rate-limited polling cycle and converted into the engine's
// tick types.
package longbridge
