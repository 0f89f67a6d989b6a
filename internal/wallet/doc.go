// Package wallet holds the JSON side of the bridge: the entry codec, the
// bulk import reducer and the category aggregator. It talks to the engine
// only through the Inserter and Fetcher interfaces.
package wallet
