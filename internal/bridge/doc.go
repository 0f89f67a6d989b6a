// Package bridge is the text boundary of the wallet: every operation takes
// UTF-8 strings, runs in its own call scope against a freshly opened store,
// and returns a Handle to a JSON envelope owned by the caller.
//
// Envelopes always carry "success". Failures add "error"; successes add only
// the operation's own fields:
//
//	{"success":true}
//	{"success":false,"error":"failed to open store: store not found"}
//	{"success":true,"entries":[{"name":"n","category":"item","value":"v","tags":[]}]}
//	{"success":true,"imported":1,"failed":0,"categories":{"creds":{"imported":1,"failed":0}}}
//	{"success":true,"categories":{"creds":1},"total":1}
//
// Each returned Handle must be released exactly once with Release (or consumed
// with Take).
package bridge
