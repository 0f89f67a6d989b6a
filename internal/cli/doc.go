// Package cli implements walletctl, a one-shot command line front end for
// the wallet bridge.
//
// Usage:
//
//	walletctl genkey
//	walletctl version
//	walletctl provision  -w PATH [-k KEY]
//	walletctl insert     -w PATH [-k KEY] -n NAME -v VALUE
//	walletctl list       -w PATH [-k KEY]
//	walletctl import     -w PATH [-k KEY] [-f FILE|-]
//	walletctl categories -w PATH [-k KEY]
//
// Every wallet command prints the JSON envelope and exits 1 when it reports
// failure. With -r ADDR (or remote_addr in config) the call is sent to
// walletd instead of running in-process. When -k is omitted and stdin is a
// terminal the key is read without echo.
package cli
