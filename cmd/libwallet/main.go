// Command libwallet builds the wallet bridge as a C shared library:
//
//	go build -buildmode=c-shared -o libwallet.so ./cmd/libwallet
//
// Every exported function returns a heap-allocated JSON string that the
// caller owns and must pass to free_string exactly once.
package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"context"
	"fmt"
	"os"
	"sync"
	"unsafe"

	"github.com/dmitrijs2005/walletbridge/internal/bridge"
	"github.com/dmitrijs2005/walletbridge/internal/config"
	"github.com/dmitrijs2005/walletbridge/internal/logging"
	"github.com/dmitrijs2005/walletbridge/internal/store"
)

var (
	once sync.Once
	br   *bridge.Bridge
)

// instance builds the bridge on first use from WALLET_* settings. Bad
// settings fall back to defaults so the library still answers.
func instance() *bridge.Bridge {
	once.Do(func() {
		cfg, err := config.FromEnv()
		if err != nil {
			fmt.Fprintln(os.Stderr, "libwallet: using defaults:", err)
			cfg = &config.Config{}
			cfg.LoadDefaults()
		}

		var logger logging.Logger = logging.Nop()
		if l, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr); err == nil {
			logger = l
		}

		method, err := store.ParseKeyMethod(cfg.KeyMethod)
		if err != nil {
			logger.Warn(context.Background(), "falling back to raw key method", "error", err)
			method = store.KeyMethodRaw
		}
		br = bridge.New(bridge.Config{KeyMethod: method, Logger: logger})
	})
	return br
}

// goText copies a C string; NULL reads as "".
func goText(s *C.char) string {
	return C.GoString(s)
}

// export hands the text behind h to C and releases the handle.
func export(b *bridge.Bridge, h bridge.Handle) *C.char {
	return C.CString(b.Take(h))
}

//export provision_wallet
func provision_wallet(dbPath, rawKey *C.char) *C.char {
	b := instance()
	return export(b, b.Provision(goText(dbPath), goText(rawKey)))
}

//export insert_entry
func insert_entry(dbPath, rawKey, name, value *C.char) *C.char {
	b := instance()
	return export(b, b.InsertEntry(goText(dbPath), goText(rawKey), goText(name), goText(value)))
}

//export list_entries
func list_entries(dbPath, rawKey *C.char) *C.char {
	b := instance()
	return export(b, b.ListEntries(goText(dbPath), goText(rawKey)))
}

//export import_bulk_entries
func import_bulk_entries(dbPath, rawKey, jsonData *C.char) *C.char {
	b := instance()
	return export(b, b.ImportBulk(goText(dbPath), goText(rawKey), goText(jsonData)))
}

//export list_categories
func list_categories(dbPath, rawKey *C.char) *C.char {
	b := instance()
	return export(b, b.ListCategories(goText(dbPath), goText(rawKey)))
}

//export free_string
func free_string(s *C.char) {
	if s == nil {
		return
	}
	C.free(unsafe.Pointer(s))
}

func main() {}
