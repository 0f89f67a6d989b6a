package bridge

import (
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/dmitrijs2005/walletbridge/internal/wallet"
)

// ErrInputDecode marks an argument that is not well-formed UTF-8.
var ErrInputDecode = errors.New("invalid utf-8 sequence")

type failure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type done struct {
	Success bool `json:"success"`
}

type entriesResult struct {
	Success bool               `json:"success"`
	Entries []wallet.EntryView `json:"entries"`
}

type importResult struct {
	Success bool `json:"success"`
	wallet.ImportReport
}

type categoriesResult struct {
	Success bool `json:"success"`
	wallet.CategorySummary
}

func failureJSON(err error) string {
	b, mErr := json.Marshal(failure{Error: err.Error()})
	if mErr != nil {
		return `{"success":false,"error":"failed to encode error"}`
	}
	return string(b)
}

func resultJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(b), nil
}

// arg is one named text input of a call.
type arg struct {
	name  string
	value string
}

func validate(args ...arg) error {
	for _, a := range args {
		if !utf8.ValidString(a.value) {
			return fmt.Errorf("invalid %s: %w", a.name, ErrInputDecode)
		}
	}
	return nil
}
