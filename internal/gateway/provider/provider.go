// Package provider holds one gateway.Gateway implementation per SMS vendor.
package provider

import (
	"io"
	"log/slog"
	"strings"
)

// Gateway names, as accepted by New.
const (
	NameCellsynt     = "cellsynt"
	NameFortySixElks = "46elks"
	NameTwilio       = "twilio"
	NameVonage       = "vonage"
	NameNexmo        = "nexmo"
	NameTelenor      = "telenor"
)

func providerLogger(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return logger.With("provider", name)
}

// stripPlus removes the E.164 '+' some providers put on inbound numbers.
func stripPlus(number string) string {
	return strings.TrimPrefix(strings.TrimSpace(number), "+")
}
