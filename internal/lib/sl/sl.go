package sl

import (
	"log/slog"
	"strings"
)

func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

func Module(mod string) slog.Attr {
	return slog.String("module", mod)
}

// Secret logs only the edges of a sensitive value.
func Secret(key, value string) slog.Attr {
	if len(value) <= 8 {
		return slog.String(key, strings.Repeat("*", len(value)))
	}
	return slog.String(key, value[:4]+"****"+value[len(value)-4:])
}

// Email masks the local part of an address, keeping the domain readable.
func Email(key, email string) slog.Attr {
	at := strings.LastIndex(email, "@")
	if at <= 1 {
		return slog.String(key, email)
	}
	return slog.String(key, email[:1]+"***"+email[at:])
}
