package logger

import (
	"log/slog"
	"strconv"
)

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors groups multiple non-nil errors under the key "errors".
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Feature records a feature name under the key "feature".
func Feature(name string) slog.Attr {
	return slog.String("feature", name)
}

// Features records a list of feature names under the key "features".
func Features(names []string) slog.Attr {
	return slog.Any("features", names)
}

// Phase records the lifecycle phase under the key "phase".
func Phase(phase string) slog.Attr {
	return slog.String("phase", phase)
}

// FaultID records a fault identifier under the key "fault_id".
func FaultID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("fault_id", id)
}

// Note records a human-readable note under the key "note".
// Empty notes produce an empty Attr.
func Note(note string) slog.Attr {
	if note == "" {
		return slog.Attr{}
	}
	return slog.String("note", note)
}

// Driver records a storage driver under the key "driver".
func Driver(name string) slog.Attr {
	return slog.String("driver", name)
}

// Duration records a duration under the key "duration".
func Duration(d any) slog.Attr {
	return slog.Any("duration", d)
}
