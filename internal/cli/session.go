package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mesh-intelligence/boxdata/pkg/animation"
	"github.com/mesh-intelligence/boxdata/pkg/types"
)

// userError marks mistakes in command input, as opposed to system failures.
type userError struct{ msg string }

func (e *userError) Error() string { return e.msg }

func userErrorf(format string, args ...any) error {
	return &userError{msg: fmt.Sprintf(format, args...)}
}

// isUserError reports whether err stems from bad input rather than the
// environment.
func isUserError(err error) bool {
	var ue *userError
	if errors.As(err, &ue) {
		return true
	}
	for _, target := range []error{
		types.ErrParse, types.ErrUnknownDataType, types.ErrInvalidName,
		types.ErrDuplicateName, types.ErrTableNotFound, types.ErrInvalidFPS,
		types.ErrInvalidLogLevel,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// newLogger returns a text logger on w at the given level name.
func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

// newSession builds an animation from cfg, registering each configured type
// with its fields in order.
func newSession(cfg types.Config, logger *slog.Logger) (*animation.Animation, error) {
	anim := animation.New(cfg.FPS, animation.Options{Logger: logger})
	for _, tc := range cfg.Types {
		fields, err := tc.Schema()
		if err != nil {
			return nil, fmt.Errorf("type %q: %w", tc.Name, err)
		}
		tbl := anim.RegisterTable(tc.Name)
		for _, f := range fields {
			tbl.AddField(f.Name, f.Type)
		}
		logger.Debug("registered type", slog.String("type", tc.Name), slog.Int("fields", len(fields)))
	}
	return anim, nil
}
