package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aretw0/framecast/internal/presentation/tui"
	"github.com/aretw0/framecast/pkg/domain"
	"github.com/aretw0/framecast/pkg/ports"
)

// ListSessions prints every snapshot in store as a markdown table passed
// through render (tui.Plain when nil). Entries that expire between List and
// Load are skipped.
func ListSessions(ctx context.Context, store ports.SessionStore, out io.Writer, render tui.Renderer) (int, error) {
	if render == nil {
		render = tui.Plain
	}
	ids, err := store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(ids) == 0 {
		fmt.Fprintln(out, "No active sessions.")
		return 0, nil
	}

	var md strings.Builder
	md.WriteString("| ID | STATE | MODE | FRAME | UPDATED |\n| --- | --- | --- | ---: | --- |\n")
	n := 0
	for _, id := range ids {
		snap, err := store.Load(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				continue
			}
			return n, fmt.Errorf("failed to load session %s: %w", id, err)
		}
		fmt.Fprintf(&md, "| %s | %s | %s | %d | %s |\n", snap.ID, snap.State, snap.Mode, snap.Frame, snap.UpdatedAt.Format(time.RFC3339))
		n++
	}

	rendered, err := render(md.String())
	if err != nil {
		return n, fmt.Errorf("failed to render session table: %w", err)
	}
	_, err = io.WriteString(out, rendered)
	return n, err
}
