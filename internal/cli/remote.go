package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/quizbank/internal/client"
	"github.com/mesh-intelligence/quizbank/internal/session"
)

// remote is one client session against the backend.
type remote struct {
	cache  *session.Cache
	bridge *session.Bridge
}

// connect builds a session for the configured server without fetching.
func (a *app) connect() (*remote, error) {
	c, err := client.New(a.v.GetString(cfgKeyServer), a.v.GetDuration(cfgKeyTimeout))
	if err != nil {
		return nil, userError("%v", err)
	}
	c.WithLogger(a.log)
	cache, bridge := session.NewSession(c)
	cache.WithLogger(a.log)
	bridge.WithLogger(a.log)
	return &remote{cache: cache, bridge: bridge}, nil
}

// openSession connects and loads every stored question into the cache.
func (a *app) openSession(ctx context.Context) (*remote, error) {
	r, err := a.connect()
	if err != nil {
		return nil, err
	}
	if err := r.bridge.FetchAll(ctx); err != nil {
		return nil, backendError("Failed to fetch questions", err)
	}
	return r, nil
}

// backendError turns a transport or server failure into a system error
// carrying the server's message when there is one.
func backendError(notice string, err error) error {
	var se *client.StatusError
	if errors.As(err, &se) && se.Message != "" {
		notice = se.Message
	}
	return sysError(notice, err)
}

// save pushes the cache to the backend and reports the result.
func (r *remote) save(ctx context.Context, cmd *cobra.Command) error {
	if err := r.bridge.SaveAll(ctx); err != nil {
		if errors.Is(err, session.ErrReload) {
			return sysError("Questions saved; reload failed", err)
		}
		return backendError("Failed to save questions", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Questions saved successfully")
	return nil
}
