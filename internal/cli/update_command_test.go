package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andreipa/police-transcriber/internal/config"
	"github.com/andreipa/police-transcriber/internal/update"
)

func TestUpdateCommandAnnouncesNewerRelease(t *testing.T) {
	t.Parallel()

	out := new(bytes.Buffer)
	app := &appState{
		latestFn: func(context.Context) (update.Release, error) {
			return update.Release{Version: "99.0.0", URL: "https://example.com/v99"}, nil
		},
	}

	cmd := newUpdateCmd(app)
	cmd.SetOut(out)
	cmd.SetErr(out)

	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "New version v99.0.0 available")
	require.Contains(t, out.String(), "https://example.com/v99")
}

func TestUpdateCommandReportsUpToDate(t *testing.T) {
	t.Parallel()

	out := new(bytes.Buffer)
	app := &appState{
		latestFn: func(context.Context) (update.Release, error) {
			return update.Release{Version: "0.0.1", URL: "https://example.com"}, nil
		},
	}

	cmd := newUpdateCmd(app)
	cmd.SetOut(out)
	cmd.SetErr(out)

	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "You are up to date")
}

func TestUpdateCommandSurfacesCheckErrors(t *testing.T) {
	t.Parallel()

	app := &appState{
		latestFn: func(context.Context) (update.Release, error) {
			return update.Release{}, errors.New("rate limited")
		},
	}

	cmd := newUpdateCmd(app)
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))

	require.Error(t, cmd.Execute())
}

func TestStartupNotifyRespectsConfigToggle(t *testing.T) {
	t.Parallel()

	called := false
	app := &appState{
		cfg: config.Config{CheckForUpdates: false},
		latestFn: func(context.Context) (update.Release, error) {
			called = true
			return update.Release{}, nil
		},
	}

	out := new(bytes.Buffer)
	app.notifyIfUpdateAvailable(context.Background(), out)
	require.False(t, called)
	require.Empty(t, out.String())
}

func TestStartupNotifyStaysQuietOnFailure(t *testing.T) {
	t.Parallel()

	app := &appState{
		cfg: config.Config{CheckForUpdates: true},
		latestFn: func(context.Context) (update.Release, error) {
			return update.Release{}, errors.New("offline")
		},
	}

	out := new(bytes.Buffer)
	app.notifyIfUpdateAvailable(context.Background(), out)
	require.Empty(t, out.String())
}
