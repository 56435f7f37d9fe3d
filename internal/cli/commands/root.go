package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ilogapp/ilog-cli/internal/api"
	"github.com/ilogapp/ilog-cli/internal/config"
	"github.com/ilogapp/ilog-cli/internal/session"
	"github.com/ilogapp/ilog-cli/internal/store"
	"github.com/ilogapp/ilog-cli/internal/validate"
)

// App bundles the services every command depends on. It is constructed once
// at process start and passed to the command constructors; nothing here is a
// package-level singleton.
type App struct {
	Config    *config.Config
	Sessions  *session.Store
	Client    *api.Client
	Schedules *store.ScheduleStore
	ILogs     *store.ILogStore
	Nicknames *validate.NicknameChecker
}

// NewApp wires the service graph: config, session store, API client with its
// session-invalidation hook, and the two entity stores.
func NewApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("could not load config: %w", err)
	}

	sessions, err := session.NewStore(cfg.DeviceID)
	if err != nil {
		return nil, fmt.Errorf("could not open session store: %w", err)
	}

	client := api.NewClient(cfg.API.BaseURL, time.Duration(cfg.API.TimeoutSeconds)*time.Second)
	client.DeviceID = cfg.DeviceID
	client.TokenFunc = func() string {
		sess, err := sessions.Load()
		if err != nil {
			return ""
		}
		return sess.Token
	}
	client.OnSessionInvalid = func() {
		// A 401, expired JWT, timeout, or dead network all force a sign-out.
		_ = sessions.Clear()
	}

	return &App{
		Config:    cfg,
		Sessions:  sessions,
		Client:    client,
		Schedules: store.NewScheduleStore(client),
		ILogs:     store.NewILogStore(client),
		Nicknames: validate.NewNicknameChecker(client.CheckNickname, validate.DefaultDebounce),
	}, nil
}

// NewRootCmd creates the ilog command tree.
func NewRootCmd(app *App, version string) *cobra.Command {
	root := &cobra.Command{
		Use:     "ilog",
		Short:   "Calendar and journal in your terminal",
		Long:    "ilog keeps your schedules, tags, and daily journal (i-log) in sync with the ilog backend.",
		Version: version,
	}

	root.AddCommand(NewLoginCmd(app))
	root.AddCommand(NewLogoutCmd(app))
	root.AddCommand(NewWhoamiCmd(app))

	root.AddCommand(NewScheduleCmd(app))
	root.AddCommand(NewTagCmd(app))
	root.AddCommand(NewILogCmd(app))

	root.AddCommand(NewMonthCmd(app))
	root.AddCommand(NewWeekCmd(app))
	root.AddCommand(NewDayCmd(app))
	root.AddCommand(NewCalendarCmd(app))

	root.AddCommand(NewProfileCmd(app))
	root.AddCommand(NewDevCmd())

	return root
}
