package root

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/spf13/cobra"

	"dailyquest/internal/config"
	"dailyquest/internal/engine"
	"dailyquest/internal/firebaseapp"
	"dailyquest/internal/notify"
	"dailyquest/internal/storage"
	fsstore "dailyquest/internal/storage/firestore"
	"dailyquest/internal/ui"
)

// app is everything a command needs: configuration, the engine and the
// local user it acts for.
type app struct {
	env    *config.Env
	svc    *engine.Service
	log    *log.Logger
	fb     *firebase.App
	userID string
}

func newLogger() *log.Logger {
	if verbose {
		return log.New(os.Stderr, "", log.LstdFlags)
	}
	return log.New(io.Discard, "", 0)
}

func openApp(ctx context.Context) (*app, func(), error) {
	return openAppWithLogger(ctx, newLogger())
}

func openAppWithLogger(ctx context.Context, logger *log.Logger) (*app, func(), error) {
	env, err := config.LoadEnv()
	if err != nil {
		return nil, nil, err
	}
	loc, err := env.Location()
	if err != nil {
		return nil, nil, err
	}
	bal, err := config.LoadBalance(env.BalanceFile)
	if err != nil {
		return nil, nil, err
	}
	rules, err := bal.Rules(loc, rand.New(rand.NewSource(time.Now().UnixNano())))
	if err != nil {
		return nil, nil, err
	}

	a := &app{env: env, log: logger, userID: env.User}
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	if env.Backend == config.BackendFirestore || env.Push || env.Auth == config.AuthFirebase {
		a.fb, err = firebaseapp.New(ctx, env.FirebaseProjectID, env.CredentialsFile, logger)
		if err != nil {
			return nil, nil, err
		}
	}

	var store engine.Store
	switch env.Backend {
	case config.BackendFirestore:
		client, err := a.fb.Firestore(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get Firestore client: %w", err)
		}
		fs := fsstore.New(client)
		closers = append(closers, func() { _ = fs.Close() })
		store = fs
	default:
		path, err := storage.ResolveDBPath(env.DBPath)
		if err != nil {
			return nil, nil, err
		}
		db, err := storage.Open(ctx, path)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { _ = db.Close() })
		store = storage.NewSQLiteStore(db)
	}

	notifiers := notify.Multi{notify.NewLogger(logger)}
	if env.Push {
		push, err := notify.NewPush(ctx, a.fb, logger)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		notifiers = append(notifiers, push)
	}

	a.svc = engine.NewService(store, rules,
		engine.WithNotifier(notifiers),
		engine.WithLogger(logger),
	)
	return a, cleanup, nil
}

// begin registers the local user and runs the daily reset when a new day has
// started. The reset summary is printed once, on the first command of the day.
func (a *app) begin(ctx context.Context, cmd *cobra.Command) error {
	if err := a.svc.RegisterProfile(ctx, storage.Profile{UserID: a.userID, Email: a.env.Email}); err != nil {
		return err
	}
	res, err := a.svc.StartSession(ctx, a.userID)
	if err != nil {
		return err
	}
	if res.Reset {
		printSession(cmd.OutOrStdout(), res)
	}
	return nil
}

func printSession(w io.Writer, res *engine.SessionResult) {
	fmt.Fprintln(w, ui.Heading(ui.IconSparkle, res.Session.Mood))
	if res.Missed > 0 {
		fmt.Fprintf(w, "%s missed %d %s: %s XP, %s coins\n",
			ui.Warn.Render(ui.IconWarn),
			res.Missed, plural(res.Missed, "task", "tasks"),
			ui.Signed(-res.XPPenalty), ui.Signed(-res.CoinPenalty))
	}
	if res.ExpiredRewards > 0 {
		fmt.Fprintf(w, "%s %d %s expired\n", ui.Muted.Render(ui.IconGift), res.ExpiredRewards, plural(res.ExpiredRewards, "reward", "rewards"))
	}
	if res.StreaksReset > 0 {
		fmt.Fprintf(w, "%s %d %s reset\n", ui.Muted.Render(ui.IconFlame), res.StreaksReset, plural(res.StreaksReset, "streak", "streaks"))
	}
	if res.Session.Locked {
		fmt.Fprintln(w, ui.Muted.Render(ui.IconLock+" Board locked. Run `dq unlock` when you are ready."))
	}
	fmt.Fprintln(w, "")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// resolveTask accepts a 1-based position from `dq list`, a full id or a
// unique id prefix.
func (a *app) resolveTask(ctx context.Context, ref string) (*storage.Task, error) {
	tasks, err := a.svc.ListTasks(ctx, a.userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(tasks))
	for i := range tasks {
		ids[i] = tasks[i].ID
	}
	i, err := resolveRef(ids, ref)
	if err != nil {
		return nil, fmt.Errorf("task %q: %w", ref, err)
	}
	return &tasks[i], nil
}

func (a *app) resolveReward(ctx context.Context, ref string) (*storage.Reward, error) {
	rewards, err := a.svc.Inventory(ctx, a.userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(rewards))
	for i := range rewards {
		ids[i] = rewards[i].ID
	}
	i, err := resolveRef(ids, ref)
	if err != nil {
		return nil, fmt.Errorf("reward %q: %w", ref, err)
	}
	return &rewards[i], nil
}

var (
	errNoMatch      = errors.New("no such id")
	errAmbiguousRef = errors.New("ambiguous id prefix")
)

func resolveRef(ids []string, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(ids) {
		return n - 1, nil
	}
	match := -1
	for i, id := range ids {
		if id == ref {
			return i, nil
		}
		if ref != "" && strings.HasPrefix(id, ref) {
			if match >= 0 {
				return -1, errAmbiguousRef
			}
			match = i
		}
	}
	if match < 0 {
		return -1, errNoMatch
	}
	return match, nil
}

func exactlyOne(name string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
