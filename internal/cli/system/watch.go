package system

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/julianstephens/routinelog/internal/cli"
	"github.com/julianstephens/routinelog/internal/cli/groups"
	"github.com/julianstephens/routinelog/internal/cli/logs"
	"github.com/julianstephens/routinelog/internal/models"
	"github.com/julianstephens/routinelog/internal/tracker"
	"github.com/julianstephens/routinelog/internal/utils"
)

// WatchCmd prints a live query's snapshots as they arrive.
type WatchCmd struct {
	Collection string `arg:"" enum:"logs,items,groups,presets,friends,requests" help:"What to watch (logs|items|groups|presets|friends|requests)."`
	Date       string `short:"d" help:"Day to watch for logs (YYYY-MM-DD), defaults to today."`
	Count      int    `short:"c" help:"Stop after this many snapshots (0 watches until interrupted)."`
}

func (c *WatchCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	watchCtx, cancel := context.WithCancel(ctx.Ctx)
	defer cancel()

	var mu sync.Mutex
	seen := 0
	emit := func(print func()) {
		mu.Lock()
		defer mu.Unlock()
		if c.Count > 0 && seen >= c.Count {
			return
		}
		seen++
		fmt.Println(cli.MutedStyle.Render(fmt.Sprintf("── %s #%d (%s)", c.Collection, seen, utils.FormatTime(ctx.Clock()))))
		print()
		if c.Count > 0 && seen >= c.Count {
			cancel()
		}
	}

	uid := user.UID
	var sub *tracker.Subscription
	switch c.Collection {
	case "logs":
		sub = ctx.Tracker.SubscribeToLogsByDate(watchCtx, uid, date, func(l []models.Log) {
			emit(func() { logs.PrintLogs(l, false) })
		})
	case "items":
		sub = ctx.Tracker.SubscribeToItems(watchCtx, uid, func(items []models.Item) {
			emit(func() {
				for _, it := range items {
					fmt.Printf("  %s %s\n", cli.Dot(it.GroupColorSnapshot), it.Name)
				}
			})
		})
	case "groups":
		sub = ctx.Tracker.SubscribeToGroups(watchCtx, uid, func(g []models.Group) {
			emit(func() { groups.PrintGroups(g) })
		})
	case "presets":
		sub = ctx.Tracker.SubscribeToPresets(watchCtx, uid, func(presets []models.Preset) {
			emit(func() {
				for _, p := range presets {
					fmt.Printf("  %s (%d items)\n", p.Name, len(p.ItemIDs))
				}
			})
		})
	case "friends":
		sub = ctx.Tracker.SubscribeToFriends(watchCtx, uid, func(friends []models.Friendship) {
			emit(func() {
				for _, f := range friends {
					fmt.Printf("  %s\n", f.Username)
				}
			})
		})
	case "requests":
		sub = ctx.Tracker.SubscribeToIncomingRequests(watchCtx, uid, func(reqs []models.FriendRequest) {
			emit(func() {
				names := make([]string, 0, len(reqs))
				for _, r := range reqs {
					names = append(names, r.FromUsername)
				}
				fmt.Printf("  %d pending: %s\n", len(reqs), strings.Join(names, ", "))
			})
		})
	default:
		return fmt.Errorf("unknown collection %q", c.Collection)
	}

	<-sub.Done()
	return nil
}
