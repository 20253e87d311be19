package friends

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/routinelog/internal/calendar"
	"github.com/julianstephens/routinelog/internal/cli"
	apperrors "github.com/julianstephens/routinelog/internal/errors"
	"github.com/julianstephens/routinelog/internal/models"
	"github.com/julianstephens/routinelog/internal/sharing"
	"github.com/julianstephens/routinelog/internal/utils"
)

type FriendCmd struct {
	Search   FriendSearchCmd   `cmd:"" help:"Find a user by username."`
	Request  FriendRequestCmd  `cmd:"" help:"Send a friend request."`
	Requests FriendRequestsCmd `cmd:"" help:"List incoming friend requests."`
	Respond  FriendRespondCmd  `cmd:"" help:"Accept or reject a friend request."`
	List     FriendListCmd     `cmd:"" help:"List friends."`
	Remove   FriendRemoveCmd   `cmd:"" help:"Remove a friend."`
	Perms    FriendPermsCmd    `cmd:"" help:"Change what a friend may see."`
	View     FriendViewCmd     `cmd:"" help:"View a friend's calendar."`
}

func lookup(ctx *cli.Context, username string) (*models.UserProfile, error) {
	profile, err := ctx.Tracker.SearchUserByUsername(ctx.Ctx, username)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("no user named %q", username)
	}
	return profile, nil
}

func friendByName(ctx *cli.Context, uid, username string) (models.Friendship, error) {
	friends, err := ctx.Tracker.GetFriends(ctx.Ctx, uid)
	if err != nil {
		return models.Friendship{}, err
	}
	for _, f := range friends {
		if strings.EqualFold(f.Username, username) {
			return f, nil
		}
	}
	return models.Friendship{}, fmt.Errorf("%s: %w", username, apperrors.ErrNotFriends)
}

type FriendSearchCmd struct {
	Username string `arg:"" help:"Exact username (case-insensitive)."`
}

func (c *FriendSearchCmd) Run(ctx *cli.Context) error {
	if _, err := ctx.RequireUser(); err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	profile, err := ctx.Tracker.SearchUserByUsername(ctx.Ctx, c.Username)
	if err != nil {
		return err
	}
	if profile == nil {
		fmt.Println("No user found")
		return nil
	}
	fmt.Printf("%s %s\n", profile.Username, cli.MutedStyle.Render(profile.UID))
	return nil
}

type FriendRequestCmd struct {
	Username string `arg:"" help:"Username to befriend."`
}

func (c *FriendRequestCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	me, err := ctx.Tracker.GetUserProfile(ctx.Ctx, user.UID)
	if err != nil {
		return err
	}
	if me == nil {
		return fmt.Errorf("your profile is missing; log in again")
	}
	to, err := lookup(ctx, c.Username)
	if err != nil {
		return err
	}
	if _, err := ctx.Tracker.SendFriendRequest(ctx.Ctx, *me, *to); err != nil {
		return err
	}
	fmt.Printf("Friend request sent to %s\n", to.Username)
	return nil
}

type FriendRequestsCmd struct{}

func (c *FriendRequestsCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	requests, err := ctx.Tracker.GetIncomingRequests(ctx.Ctx, user.UID)
	if err != nil {
		return err
	}
	if len(requests) == 0 {
		fmt.Println("No pending requests")
		return nil
	}
	for _, r := range requests {
		fmt.Printf("  %s %s\n", r.FromUsername, cli.MutedStyle.Render(r.ID))
	}
	return nil
}

type FriendRespondCmd struct {
	ID     string `arg:"" help:"Request ID."`
	Reject bool   `help:"Reject instead of accepting."`
}

func (c *FriendRespondCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	if err := ctx.Tracker.RespondToFriendRequest(ctx.Ctx, user.UID, c.ID, !c.Reject); err != nil {
		return err
	}
	if c.Reject {
		fmt.Println("Request rejected")
	} else {
		fmt.Println(cli.SuccessStyle.Render("✓ You are now friends"))
	}
	return nil
}

type FriendListCmd struct{}

func (c *FriendListCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	friends, err := ctx.Tracker.GetFriends(ctx.Ctx, user.UID)
	if err != nil {
		return err
	}
	if len(friends) == 0 {
		fmt.Println("No friends yet")
		return nil
	}
	for _, f := range friends {
		fmt.Printf("  %s %s\n", f.Username, cli.MutedStyle.Render(FormatPermissions(f.Permissions)))
	}
	return nil
}

// FormatPermissions describes what a friend may see.
func FormatPermissions(p models.Permissions) string {
	if !p.ViewCalendar {
		return "calendar hidden"
	}
	parts := []string{"calendar"}
	if p.ViewDetails {
		parts = append(parts, "details")
	}
	if p.HideTimes {
		parts = append(parts, "times hidden")
	}
	return strings.Join(parts, ", ")
}

type FriendRemoveCmd struct {
	Username string `arg:"" help:"Friend's username."`
	Yes      bool   `short:"y" help:"Skip the confirmation prompt."`
}

func (c *FriendRemoveCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	friend, err := friendByName(ctx, user.UID, c.Username)
	if err != nil {
		return err
	}
	ok, err := ctx.Confirm(fmt.Sprintf("Remove %s from your friends?", friend.Username), c.Yes)
	if err != nil || !ok {
		return err
	}
	if err := ctx.Tracker.RemoveFriend(ctx.Ctx, user.UID, friend.UID); err != nil {
		return err
	}
	fmt.Println("Friend removed")
	return nil
}

type FriendPermsCmd struct {
	Username string `arg:"" help:"Friend's username."`
	Calendar string `help:"Let them see your calendar (on|off)."`
	Details  string `help:"Let them see item names and notes (on|off)."`
	Times    string `help:"Show them log times (on|off)."`
}

func parseSwitch(name, value string, current bool) (bool, error) {
	switch strings.ToLower(value) {
	case "":
		return current, nil
	case "on", "yes":
		return true, nil
	case "off", "no":
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("--%s must be on or off, got %q", name, value)
	}
	return b, nil
}

func (c *FriendPermsCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	friend, err := friendByName(ctx, user.UID, c.Username)
	if err != nil {
		return err
	}

	perms := friend.Permissions
	if perms.ViewCalendar, err = parseSwitch("calendar", c.Calendar, perms.ViewCalendar); err != nil {
		return err
	}
	if perms.ViewDetails, err = parseSwitch("details", c.Details, perms.ViewDetails); err != nil {
		return err
	}
	showTimes, err := parseSwitch("times", c.Times, !perms.HideTimes)
	if err != nil {
		return err
	}
	perms.HideTimes = !showTimes

	if err := ctx.Tracker.UpdateFriendPermissions(ctx.Ctx, user.UID, friend.UID, perms); err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", friend.Username, FormatPermissions(perms))
	return nil
}

type FriendViewCmd struct {
	Username string `arg:"" help:"Friend's username."`
	Month    string `short:"m" help:"Month (YYYY-MM), defaults to the current month."`
	Day      string `short:"d" help:"Show the entries of one day (YYYY-MM-DD)."`
}

func (c *FriendViewCmd) Run(ctx *cli.Context) error {
	user, err := ctx.RequireUser()
	if err != nil {
		return err
	}
	if err := ctx.Connect(); err != nil {
		return err
	}
	owner, err := lookup(ctx, c.Username)
	if err != nil {
		return err
	}
	monthFlag := c.Month
	if c.Day != "" {
		day, err := utils.NormalizeDate(c.Day)
		if err != nil {
			return err
		}
		c.Day = day
		if monthFlag == "" {
			monthFlag = day[:7]
		}
	}
	year, month, err := ctx.ResolveMonth(monthFlag)
	if err != nil {
		return err
	}
	start, end := calendar.MonthDateRange(year, month)

	profile, err := sharing.NewViewer(ctx.Tracker).Open(ctx.Ctx, user.UID, owner.UID, start, end)
	if errors.Is(err, apperrors.ErrNotFriends) {
		return fmt.Errorf("%s has not added you as a friend", owner.Username)
	}
	if err != nil {
		return err
	}
	if !profile.Permissions.ViewCalendar {
		fmt.Printf("%s keeps their calendar private\n", owner.Username)
		return nil
	}

	fmt.Print(cli.RenderMonth(year, month, calendar.MonthGrid(year, month), profile.Badges(), ctx.Today()))
	if c.Day == "" {
		return nil
	}

	day := profile.RenderDay(c.Day)
	fmt.Println(cli.HeaderStyle.Render(day.Date))
	if len(day.Entries) == 0 {
		fmt.Println("  Nothing logged")
	}
	for _, e := range day.Entries {
		fmt.Printf("  %s %s\n", cli.Dot(e.Color), cli.JoinNonEmpty(" ", e.Time, e.Label, e.Note))
	}
	return nil
}
