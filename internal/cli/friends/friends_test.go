package friends

import (
	"errors"
	"testing"

	"github.com/julianstephens/routinelog/internal/cli"
	"github.com/julianstephens/routinelog/internal/cli/clitest"
	apperrors "github.com/julianstephens/routinelog/internal/errors"
	"github.com/julianstephens/routinelog/internal/models"
)

func switchTo(t *testing.T, ctx *cli.Context, username string) string {
	t.Helper()
	user, err := ctx.Auth.Login(ctx.Ctx, username, "secret1")
	if err != nil {
		t.Fatalf("Login(%q) error = %v", username, err)
	}
	return user.UID
}

func TestFriendFlow(t *testing.T) {
	ctx := clitest.NewContext(t)
	bob := clitest.SignIn(t, ctx, "bob").UID
	alice := clitest.SignIn(t, ctx, "alice").UID

	if err := (&FriendSearchCmd{Username: "BOB"}).Run(ctx); err != nil {
		t.Fatalf("friend search failed: %v", err)
	}
	if err := (&FriendRequestCmd{Username: "nobody"}).Run(ctx); err == nil {
		t.Error("request to an unknown user should fail")
	}
	if err := (&FriendRequestCmd{Username: "alice"}).Run(ctx); !errors.Is(err, apperrors.ErrSelfRequest) {
		t.Errorf("self request error = %v, want ErrSelfRequest", err)
	}
	if err := (&FriendRequestCmd{Username: "bob"}).Run(ctx); err != nil {
		t.Fatalf("friend request failed: %v", err)
	}
	if err := (&FriendRequestCmd{Username: "bob"}).Run(ctx); !errors.Is(err, apperrors.ErrRequestPending) {
		t.Errorf("duplicate request error = %v, want ErrRequestPending", err)
	}

	switchTo(t, ctx, "bob")
	requests, err := ctx.Tracker.GetIncomingRequests(ctx.Ctx, bob)
	if err != nil || len(requests) != 1 {
		t.Fatalf("GetIncomingRequests() = %v, %v", requests, err)
	}
	if err := (&FriendRequestsCmd{}).Run(ctx); err != nil {
		t.Errorf("friend requests failed: %v", err)
	}
	if err := (&FriendRespondCmd{ID: requests[0].ID}).Run(ctx); err != nil {
		t.Fatalf("friend respond failed: %v", err)
	}
	if err := (&FriendRespondCmd{ID: requests[0].ID}).Run(ctx); !errors.Is(err, apperrors.ErrRequestClosed) {
		t.Errorf("second respond error = %v, want ErrRequestClosed", err)
	}
	if err := (&FriendListCmd{}).Run(ctx); err != nil {
		t.Errorf("friend list failed: %v", err)
	}

	// bob lets alice see details but hides times.
	if err := (&FriendPermsCmd{Username: "alice", Details: "on", Times: "off"}).Run(ctx); err != nil {
		t.Fatalf("friend perms failed: %v", err)
	}
	status, err := ctx.Tracker.GetFriendshipStatus(ctx.Ctx, alice, bob)
	if err != nil {
		t.Fatal(err)
	}
	want := models.Permissions{ViewCalendar: true, ViewDetails: true, HideTimes: true}
	if status.Permissions != want {
		t.Errorf("permissions = %+v, want %+v", status.Permissions, want)
	}
	if err := (&FriendPermsCmd{Username: "alice", Calendar: "maybe"}).Run(ctx); err == nil {
		t.Error("friend perms with a bad switch should fail")
	}

	if _, err := ctx.Tracker.AddLog(ctx.Ctx, bob, models.Log{Date: "2025-03-03", Time: "07:00", ItemID: "x", ItemNameSnapshot: "Run"}); err != nil {
		t.Fatal(err)
	}
	switchTo(t, ctx, "alice")
	if err := (&FriendViewCmd{Username: "bob", Day: "2025-03-03"}).Run(ctx); err != nil {
		t.Fatalf("friend view failed: %v", err)
	}

	if err := (&FriendRemoveCmd{Username: "bob", Yes: true}).Run(ctx); err != nil {
		t.Fatalf("friend remove failed: %v", err)
	}
	if err := (&FriendViewCmd{Username: "bob"}).Run(ctx); err == nil {
		t.Error("viewing a removed friend should fail")
	}
	if err := (&FriendRemoveCmd{Username: "bob", Yes: true}).Run(ctx); !errors.Is(err, apperrors.ErrNotFriends) {
		t.Errorf("removing twice error = %v, want ErrNotFriends", err)
	}
}

func TestFormatPermissions(t *testing.T) {
	tests := []struct {
		perms models.Permissions
		want  string
	}{
		{models.Permissions{}, "calendar hidden"},
		{models.DefaultPermissions(), "calendar"},
		{models.Permissions{ViewCalendar: true, ViewDetails: true}, "calendar, details"},
		{models.Permissions{ViewCalendar: true, HideTimes: true}, "calendar, times hidden"},
	}
	for _, tt := range tests {
		if got := FormatPermissions(tt.perms); got != tt.want {
			t.Errorf("FormatPermissions(%+v) = %q, want %q", tt.perms, got, tt.want)
		}
	}
}
