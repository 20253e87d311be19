package groups

import (
	"testing"

	"github.com/julianstephens/routinelog/internal/cli/clitest"
)

func strPtr(s string) *string { return &s }

func TestGroupCommands(t *testing.T) {
	ctx := clitest.NewContext(t)
	user := clitest.SignIn(t, ctx, "alice")

	if err := (&GroupAddCmd{Name: "  Health ", Color: "#22c55e"}).Run(ctx); err != nil {
		t.Fatalf("group add failed: %v", err)
	}
	if err := (&GroupAddCmd{Name: "Work"}).Run(ctx); err != nil {
		t.Fatalf("group add with default colour failed: %v", err)
	}
	if err := (&GroupAddCmd{Name: "Bad", Color: "green"}).Run(ctx); err == nil {
		t.Error("group add with invalid colour should fail")
	}

	groups, err := ctx.Tracker.GetGroups(ctx.Ctx, user.UID)
	if err != nil {
		t.Fatalf("GetGroups() error = %v", err)
	}
	if len(groups) != 2 || groups[0].Name != "Health" || groups[1].Color != "#8b5cf6" {
		t.Fatalf("groups = %+v", groups)
	}
	if err := (&GroupListCmd{}).Run(ctx); err != nil {
		t.Errorf("group list failed: %v", err)
	}

	if err := (&GroupEditCmd{ID: groups[1].ID}).Run(ctx); err == nil {
		t.Error("group edit without changes should fail")
	}
	if err := (&GroupEditCmd{ID: groups[1].ID, Name: strPtr("Career")}).Run(ctx); err != nil {
		t.Fatalf("group edit failed: %v", err)
	}

	if err := (&GroupDeleteCmd{ID: groups[0].ID, Yes: true}).Run(ctx); err != nil {
		t.Fatalf("group delete failed: %v", err)
	}
	groups, _ = ctx.Tracker.GetGroups(ctx.Ctx, user.UID)
	if len(groups) != 1 || groups[0].Name != "Career" {
		t.Errorf("groups after edit/delete = %+v", groups)
	}
}

func TestGroupEnsureDefaultCmd(t *testing.T) {
	ctx := clitest.NewContext(t)
	user := clitest.SignIn(t, ctx, "alice")

	for i := 0; i < 2; i++ {
		if err := (&GroupEnsureDefaultCmd{}).Run(ctx); err != nil {
			t.Fatalf("ensure-default failed: %v", err)
		}
	}
	groups, _ := ctx.Tracker.GetGroups(ctx.Ctx, user.UID)
	if len(groups) != 1 {
		t.Errorf("groups = %d, want 1", len(groups))
	}
}

func TestGroupCommandsRequireLogin(t *testing.T) {
	ctx := clitest.NewContext(t)
	if err := (&GroupListCmd{}).Run(ctx); err == nil {
		t.Error("group list without a session should fail")
	}
}
