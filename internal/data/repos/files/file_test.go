package files

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/docqa-backend/internal/data/repos/testutil"
	types "github.com/yungbote/docqa-backend/internal/domain"
	"github.com/yungbote/docqa-backend/internal/platform/dbctx"
)

func TestFileRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	owner := testutil.SeedUser(t, ctx, tx, "files@example.com")
	other := testutil.SeedUser(t, ctx, tx, "other@example.com")

	repo := NewFileRepo(db, testutil.Logger(t))

	now := time.Now().UTC()
	created, err := repo.Create(dbc, []*types.File{
		{UserID: owner.ID, Filename: "a.pdf", FileType: "application/pdf", FilePath: "/data/a.pdf", UploadedAt: now},
		{UserID: owner.ID, Filename: "a.pdf", FileType: "application/pdf", FilePath: "/data/a.pdf", UploadedAt: now.Add(time.Second)},
		{UserID: other.ID, Filename: "b.pdf", FileType: "application/pdf", FilePath: "/data/b.pdf", UploadedAt: now},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 3 {
		t.Fatalf("Create: expected 3 files, got %d", len(created))
	}

	mine, err := repo.GetByUserID(dbc, owner.ID, 0, 100)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if len(mine) != 2 || mine[0].ID != created[0].ID {
		t.Fatalf("GetByUserID: unexpected result: %+v", mine)
	}

	n, err := repo.CountByPath(dbc, "/data/a.pdf")
	if err != nil {
		t.Fatalf("CountByPath: %v", err)
	}
	if n != 2 {
		t.Fatalf("CountByPath: expected 2, got %d", n)
	}

	got, err := repo.GetByIDs(dbc, []uint{created[2].ID})
	if err != nil {
		t.Fatalf("GetByIDs: %v", err)
	}
	if len(got) != 1 || got[0].ID != created[2].ID {
		t.Fatalf("GetByIDs: unexpected result: %+v", got)
	}

	if err := repo.FullDeleteByIDs(dbc, []uint{created[0].ID}); err != nil {
		t.Fatalf("FullDeleteByIDs: %v", err)
	}
	mine, err = repo.GetByUserID(dbc, owner.ID, 0, 0)
	if err != nil {
		t.Fatalf("GetByUserID(after delete): %v", err)
	}
	if len(mine) != 1 || mine[0].ID != created[1].ID {
		t.Fatalf("GetByUserID(after delete): unexpected result: %+v", mine)
	}
}

func TestFileRowsFollowUserDeletion(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	owner := testutil.SeedUser(t, ctx, db, "cascade@example.com")
	testutil.SeedFile(t, ctx, db, owner, "doc.pdf")

	if err := db.Delete(&types.User{}, owner.ID).Error; err != nil {
		t.Fatalf("delete user: %v", err)
	}

	repo := NewFileRepo(db, testutil.Logger(t))
	left, err := repo.GetByUserID(dbctx.Context{Ctx: ctx}, owner.ID, 0, 0)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("expected cascade delete, %d rows left", len(left))
	}
}
