package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	types "github.com/yungbote/cargoledger-backend/internal/domain"
)

// UniqueCode returns prefix with a short random suffix so Postgres runs don't collide.
func UniqueCode(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8]
}

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.User {
	tb.Helper()
	u := &types.User{ID: uuid.New(), Name: name, Email: name + "@example.com"}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedContainer(tb testing.TB, ctx context.Context, tx *gorm.DB, code string) *types.Container {
	tb.Helper()
	c := &types.Container{Code: code, Origin: "Guangzhou"}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed container: %v", err)
	}
	return c
}

func SeedSheet(tb testing.TB, ctx context.Context, tx *gorm.DB, containerID uuid.UUID, mark string) *types.LoadingSheet {
	tb.Helper()
	s := &types.LoadingSheet{ContainerID: containerID, ShippingMark: mark}
	if err := tx.WithContext(ctx).Omit("Items").Create(s).Error; err != nil {
		tb.Fatalf("seed sheet: %v", err)
	}
	return s
}

func SeedItem(tb testing.TB, ctx context.Context, tx *gorm.DB, sheetID uuid.UUID, ctn int64, cbm, wt string) *types.LoadingItem {
	tb.Helper()
	it := &types.LoadingItem{
		LoadingSheetID: sheetID,
		Particular:     "goods",
		Ctn:            ctn,
		Pcs:            1,
		Cbm:            decimal.RequireFromString(cbm),
		Wt:             decimal.RequireFromString(wt),
	}
	if err := tx.WithContext(ctx).Create(it).Error; err != nil {
		tb.Fatalf("seed item: %v", err)
	}
	return it
}
